package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/config"
	"github.com/mikey/engagement-tools/internal/logging"
	"github.com/mikey/engagement-tools/internal/registry"
)

// CheckFlags contains all command line flags for the registry-check application
type CheckFlags struct {
	Root    string
	Verbose bool
	JSONLog bool
}

// ParseCheckFlags parses command line flags and returns a CheckFlags struct
func ParseCheckFlags() *CheckFlags {
	flags := &CheckFlags{}

	flag.StringVar(&flags.Root, "root", "", "Repository root (default: discovered from the working directory)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	flag.Parse()
	if flags.Root == "" {
		flags.Root = config.FindRepoRoot("")
	}
	return flags
}

// BuildCheckContainer creates and configures a dependency injection container
// for the registry-check application
func BuildCheckContainer(flags *CheckFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CheckFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CheckFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register registry validator
	if err := container.Provide(registry.NewValidator); err != nil {
		return nil, err
	}

	return container, nil
}
