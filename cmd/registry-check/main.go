package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/di"
	"github.com/mikey/engagement-tools/internal/registry"
)

func main() {
	flags := di.ParseCheckFlags()
	if flags.Root == "" {
		fmt.Fprintln(os.Stderr, "registry-check: no repository root found (no _company/ directory above the working directory; use --root)")
		os.Exit(2)
	}

	container, err := di.BuildCheckContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry-check: failed to build container: %v\n", err)
		os.Exit(1)
	}

	var valid bool
	if err := container.Invoke(func(flags *di.CheckFlags, logger *zap.Logger, v *registry.Validator) error {
		defer logger.Sync()
		result, err := v.Validate(flags.Root)
		if err != nil {
			return err
		}
		printFindings(result)
		valid = result.Valid
		return nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "registry-check: %v\n", err)
		os.Exit(1)
	}

	if !valid {
		os.Exit(1)
	}
}

func printFindings(result *registry.Result) {
	header := color.New(color.FgCyan, color.Bold)
	bad := color.New(color.FgRed)
	good := color.New(color.FgGreen)

	header.Println("=== Registry Validation ===")

	if result.Err != "" {
		bad.Printf("  %s\n", result.Err)
		return
	}

	if len(result.RACIMismatches) > 0 {
		bad.Printf("\n%d RACI mismatch(es):\n", len(result.RACIMismatches))
		for _, m := range result.RACIMismatches {
			loc := m.Engagement
			if m.Workstream != "" {
				loc += "/" + m.Workstream
			}
			fmt.Printf("  [%s] %s: %s\n", loc, m.Role, m.Reason)
		}
	}

	if len(result.OrphanEngagements) > 0 {
		bad.Printf("\n%d orphan engagement(s) (in registry, no directory on disk):\n", len(result.OrphanEngagements))
		for _, key := range result.OrphanEngagements {
			fmt.Printf("  %s\n", key)
		}
	}

	if len(result.OrphanWorkstreams) > 0 {
		bad.Printf("\n%d orphan workstream(s) (configured on disk, missing from registry):\n", len(result.OrphanWorkstreams))
		for _, ref := range result.OrphanWorkstreams {
			fmt.Printf("  %s/%s\n", ref.Engagement, ref.Workstream)
		}
	}

	if result.Valid {
		good.Println("  Registry is consistent with the org chart and on-disk engagements.")
	}
}
