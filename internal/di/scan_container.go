package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/config"
	"github.com/mikey/engagement-tools/internal/core"
	"github.com/mikey/engagement-tools/internal/dedup"
	"github.com/mikey/engagement-tools/internal/factory"
	"github.com/mikey/engagement-tools/internal/logging"
)

// ScanFlags contains all command line flags for the people-scan application
type ScanFlags struct {
	// Positional
	EmailDir string

	// Path overrides
	CompanyConfig string
	OrgChart      string
	Checkpoint    string
	IgnoreList    string
	Output        string

	// Scan behavior
	Domains           string
	Reprocess         bool
	MigrateCheckpoint string

	// Generic flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseScanFlags parses command line flags and returns a ScanFlags struct
func ParseScanFlags() *ScanFlags {
	flags := &ScanFlags{}

	flag.StringVar(&flags.CompanyConfig, "company-config", "", "Path to company_config.json (default: discovered under _company/)")
	flag.StringVar(&flags.OrgChart, "org-chart", "", "Path to org chart JSON (default: from people config)")
	flag.StringVar(&flags.Checkpoint, "checkpoint", "", "Path to the processed-ids checkpoint (default: from people config)")
	flag.StringVar(&flags.IgnoreList, "ignore-list", "", "Path to the ignore-list JSON (default: from people config)")
	flag.StringVar(&flags.Output, "output", "", "Report output path (default: <email_dir>/people_report.json)")

	flag.StringVar(&flags.Domains, "domains", "", "Comma-separated list of domains to scan for")
	flag.BoolVar(&flags.Reprocess, "reprocess", false, "Reprocess emails already recorded in the checkpoint")
	flag.StringVar(&flags.MigrateCheckpoint, "migrate-checkpoint", "", "Migrate the legacy id checkpoint to a subject+date checkpoint at the given path, then exit")

	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	flags.EmailDir = flag.Arg(0)
	return flags
}

// BuildScanContainer creates and configures a dependency injection container
// for the people-scan application
func BuildScanContainer(flags *ScanFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *ScanFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *ScanFlags) (*config.Config, error) {
		if flags.ConfigFile != "" {
			return config.New()
		}
		return config.NewFromViper(config.NewEmptyViper()), nil
	}); err != nil {
		return nil, err
	}

	// Register logger. A file-based config carries logging.level and
	// logging.format; flag-only runs get the console logger.
	if err := container.Provide(func(flags *ScanFlags, cfg *config.Config) (*zap.Logger, error) {
		if flags.ConfigFile != "" {
			logger, err := logging.InitLogger(cfg)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return logger, nil
		}
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register checkpoint store factory
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}

	// Register checkpoint store
	if err := container.Provide(func(f *factory.StoreFactory) (dedup.Store, error) {
		return f.CreateCheckpointStore()
	}); err != nil {
		return nil, err
	}

	// Register scan options assembled from flags, file configs, and defaults
	if err := container.Provide(buildScanOptions); err != nil {
		return nil, err
	}

	// Register people service
	if err := container.Provide(core.NewPeopleService); err != nil {
		return nil, err
	}

	return container, nil
}

// buildScanOptions merges viper defaults, the discovered _company configs,
// and command line overrides. Precedence: flags beat file configs, file
// configs beat defaults.
func buildScanOptions(flags *ScanFlags, cfg *config.Config, logger *zap.Logger) core.ScanOptions {
	peopleCfg := cfg.GetPeople()
	companyCfg := config.LoadCompanyFileConfig(flags.CompanyConfig)
	peopleFileCfg := config.LoadPeopleFileConfig("")

	opts := core.ScanOptions{
		EmailDir:           flags.EmailDir,
		Domains:            peopleCfg.Domains,
		DomainLabels:       peopleCfg.DomainLabels,
		ContractorPatterns: peopleCfg.ContractorPatterns,
		LocationHints:      peopleCfg.LocationHints,
		OrgChartPath:       peopleFileCfg.OrgChart,
		CheckpointPath:     peopleFileCfg.Checkpoint,
		IgnoreListPath:     peopleFileCfg.IgnoreList,
		Reprocess:          flags.Reprocess,
		OutputPath:         flags.Output,
	}

	if len(companyCfg.Domains) > 0 {
		opts.Domains = companyCfg.Domains
	}
	if len(companyCfg.DomainLabels) > 0 {
		opts.DomainLabels = companyCfg.DomainLabels
	}
	if len(companyCfg.ContractorPatterns) > 0 {
		opts.ContractorPatterns = companyCfg.ContractorPatterns
	}
	if len(companyCfg.LocationHints) > 0 {
		opts.LocationHints = companyCfg.LocationHints
	}

	if flags.Domains != "" {
		opts.Domains = splitCommaList(flags.Domains)
	}
	if flags.OrgChart != "" {
		opts.OrgChartPath = flags.OrgChart
	}
	if flags.Checkpoint != "" {
		opts.CheckpointPath = flags.Checkpoint
	}
	if flags.IgnoreList != "" {
		opts.IgnoreListPath = flags.IgnoreList
	}

	var engagementCfg *config.EngagementFileConfig
	if dir := config.FindEngagementDir(flags.EmailDir); dir != "" {
		if cfg, ok := config.LoadEngagementFileConfig(dir); ok {
			engagementCfg = &cfg
		}
	}
	opts.SkipSenders = config.ResolveSkipSenders(&companyCfg, engagementCfg)

	logger.Debug("Assembled scan options",
		zap.Strings("domains", opts.Domains),
		zap.String("org_chart", opts.OrgChartPath),
		zap.String("checkpoint", opts.CheckpointPath))

	return opts
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
