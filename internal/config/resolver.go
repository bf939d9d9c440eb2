package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/engagement-tools/internal/jsonio"
)

// Conventional file names under the repository root and _company/ directory.
const (
	CompanyDirName       = "_company"
	CompanyConfigName    = "company_config.json"
	PeopleConfigName     = "people_config.json"
	EngagementConfigName = "engagement_config.json"

	defaultOrgChartName   = "org_chart.json"
	defaultCheckpointName = "people_checkpoint.json"
	defaultIgnoreListName = "people_ignore.json"
)

// Directory walks are capped so a stray start path cannot scan the whole
// filesystem.
const maxWalkDepth = 20

// CompanyFileConfig is the _company/company_config.json document.
type CompanyFileConfig struct {
	Domains            []string          `json:"domains"`
	DomainLabels       map[string]string `json:"domain_labels"`
	ContractorPatterns []string          `json:"contractor_patterns"`
	LocationHints      []string          `json:"location_hints"`
	SkipSenders        []string          `json:"skip_senders"`
}

// PeopleFileConfig is the _company/people_config.json document. Paths are
// resolved against the config file's directory when relative.
type PeopleFileConfig struct {
	OrgChart   string `json:"org_chart"`
	Checkpoint string `json:"checkpoint"`
	IgnoreList string `json:"ignore_list"`
}

// EngagementFileConfig is the per-engagement engagement_config.json document.
type EngagementFileConfig struct {
	Engagement  string                            `json:"engagement"`
	Workstreams map[string]map[string]interface{} `json:"workstreams"`
	SkipSenders []string                          `json:"skip_senders"`
}

// FindCompanyDir walks up from start looking for a _company/ directory.
// Returns the empty string when none is found. Start defaults to the
// current working directory.
func FindCompanyDir(start string) string {
	current := absOrCwd(start)
	for i := 0; i < maxWalkDepth; i++ {
		candidate := filepath.Join(current, CompanyDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}

// FindRepoRoot returns the parent of the discovered _company/ directory, or
// the empty string when no company directory exists above start.
func FindRepoRoot(start string) string {
	if companyDir := FindCompanyDir(start); companyDir != "" {
		return filepath.Dir(companyDir)
	}
	return ""
}

// FindEngagementDir walks up from start looking for a directory containing
// engagement_config.json.
func FindEngagementDir(start string) string {
	current := absOrCwd(start)
	for i := 0; i < maxWalkDepth; i++ {
		if info, err := os.Stat(filepath.Join(current, EngagementConfigName)); err == nil && !info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}

// LoadCompanyFileConfig loads company_config.json from the given path, or
// from the auto-discovered _company/ directory when path is empty. Missing
// or malformed files yield a zero config.
func LoadCompanyFileConfig(path string) CompanyFileConfig {
	if path == "" {
		if companyDir := FindCompanyDir(""); companyDir != "" {
			path = filepath.Join(companyDir, CompanyConfigName)
		}
	}
	var cfg CompanyFileConfig
	jsonio.LoadOptional(path, &cfg)
	return cfg
}

// LoadPeopleFileConfig loads people_config.json from the given path, or from
// the auto-discovered _company/ directory when path is empty. Relative
// org-chart, checkpoint, and ignore-list paths resolve against the config
// file's directory. When no config file exists but a _company/ directory
// does, the conventional file names under _company/ are used.
func LoadPeopleFileConfig(path string) PeopleFileConfig {
	companyDir := FindCompanyDir("")
	if path == "" && companyDir != "" {
		path = filepath.Join(companyDir, PeopleConfigName)
	}

	var cfg PeopleFileConfig
	if jsonio.LoadOptional(path, &cfg) {
		cfgDir := filepath.Dir(mustAbs(path))
		cfg.OrgChart = resolveAgainst(cfgDir, cfg.OrgChart)
		cfg.Checkpoint = resolveAgainst(cfgDir, cfg.Checkpoint)
		cfg.IgnoreList = resolveAgainst(cfgDir, cfg.IgnoreList)
		return cfg
	}

	if companyDir != "" {
		return PeopleFileConfig{
			OrgChart:   filepath.Join(companyDir, defaultOrgChartName),
			Checkpoint: filepath.Join(companyDir, defaultCheckpointName),
			IgnoreList: filepath.Join(companyDir, defaultIgnoreListName),
		}
	}
	return PeopleFileConfig{}
}

// LoadEngagementFileConfig loads engagement_config.json from the given
// directory. Missing or malformed files yield a zero config and ok=false.
func LoadEngagementFileConfig(dir string) (EngagementFileConfig, bool) {
	var cfg EngagementFileConfig
	ok := jsonio.LoadOptional(filepath.Join(dir, EngagementConfigName), &cfg)
	return cfg, ok
}

// ResolveSkipSenders merges skip_senders from platform, company, and
// engagement levels. All levels are unioned; more specific configs add to
// the list, never remove from it. Duplicates collapse case-insensitively,
// first spelling wins.
func ResolveSkipSenders(company *CompanyFileConfig, engagement *EngagementFileConfig) []string {
	senders := make([]string, 0, len(PlatformSkipSenders))
	senders = append(senders, PlatformSkipSenders...)
	if company != nil {
		senders = append(senders, company.SkipSenders...)
	}
	if engagement != nil {
		senders = append(senders, engagement.SkipSenders...)
	}

	seen := make(map[string]struct{}, len(senders))
	result := make([]string, 0, len(senders))
	for _, s := range senders {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, s)
	}
	return result
}

func absOrCwd(start string) string {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return cwd
	}
	return mustAbs(start)
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func resolveAgainst(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
