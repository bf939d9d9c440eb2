package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/config"
	"github.com/mikey/engagement-tools/internal/identity"
	"github.com/mikey/engagement-tools/internal/jsonio"
	"github.com/mikey/engagement-tools/internal/orgchart"
)

// Mismatch is one RACI name that does not resolve to an org-chart person.
type Mismatch struct {
	Engagement string `json:"engagement"`
	Workstream string `json:"workstream,omitempty"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
}

// WorkstreamRef names an engagement/workstream pair.
type WorkstreamRef struct {
	Engagement string `json:"engagement"`
	Workstream string `json:"workstream"`
}

// Result is the outcome of one validation run. A missing registry file is
// reported through Err and Valid=false rather than an error.
type Result struct {
	RACIMismatches    []Mismatch      `json:"raci_mismatches"`
	OrphanEngagements []string        `json:"orphan_engagements"`
	OrphanWorkstreams []WorkstreamRef `json:"orphan_workstreams"`
	Valid             bool            `json:"valid"`
	Err               string          `json:"error,omitempty"`
}

// Validator cross-checks the registry against the org chart and the on-disk
// engagement directories.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a new registry validator.
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate checks every RACI name against the org-chart identifier set,
// flags registry engagements with no on-disk directory, and flags on-disk
// workstreams absent from the registry. A missing org chart leaves the
// identifier set empty, so every RACI name mismatches.
func (v *Validator) Validate(repoRoot string) (*Result, error) {
	companyDir := filepath.Join(repoRoot, config.CompanyDirName)
	reg, err := Load(companyDir)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return &Result{Err: "no engagement_registry.json found"}, nil
	}

	personIDs := v.loadPersonIDs(companyDir)

	result := &Result{
		RACIMismatches:    []Mismatch{},
		OrphanEngagements: []string{},
		OrphanWorkstreams: []WorkstreamRef{},
	}

	for _, engKey := range sortedEngagementKeys(reg) {
		eng := reg.Engagements[engKey]
		checkRACI(&eng.RACI, engKey, "", personIDs, result)
		for _, wsKey := range sortedWorkstreamKeys(eng.Workstreams) {
			ws := eng.Workstreams[wsKey]
			checkRACI(&ws.RACI, engKey, wsKey, personIDs, result)
		}

		dir := filepath.Join(repoRoot, engKey)
		cfgPath := filepath.Join(dir, config.EngagementConfigName)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			result.OrphanEngagements = append(result.OrphanEngagements, engKey)
		} else if _, err := os.Stat(cfgPath); err != nil {
			result.OrphanEngagements = append(result.OrphanEngagements, engKey)
		}
	}

	v.findOrphanWorkstreams(repoRoot, reg, result)

	result.Valid = len(result.RACIMismatches) == 0 &&
		len(result.OrphanEngagements) == 0 &&
		len(result.OrphanWorkstreams) == 0

	v.logger.Debug("Validation complete",
		zap.Int("raci_mismatches", len(result.RACIMismatches)),
		zap.Int("orphan_engagements", len(result.OrphanEngagements)),
		zap.Int("orphan_workstreams", len(result.OrphanWorkstreams)),
		zap.Bool("valid", result.Valid))

	return result, nil
}

// loadPersonIDs builds the normalized-name identifier set from the org
// chart. Missing or malformed chart → empty set.
func (v *Validator) loadPersonIDs(companyDir string) map[string]struct{} {
	var chart orgchart.Chart
	if !jsonio.LoadOptional(filepath.Join(companyDir, "org_chart.json"), &chart) {
		v.logger.Debug("No org chart; RACI names cannot resolve")
		return map[string]struct{}{}
	}
	return orgchart.CollectPersonIdentifiers(&chart)
}

// findOrphanWorkstreams scans the repository root for engagement configs
// and flags every configured workstream the registry does not know about.
// Unparseable configs are skipped.
func (v *Validator) findOrphanWorkstreams(repoRoot string, reg *Registry, result *Result) {
	registered := make(map[WorkstreamRef]struct{})
	for engKey, eng := range reg.Engagements {
		for wsKey := range eng.Workstreams {
			registered[WorkstreamRef{engKey, wsKey}] = struct{}{}
		}
	}

	entries, err := os.ReadDir(repoRoot)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg, ok := config.LoadEngagementFileConfig(filepath.Join(repoRoot, entry.Name()))
		if !ok {
			continue
		}
		engKey := cfg.Engagement
		if engKey == "" {
			engKey = entry.Name()
		}
		for _, wsKey := range sortedMapKeys(cfg.Workstreams) {
			ref := WorkstreamRef{engKey, wsKey}
			if _, ok := registered[ref]; !ok {
				result.OrphanWorkstreams = append(result.OrphanWorkstreams, ref)
			}
		}
	}
}

func checkRACI(raci *RACI, engKey, wsKey string, personIDs map[string]struct{}, result *Result) {
	for _, role := range raciRoles {
		for _, name := range role.get(raci) {
			id := identity.Normalize(name)
			if _, ok := personIDs[id]; ok {
				continue
			}
			result.RACIMismatches = append(result.RACIMismatches, Mismatch{
				Engagement: engKey,
				Workstream: wsKey,
				Role:       role.name,
				Name:       name,
				Reason:     fmt.Sprintf("Name %q (id: %s) not found in org chart", name, id),
			})
		}
	}
}

func sortedEngagementKeys(reg *Registry) []string {
	keys := make([]string, 0, len(reg.Engagements))
	for k := range reg.Engagements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedWorkstreamKeys(ws map[string]Workstream) []string {
	keys := make([]string, 0, len(ws))
	for k := range ws {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMapKeys(m map[string]map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
