package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/config"
)

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// fixtureRepo lays out a repository root with an org chart, a registry, and
// one on-disk engagement directory.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	companyDir := filepath.Join(root, config.CompanyDirName)

	writeJSON(t, filepath.Join(companyDir, "org_chart.json"), map[string]interface{}{
		"people": []map[string]string{
			{"email": "jane@acme.com", "name": "Jane Q. Doe"},
		},
	})

	reg := &Registry{
		GovernanceTypes: GovernanceTypes,
		Engagements: map[string]Engagement{
			"alpha": {
				Label: "Alpha",
				RACI:  RACI{Responsible: []string{"jane-q-doe"}},
				Workstreams: map[string]Workstream{
					"data": {RACI: RACI{Accountable: []string{"Nobody Known"}}},
				},
			},
		},
	}
	if _, err := Save(companyDir, reg); err != nil {
		t.Fatal(err)
	}

	writeJSON(t, filepath.Join(root, "alpha", config.EngagementConfigName), map[string]interface{}{
		"engagement": "alpha",
		"workstreams": map[string]interface{}{
			"data":  map[string]interface{}{},
			"extra": map[string]interface{}{},
		},
	})
	return root
}

func TestValidateFindings(t *testing.T) {
	root := fixtureRepo(t)
	result, err := NewValidator(zap.NewNop()).Validate(root)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Valid {
		t.Error("fixture should not validate")
	}

	// "jane-q-doe" normalizes to the same identifier as "Jane Q. Doe",
	// so the only mismatch is the unknown workstream name.
	if len(result.RACIMismatches) != 1 {
		t.Fatalf("mismatches = %+v, want exactly one", result.RACIMismatches)
	}
	m := result.RACIMismatches[0]
	if m.Engagement != "alpha" || m.Workstream != "data" || m.Role != "accountable" || m.Name != "Nobody Known" {
		t.Errorf("mismatch = %+v", m)
	}

	if len(result.OrphanEngagements) != 0 {
		t.Errorf("orphan engagements = %v, want none", result.OrphanEngagements)
	}

	if len(result.OrphanWorkstreams) != 1 {
		t.Fatalf("orphan workstreams = %+v, want exactly one", result.OrphanWorkstreams)
	}
	if ref := result.OrphanWorkstreams[0]; ref.Engagement != "alpha" || ref.Workstream != "extra" {
		t.Errorf("orphan workstream = %+v", ref)
	}
}

func TestValidateOrphanEngagement(t *testing.T) {
	root := fixtureRepo(t)
	companyDir := filepath.Join(root, config.CompanyDirName)

	reg, err := Load(companyDir)
	if err != nil {
		t.Fatal(err)
	}
	reg.Engagements["ghost"] = Engagement{Label: "Ghost"}
	if _, err := Save(companyDir, reg); err != nil {
		t.Fatal(err)
	}

	result, err := NewValidator(zap.NewNop()).Validate(root)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(result.OrphanEngagements) != 1 || result.OrphanEngagements[0] != "ghost" {
		t.Errorf("orphan engagements = %v, want [ghost]", result.OrphanEngagements)
	}
}

func TestValidateMissingRegistry(t *testing.T) {
	result, err := NewValidator(zap.NewNop()).Validate(t.TempDir())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Error("missing registry should not be valid")
	}
	if result.Err == "" {
		t.Error("missing registry should set the error field")
	}
}

func TestValidateCleanRepo(t *testing.T) {
	root := fixtureRepo(t)
	companyDir := filepath.Join(root, config.CompanyDirName)

	reg, err := Load(companyDir)
	if err != nil {
		t.Fatal(err)
	}
	eng := reg.Engagements["alpha"]
	eng.Workstreams["data"] = Workstream{RACI: RACI{Accountable: []string{"Jane Q. Doe"}}}
	eng.Workstreams["extra"] = Workstream{}
	reg.Engagements["alpha"] = eng
	if _, err := Save(companyDir, reg); err != nil {
		t.Fatal(err)
	}

	result, err := NewValidator(zap.NewNop()).Validate(root)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Errorf("repo should validate, got %+v", result)
	}
}
