package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingRegistry(t *testing.T) {
	reg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg != nil {
		t.Errorf("missing registry should load as nil, got %+v", reg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	reg := &Registry{
		GovernanceTypes: GovernanceTypes,
		Engagements: map[string]Engagement{
			"alpha": {
				Label:      "Alpha Modernization",
				Status:     "active",
				Governance: "steering_committee",
				RACI:       RACI{Responsible: []string{"Jane Doe"}},
			},
		},
	}

	path, err := Save(dir, reg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, Filename) {
		t.Errorf("Save path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("registry file should end with a newline")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, reg) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded, reg)
	}
}

func TestWorkstreamContacts(t *testing.T) {
	reg := &Registry{
		Engagements: map[string]Engagement{
			"alpha": {
				RACI: RACI{
					Responsible: []string{"Jane Doe"},
					Accountable: []string{"Raj Patel"},
				},
				Workstreams: map[string]Workstream{
					"data": {RACI: RACI{
						Responsible: []string{"Sam Lee"},
						Accountable: []string{"Sam Lee", "Jane Doe"},
					}},
					"infra": {}, // no RACI of its own
				},
			},
		},
	}

	t.Run("workstream RACI wins, deduplicated in role order", func(t *testing.T) {
		got := WorkstreamContacts(reg, "alpha", "data")
		want := []string{"Sam Lee", "Jane Doe"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("contacts = %v, want %v", got, want)
		}
	})

	t.Run("empty workstream RACI falls back to engagement", func(t *testing.T) {
		got := WorkstreamContacts(reg, "alpha", "infra")
		want := []string{"Jane Doe", "Raj Patel"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("contacts = %v, want %v", got, want)
		}
	})

	t.Run("unknown engagement", func(t *testing.T) {
		if got := WorkstreamContacts(reg, "nope", "data"); got != nil {
			t.Errorf("contacts = %v, want nil", got)
		}
	})
}
