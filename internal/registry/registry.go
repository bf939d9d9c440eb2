package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/engagement-tools/internal/jsonio"
)

// Filename is the registry document's conventional name under _company/.
const Filename = "engagement_registry.json"

// GovernanceTypes maps governance keys to their human-readable descriptions.
var GovernanceTypes = map[string]string{
	"steering_committee": "Executive-level decision forum",
	"technical_review":   "Architecture and implementation review",
	"executive_sponsor":  "Single executive owner",
	"working_group":      "Cross-functional operational team",
	"advisory_board":     "External advisory and guidance",
}

// RACI lists display names per governance role. Names are display strings,
// not identifiers; validation normalizes them against the org chart.
type RACI struct {
	Responsible []string `json:"responsible"`
	Accountable []string `json:"accountable"`
	Consulted   []string `json:"consulted"`
	Informed    []string `json:"informed"`
}

// raciRoles fixes the iteration order over RACI lists.
var raciRoles = []struct {
	name string
	get  func(*RACI) []string
}{
	{"responsible", func(r *RACI) []string { return r.Responsible }},
	{"accountable", func(r *RACI) []string { return r.Accountable }},
	{"consulted", func(r *RACI) []string { return r.Consulted }},
	{"informed", func(r *RACI) []string { return r.Informed }},
}

func (r *RACI) empty() bool {
	return len(r.Responsible) == 0 && len(r.Accountable) == 0 &&
		len(r.Consulted) == 0 && len(r.Informed) == 0
}

// Workstream is one sub-unit of an engagement.
type Workstream struct {
	Label      string `json:"label"`
	Status     string `json:"status"`
	Governance string `json:"governance"`
	RACI       RACI   `json:"raci"`
}

// Engagement is one top-level registry entry. The map key doubles as the
// on-disk engagement directory name.
type Engagement struct {
	Label       string                `json:"label"`
	Status      string                `json:"status"`
	Governance  string                `json:"governance"`
	RACI        RACI                  `json:"raci"`
	Workstreams map[string]Workstream `json:"workstreams,omitempty"`
}

// Registry is the engagement_registry.json document: the single source of
// truth for hierarchy, status, governance, and RACI.
type Registry struct {
	GovernanceTypes map[string]string     `json:"governance_types"`
	Engagements     map[string]Engagement `json:"engagements"`
}

// Load reads engagement_registry.json from the _company/ directory. A
// missing file returns (nil, nil); a malformed file returns an error.
func Load(companyDir string) (*Registry, error) {
	path := filepath.Join(companyDir, Filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	var reg Registry
	if err := jsonio.Load(path, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save writes engagement_registry.json to the _company/ directory and
// returns the path written.
func Save(companyDir string, reg *Registry) (string, error) {
	path := filepath.Join(companyDir, Filename)
	if err := jsonio.Save(path, reg); err != nil {
		return "", err
	}
	return path, nil
}

// WorkstreamContacts flattens a workstream's RACI into an ordered list of
// unique names, role by role. A workstream with no RACI of its own falls
// back to the engagement-level RACI.
func WorkstreamContacts(reg *Registry, engKey, wsKey string) []string {
	if reg == nil {
		return nil
	}
	eng, ok := reg.Engagements[engKey]
	if !ok {
		return nil
	}
	raci := &eng.RACI
	if ws, ok := eng.Workstreams[wsKey]; ok && !ws.RACI.empty() {
		raci = &ws.RACI
	}

	seen := make(map[string]struct{})
	var names []string
	for _, role := range raciRoles {
		for _, name := range role.get(raci) {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
