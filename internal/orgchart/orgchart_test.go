package orgchart

import (
	"encoding/json"
	"testing"
)

const chartFixture = `{
	"leadership": [
		{"email": "ceo@acme.com", "name": "Alice Chief", "title": "CEO"}
	],
	"people": [
		{"email": "Jane.Doe@acme.com ", "name": "Jane Doe", "title": "Engineer"},
		{"email": "", "name": "No Email"}
	],
	"team": [
		{"email": "jane.doe@acme.com", "name": "Jane Q. Doe", "title": "Senior Engineer"}
	],
	"external_ecosystem": {
		"partners": {
			"key_contacts": [
				{"email": "bob@partner.com", "name": "Bob Smith", "title": "Director"}
			],
			"integrators": {
				"key_contacts": [
					{"email": "carol@integrator.com", "name": "Carol Jones"}
				]
			}
		}
	}
}`

func loadFixture(t *testing.T) *Chart {
	t.Helper()
	var chart Chart
	if err := json.Unmarshal([]byte(chartFixture), &chart); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return &chart
}

func TestBuildKnownPeople(t *testing.T) {
	known := BuildKnownPeople(loadFixture(t))

	if len(known) != 4 {
		t.Fatalf("expected 4 known people, got %d: %v", len(known), known)
	}

	// Blank email skipped.
	if _, ok := known[""]; ok {
		t.Error("blank email should be skipped")
	}

	// Emails lowercased and trimmed; later section wins on duplicates.
	jane, ok := known["jane.doe@acme.com"]
	if !ok {
		t.Fatal("jane.doe@acme.com not found")
	}
	if jane.Section != "team" || jane.Name != "Jane Q. Doe" {
		t.Errorf("last write should win: got section %q, name %q", jane.Section, jane.Name)
	}

	// Ecosystem contacts labeled by dotted path.
	bob, ok := known["bob@partner.com"]
	if !ok {
		t.Fatal("bob@partner.com not found")
	}
	if bob.Section != "external_ecosystem.partners" {
		t.Errorf("bob section = %q", bob.Section)
	}
	carol, ok := known["carol@integrator.com"]
	if !ok {
		t.Fatal("carol@integrator.com not found")
	}
	if carol.Section != "external_ecosystem.partners.integrators" {
		t.Errorf("carol section = %q", carol.Section)
	}
}

func TestCollectPersonIdentifiers(t *testing.T) {
	ids := CollectPersonIdentifiers(loadFixture(t))

	for _, want := range []string{"alice_chief", "jane_doe", "jane_q_doe", "bob_smith", "carol_jones"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing identifier %q in %v", want, ids)
		}
	}
	if _, ok := ids["no_email"]; !ok {
		t.Error("identifier collection keys on names, not emails; no_email should be present")
	}
}

func TestClassifyDomain(t *testing.T) {
	domains := []string{"acme.com", "partner.com"}
	labels := map[string]string{"acme.com": "Acme Corp"}

	tests := []struct {
		name       string
		email      string
		wantDomain string
		wantLabel  string
		wantOK     bool
	}{
		{
			name:       "exact match with label",
			email:      "x@acme.com",
			wantDomain: "acme.com",
			wantLabel:  "Acme Corp",
			wantOK:     true,
		},
		{
			name:       "dot-suffix subdomain matches",
			email:      "x@sub.acme.com",
			wantDomain: "acme.com",
			wantLabel:  "Acme Corp",
			wantOK:     true,
		},
		{
			name:   "superstring domain does not match",
			email:  "x@notacme.com",
			wantOK: false,
		},
		{
			name:       "unmapped label falls back to domain",
			email:      "y@partner.com",
			wantDomain: "partner.com",
			wantLabel:  "partner.com",
			wantOK:     true,
		},
		{
			name:       "case insensitive address",
			email:      "X@ACME.COM",
			wantDomain: "acme.com",
			wantLabel:  "Acme Corp",
			wantOK:     true,
		},
		{
			name:   "no at sign",
			email:  "not-an-email",
			wantOK: false,
		},
		{
			name:   "empty domain part",
			email:  "user@",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain, label, ok := ClassifyDomain(tt.email, domains, labels)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if domain != tt.wantDomain || label != tt.wantLabel {
				t.Errorf("got (%q, %q), want (%q, %q)", domain, label, tt.wantDomain, tt.wantLabel)
			}
		})
	}
}

func TestClassifyDomainFirstConfiguredWins(t *testing.T) {
	// Both entries match x@sub.acme.com; the first configured one wins even
	// though the second is the longer match.
	domains := []string{"acme.com", "sub.acme.com"}
	domain, _, ok := ClassifyDomain("x@sub.acme.com", domains, nil)
	if !ok || domain != "acme.com" {
		t.Errorf("expected first configured domain to win, got %q (ok=%v)", domain, ok)
	}
}
