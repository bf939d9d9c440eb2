package orgchart

import (
	"strings"

	"github.com/mikey/engagement-tools/internal/identity"
)

// Person is one record from the org chart.
type Person struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Chart is the org chart document: fixed named sections plus an arbitrarily
// nested external-ecosystem tree carrying key_contacts lists at any depth.
type Chart struct {
	Leadership        []Person               `json:"leadership"`
	People            []Person               `json:"people"`
	Team              []Person               `json:"team"`
	Contacts          []Person               `json:"contacts"`
	ExternalEcosystem map[string]interface{} `json:"external_ecosystem"`
}

// Known is what we remember about a known person, keyed by email elsewhere.
type Known struct {
	Name    string
	Section string
	Title   string
}

var sections = []struct {
	name string
	get  func(*Chart) []Person
}{
	{"leadership", func(c *Chart) []Person { return c.Leadership }},
	{"people", func(c *Chart) []Person { return c.People }},
	{"team", func(c *Chart) []Person { return c.Team }},
	{"contacts", func(c *Chart) []Person { return c.Contacts }},
}

// BuildKnownPeople flattens the chart into an email-keyed lookup. Emails are
// lowercased and trimmed; blank emails are skipped. When the same email
// appears in several sections, the last one seen wins.
func BuildKnownPeople(chart *Chart) map[string]Known {
	known := make(map[string]Known)
	visit := func(p Person, section string) {
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if email == "" {
			return
		}
		known[email] = Known{Name: p.Name, Section: section, Title: p.Title}
	}
	walkChart(chart, visit)
	return known
}

// CollectPersonIdentifiers flattens the chart into a set of normalized-name
// identifiers, used by registry validation to resolve RACI display names.
func CollectPersonIdentifiers(chart *Chart) map[string]struct{} {
	ids := make(map[string]struct{})
	visit := func(p Person, section string) {
		if id := identity.Normalize(p.Name); id != "" {
			ids[id] = struct{}{}
		}
	}
	walkChart(chart, visit)
	return ids
}

func walkChart(chart *Chart, visit func(Person, string)) {
	for _, s := range sections {
		for _, p := range s.get(chart) {
			visit(p, s.name)
		}
	}
	if chart.ExternalEcosystem != nil {
		walkEcosystem(chart.ExternalEcosystem, "external_ecosystem", visit)
	}
}

// walkEcosystem treats every node as one of three shapes: an object whose
// key_contacts list contributes people under the node's dotted path, a
// nested container to descend into, or a leaf to ignore.
func walkEcosystem(node interface{}, path string, visit func(Person, string)) {
	switch n := node.(type) {
	case map[string]interface{}:
		if contacts, ok := n["key_contacts"].([]interface{}); ok {
			visitContactList(contacts, path, visit)
		}
		for k, v := range n {
			if k == "key_contacts" {
				continue
			}
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				walkEcosystem(v, path+"."+k, visit)
			}
		}
	case []interface{}:
		visitContactList(n, path, visit)
	}
}

func visitContactList(list []interface{}, path string, visit func(Person, string)) {
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		visit(Person{
			Email: stringField(m, "email"),
			Name:  stringField(m, "name"),
			Title: stringField(m, "title"),
		}, path)
	}
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ClassifyDomain matches the domain of an email address against the
// configured list: exact match or dot-suffix match (sub.acme.com matches
// acme.com). The first configured domain that matches wins, so list order
// matters. The label falls back to the raw domain when unmapped.
func ClassifyDomain(email string, domains []string, labels map[string]string) (domain, label string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", "", false
	}
	addrDomain := strings.ToLower(email[at+1:])
	if addrDomain == "" {
		return "", "", false
	}
	for _, d := range domains {
		if addrDomain == d || strings.HasSuffix(addrDomain, "."+d) {
			l := labels[d]
			if l == "" {
				l = d
			}
			return d, l, true
		}
	}
	return "", "", false
}
