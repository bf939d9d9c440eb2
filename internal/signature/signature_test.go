package signature

import (
	"strings"
	"testing"
)

func TestExtractDelimiterBlock(t *testing.T) {
	body := strings.Join([]string{
		"Hi team,",
		"",
		"Please see the attached deck before tomorrow.",
		"",
		"Best regards,",
		"Bob Smith",
		"Director of Engineering",
		"Austin, TX 78701",
	}, "\n")

	info := Extract(body, "Bob Smith", nil)
	if info.Empty() {
		t.Fatal("expected a signature to be detected")
	}
	if info.Block != "Bob Smith\nDirector of Engineering\nAustin, TX 78701" {
		t.Errorf("block = %q", info.Block)
	}
	if info.Title != "Director of Engineering" {
		t.Errorf("title = %q, want %q", info.Title, "Director of Engineering")
	}
	if info.Location != "Austin, TX 78701" {
		t.Errorf("location = %q", info.Location)
	}
}

func TestExtractNameLineRejectedAsTitle(t *testing.T) {
	body := strings.Join([]string{
		"Thanks,",
		"Bob Smith, Director of Engineering",
		"Acme Group",
	}, "\n")

	// The only title-vocabulary line also contains the sender's name, so it
	// is treated as a name line and no title is extracted.
	info := Extract(body, "Bob Smith", nil)
	if info.Empty() {
		t.Fatal("expected a signature to be detected")
	}
	if info.Title != "" {
		t.Errorf("expected no title, got %q", info.Title)
	}
}

func TestExtractNameFallbackStart(t *testing.T) {
	body := strings.Join([]string{
		"Quick update: the PoC environment is live.",
		"",
		"Carol Jones",
		"Principal Consultant",
	}, "\n")

	// No delimiter anywhere; the sender-name line starts the block.
	info := Extract(body, "Carol Jones", nil)
	if info.Empty() {
		t.Fatal("expected name-based signature detection")
	}
	if info.Block != "Carol Jones\nPrincipal Consultant" {
		t.Errorf("block = %q", info.Block)
	}
	if info.Title != "Principal Consultant" {
		t.Errorf("title = %q", info.Title)
	}
}

func TestExtractPartialNameMatch(t *testing.T) {
	body := "Summary below.\n\nCarol A. Jones\nSVP, Platform"
	info := Extract(body, "Carol Jones", nil)
	if info.Empty() {
		t.Fatal("first+last token match should locate the signature")
	}
	if info.Title != "SVP, Platform" {
		t.Errorf("title = %q", info.Title)
	}
}

func TestExtractNoSignature(t *testing.T) {
	info := Extract("Just a short note with no closing.", "Bob Smith", nil)
	if !info.Empty() {
		t.Errorf("expected empty result, got %+v", info)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	if info := Extract("", "Bob Smith", nil); !info.Empty() {
		t.Errorf("expected empty result for empty body, got %+v", info)
	}
}

func TestExtractLocationHints(t *testing.T) {
	body := strings.Join([]string{
		"Regards,",
		"Dana White",
		"Office: Munich HQ (Bldg. 4)",
	}, "\n")

	info := Extract(body, "Dana White", []string{"Munich HQ (Bldg. 4)"})
	if info.Location != "Office: Munich HQ (Bldg. 4)" {
		t.Errorf("location = %q", info.Location)
	}
}

func TestExtractGenericLocationPattern(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"city state", "Portland, OR", true},
		{"city state zip", "New York, NY 10001", true},
		{"multi word city", "San Francisco, CA", true},
		{"not a location", "Engineering Department", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "Cheers,\nDana White\n" + tt.line
			info := Extract(body, "Dana White", nil)
			got := info.Location != ""
			if got != tt.want {
				t.Errorf("location match for %q = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractFirstTitleWins(t *testing.T) {
	body := strings.Join([]string{
		"Sincerely,",
		"Dana White",
		"Senior Manager",
		"Director of Operations",
	}, "\n")

	info := Extract(body, "Dana White", nil)
	if info.Title != "Senior Manager" {
		t.Errorf("first matching line should win, got %q", info.Title)
	}
}

func TestExtractOverlongTitleRejected(t *testing.T) {
	long := "Director of " + strings.Repeat("Very ", 25) + "Long Things"
	body := "Thanks,\nDana White\n" + long + "\nManager, Platform"
	info := Extract(body, "Dana White", nil)
	if info.Title != "Manager, Platform" {
		t.Errorf("overlong candidate should be skipped, got %q", info.Title)
	}
}
