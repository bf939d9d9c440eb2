package signature

import (
	"regexp"
	"strings"
)

// Scan windows, counted backward from the last line of the body.
const (
	delimiterWindow = 40
	nameWindow      = 15
	maxBlockLines   = 10
	maxTitleLength  = 100
)

var delimiters = regexp.MustCompile(
	`(?i)^(?:--|__|===|---+|___+|Best\s+regards|Kind\s+regards|Regards|` +
		`Thanks|Thank\s+you|Cheers|Sincerely|Warm\s+regards|BR,|Best,)`,
)

var titleVocabulary = regexp.MustCompile(
	`(?i)(?:Chief|President|Vice\s+President|VP|SVP|EVP|` +
		`Senior\s+Director|Director|Sr\.?\s+Director|` +
		`Senior\s+Manager|Manager|Sr\.?\s+Manager|` +
		`Head\s+of|Lead|Principal|Staff|Architect|` +
		`Fellow|Distinguished|Engineer|Consultant|` +
		`Partner|Advisor|Analyst|Associate|Specialist|` +
		`Administrator|Coordinator|CTO|CIO|CFO|CEO|COO|CMO)`,
)

var genericLocation = regexp.MustCompile(
	`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*,\s*[A-Z]{2}(?:\s+\d{5})?`,
)

// Info is what Extract pulls out of a signature block. All fields may be
// empty; finding nothing is not an error.
type Info struct {
	Block    string
	Title    string
	Location string
}

// Empty reports whether no signature was detected.
func (i Info) Empty() bool {
	return i.Block == ""
}

// Extract scans the trailing lines of an email body for a signature block
// and pulls out a job title and location.
//
// The block start is the last line within the delimiter window matching a
// signature delimiter (horizontal-rule markers or closing phrases). When no
// delimiter is found, a shorter window is searched for a line containing the
// sender's display name. Delimiter-based detection always takes priority.
// Within the collected block the first acceptable line wins for both title
// and location; there is no scoring.
func Extract(body, senderName string, locationHints []string) Info {
	if strings.TrimSpace(body) == "" {
		return Info{}
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")

	sigStart := -1
	for i := len(lines) - 1; i >= max(len(lines)-delimiterWindow, 0); i-- {
		if delimiters.MatchString(strings.TrimSpace(lines[i])) {
			sigStart = i
			break
		}
	}

	if sigStart < 0 && senderName != "" {
		for i := len(lines) - 1; i >= max(len(lines)-nameWindow, 0); i-- {
			if nameMatch(strings.TrimSpace(lines[i]), senderName) {
				sigStart = i
				break
			}
		}
	}

	if sigStart < 0 {
		return Info{}
	}

	var sigLines []string
	for i := sigStart; i < min(sigStart+maxBlockLines, len(lines)); i++ {
		line := strings.TrimSpace(lines[i])
		if line != "" && !delimiters.MatchString(line) {
			sigLines = append(sigLines, line)
		}
	}
	if len(sigLines) == 0 {
		return Info{}
	}

	info := Info{Block: strings.Join(sigLines, "\n")}

	for _, line := range sigLines {
		if !titleVocabulary.MatchString(line) {
			continue
		}
		candidate := strings.TrimSpace(strings.TrimRight(line, ","))
		// A line carrying the sender's own name is a name line, not a title.
		if nameMatch(candidate, senderName) {
			continue
		}
		if len(candidate) > maxTitleLength {
			continue
		}
		info.Title = candidate
		break
	}

	location := locationPattern(locationHints)
	for _, line := range sigLines {
		if location.MatchString(line) {
			info.Location = line
			break
		}
	}

	return info
}

func locationPattern(hints []string) *regexp.Regexp {
	if len(hints) == 0 {
		return genericLocation
	}
	escaped := make([]string, len(hints))
	for i, h := range hints {
		escaped[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(escaped, "|"))
}

// nameMatch reports whether text contains the person's name, either as a
// full substring or with both the first and last name tokens present.
func nameMatch(text, name string) bool {
	if name == "" || text == "" {
		return false
	}
	t := strings.ToLower(text)
	n := strings.ToLower(name)
	if strings.Contains(t, n) {
		return true
	}
	parts := strings.Fields(n)
	if len(parts) >= 2 && strings.Contains(t, parts[0]) && strings.Contains(t, parts[len(parts)-1]) {
		return true
	}
	return false
}
