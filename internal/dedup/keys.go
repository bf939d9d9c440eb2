package dedup

import (
	"regexp"
	"strings"
)

var (
	replyPrefix = regexp.MustCompile(`(?i)^(?:re|fw|fwd)\s*:\s*`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// NormalizeSubject strips any number of leading RE:/FW:/FWD: markers,
// lowercases, and collapses whitespace runs to single spaces. The result is
// stable across reply chains: "RE: FW: RE: Hello  World" and "Hello World"
// normalize identically.
func NormalizeSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		loc := replyPrefix.FindStringIndex(s)
		if loc == nil {
			break
		}
		s = s[loc[1]:]
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.ToLower(s), " "))
}

// EmailKey builds the dedup key for an email from its subject and ISO-8601
// date string. Only the calendar-date portion of the date participates, so
// two copies of the same thread delivered at different times on the same day
// share a key. Transport message IDs differ between mailboxes and are
// deliberately not part of the key.
func EmailKey(subject, date string) string {
	return NormalizeSubject(subject) + "|" + truncateDate(date)
}

// DocKey builds the dedup key for a document from its repo-relative path and
// content hash. Independent of the email scheme.
func DocKey(relativePath, sha256 string) string {
	return relativePath + "|" + sha256
}

func truncateDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
