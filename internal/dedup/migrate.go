package dedup

import (
	"github.com/mikey/engagement-tools/internal/jsonio"
)

// IndexedEmail is the slice of an export index entry the migration needs to
// recompute keys for previously processed message IDs.
type IndexedEmail struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

type legacyCheckpoint struct {
	LastUpdated  *string  `json:"last_updated"`
	ProcessedIDs []string `json:"processed_ids"`
}

// MigrateFromIDCheckpoint converts a legacy checkpoint keyed by opaque
// transport IDs into subject+date form. Each old ID is looked up in the email
// index; IDs missing from the index are dropped, and when several IDs map to
// the same subject+date key only the first occurrence is kept. When store and
// newPath are given, the result is saved before returning.
func MigrateFromIDCheckpoint(oldPath string, emails []IndexedEmail, store Store, newPath string) (*Checkpoint, error) {
	var old legacyCheckpoint
	if !jsonio.LoadOptional(oldPath, &old) {
		return NewCheckpoint(), nil
	}

	byID := make(map[string]IndexedEmail, len(emails))
	for _, e := range emails {
		byID[e.ID] = e
	}

	cp := &Checkpoint{LastUpdated: old.LastUpdated, Processed: []Entry{}}
	seen := make(map[string]struct{})
	for _, id := range old.ProcessedIDs {
		e, ok := byID[id]
		if !ok {
			continue
		}
		key := EmailKey(e.Subject, e.Date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cp.Processed = append(cp.Processed, Entry{
			Key:     key,
			Subject: e.Subject,
			Date:    truncateDate(e.Date),
		})
	}

	if store != nil && newPath != "" {
		if err := store.Save(newPath, cp); err != nil {
			return nil, err
		}
	}
	return cp, nil
}
