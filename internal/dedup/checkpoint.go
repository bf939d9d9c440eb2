package dedup

// Entry is one processed item in a checkpoint. Email entries carry the
// subject and date the key was derived from; document entries carry the
// path, hash, and display filename.
type Entry struct {
	Key          string `json:"key"`
	Subject      string `json:"subject,omitempty"`
	Date         string `json:"date,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
	SHA256       string `json:"sha256,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// Checkpoint is a persisted set of dedup keys with the raw fields each key
// was built from. Append-only within a run; saved wholesale at the end.
type Checkpoint struct {
	LastUpdated *string `json:"last_updated"`
	Processed   []Entry `json:"processed"`
}

// NewCheckpoint returns an empty checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{Processed: []Entry{}}
}

// Keys returns the set of dedup keys currently in the checkpoint. The set is
// recomputed on every call because entries may be appended between calls.
func (c *Checkpoint) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.Processed))
	for _, e := range c.Processed {
		keys[e.Key] = struct{}{}
	}
	return keys
}

// Contains reports whether the given key is already in the checkpoint.
func (c *Checkpoint) Contains(key string) bool {
	_, ok := c.Keys()[key]
	return ok
}

// HasEmail reports whether this subject+date combination was already
// processed.
func (c *Checkpoint) HasEmail(subject, date string) bool {
	return c.Contains(EmailKey(subject, date))
}

// HasDoc reports whether this path+hash combination was already processed.
func (c *Checkpoint) HasDoc(relativePath, sha256 string) bool {
	return c.Contains(DocKey(relativePath, sha256))
}

// AddEmail appends an email entry and returns its key. It does not check for
// duplicates; callers test HasEmail first.
func (c *Checkpoint) AddEmail(subject, date string) string {
	key := EmailKey(subject, date)
	c.Processed = append(c.Processed, Entry{
		Key:     key,
		Subject: subject,
		Date:    truncateDate(date),
	})
	return key
}

// AddDoc appends a document entry and returns its key. It does not check for
// duplicates; callers test HasDoc first.
func (c *Checkpoint) AddDoc(relativePath, sha256, filename string) string {
	key := DocKey(relativePath, sha256)
	c.Processed = append(c.Processed, Entry{
		Key:          key,
		RelativePath: relativePath,
		SHA256:       sha256,
		Filename:     filename,
	})
	return key
}

// Store persists checkpoints. Load returns an empty checkpoint when the
// backing file is missing or unreadable; it never fails for those reasons.
// Save stamps LastUpdated and overwrites the whole checkpoint.
type Store interface {
	Load(path string) (*Checkpoint, error)
	Save(path string, cp *Checkpoint) error
}
