package core

// Recipient is one to/cc entry of an exported email.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EmailMessage is one entry of the export's index.json. The ID is assigned
// by the exporting mail client and is not stable across users: two copies of
// the same email in two mailboxes carry different IDs.
type EmailMessage struct {
	ID           string      `json:"id"`
	Subject      string      `json:"subject"`
	Date         string      `json:"date"`
	FromEmail    string      `json:"from_email"`
	FromName     string      `json:"from_name"`
	ToRecipients []Recipient `json:"to_recipients"`
	CcRecipients []Recipient `json:"cc_recipients"`
	BodyFile     string      `json:"body_file"`
}

// EmailIndex is the export's index.json document.
type EmailIndex struct {
	Emails []EmailMessage `json:"emails"`
}

// NewPerson accumulates evidence for an address that matches a configured
// domain but is not in the org chart. Mutated while the scan runs,
// serialized once per run.
type NewPerson struct {
	Email             string
	Name              string
	Domain            string
	Org               string
	SeenIn            []string
	Roles             map[string]struct{}
	ContextSubjects   []string
	FirstSeen         string
	Correspondents    map[string]struct{}
	ExtractedTitle    string
	ExtractedLocation string
	SignatureBlock    string
	ContractorSignal  bool
}

// KnownSignal accumulates activity for an address already in the org chart.
type KnownSignal struct {
	Email          string
	Name           string
	EmailCount     int
	NewSubjects    []string
	Correspondents map[string]struct{}
}

// NewPersonRecord is the serialized form of a NewPerson.
type NewPersonRecord struct {
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	Domain            string   `json:"domain"`
	Org               string   `json:"org"`
	SeenCount         int      `json:"seen_count"`
	Roles             []string `json:"roles"`
	ContextSubjects   []string `json:"context_subjects"`
	FirstSeen         string   `json:"first_seen"`
	Correspondents    []string `json:"correspondents"`
	ExtractedTitle    string   `json:"extracted_title,omitempty"`
	ExtractedLocation string   `json:"extracted_location,omitempty"`
	SignatureBlock    string   `json:"signature_block,omitempty"`
	ContractorSignal  bool     `json:"contractor_signal"`
}

// KnownSignalRecord is the serialized form of a KnownSignal.
type KnownSignalRecord struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	EmailCount     int      `json:"email_count"`
	NewSubjects    []string `json:"new_subjects"`
	Correspondents []string `json:"correspondents"`
}

// ReportStats summarizes one run.
type ReportStats struct {
	EmailsInExport          int      `json:"emails_in_export"`
	EmailsProcessed         int      `json:"emails_processed"`
	EmailsSkippedCheckpoint int      `json:"emails_skipped_checkpoint"`
	NewPeopleFound          int      `json:"new_people_found"`
	KnownPeopleWithSignals  int      `json:"known_people_with_signals"`
	IgnoredEmails           int      `json:"ignored_emails"`
	DomainsScanned          []string `json:"domains_scanned"`
}

// Report is the people report written next to the email export.
type Report struct {
	Generated          string              `json:"generated"`
	EmailExport        string              `json:"email_export"`
	Stats              ReportStats         `json:"stats"`
	NewPeople          []NewPersonRecord   `json:"new_people"`
	KnownPeopleSignals []KnownSignalRecord `json:"known_people_signals"`
}

// IDCheckpoint is the message-ID checkpoint the processor reads and writes.
// The subject+date scheme in internal/dedup replaces this format for
// cross-user deduplication; MigrateFromIDCheckpoint converts between them.
type IDCheckpoint struct {
	LastUpdated    string   `json:"last_updated"`
	ProcessedIDs   []string `json:"processed_ids"`
	TotalProcessed int      `json:"total_processed"`
}

// Output list caps. Accumulation during a run is unbounded; only the
// serialized records are truncated.
const (
	maxContextSubjects = 10
	maxCorrespondents  = 20
)

// Participant roles on a message.
const (
	RoleSender = "sender"
	RoleTo     = "to"
	RoleCc     = "cc"
)
