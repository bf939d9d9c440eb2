package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/jsonio"
	"github.com/mikey/engagement-tools/internal/orgchart"
	"github.com/mikey/engagement-tools/internal/signature"
)

// ScanOptions carries everything one scan needs. The DI layer assembles it
// from discovered _company configs and command-line overrides.
type ScanOptions struct {
	EmailDir           string
	Domains            []string
	DomainLabels       map[string]string
	OrgChartPath       string
	CheckpointPath     string
	IgnoreListPath     string
	SkipSenders        []string
	ContractorPatterns []string
	LocationHints      []string
	Reprocess          bool
	OutputPath         string
}

// PeopleService scans an email export for people signals: new people from
// domains of interest not yet in the org chart, and fresh activity for
// people already known.
type PeopleService struct {
	logger *zap.Logger
	opts   ScanOptions
}

// NewPeopleService creates a new people-signal processor.
func NewPeopleService(logger *zap.Logger, opts ScanOptions) *PeopleService {
	return &PeopleService{logger: logger, opts: opts}
}

type participant struct {
	email  string
	name   string
	role   string
	domain string
	org    string
}

// Run processes the configured email export to completion and returns the
// report along with the path it was written to.
//
// Fatal conditions (no report or checkpoint written): no domains configured,
// index missing or unparseable, org chart missing or unparseable, invalid
// contractor pattern. Malformed ignore-list and checkpoint files degrade to
// empty; a body file referenced by the index but absent on disk is skipped.
func (s *PeopleService) Run(ctx context.Context) (*Report, string, error) {
	if len(s.opts.Domains) == 0 {
		return nil, "", errors.New("no domains configured")
	}

	contractorPatterns, err := compilePatterns(s.opts.ContractorPatterns)
	if err != nil {
		return nil, "", err
	}

	indexPath := filepath.Join(s.opts.EmailDir, "index.json")
	var index EmailIndex
	if err := jsonio.Load(indexPath, &index); err != nil {
		return nil, "", fmt.Errorf("email index unavailable: %w", err)
	}

	if s.opts.OrgChartPath == "" {
		return nil, "", errors.New("no org chart path configured")
	}
	var chart orgchart.Chart
	if err := jsonio.Load(s.opts.OrgChartPath, &chart); err != nil {
		return nil, "", fmt.Errorf("org chart unavailable: %w", err)
	}
	knownPeople := orgchart.BuildKnownPeople(&chart)

	ignored, ignoreFileCount := s.loadIgnoreList()
	processedIDs := s.loadProcessedIDs()

	newPeople := make(map[string]*NewPerson)
	knownSignals := make(map[string]*KnownSignal)

	processed := 0
	skipped := 0

	for _, msg := range index.Emails {
		if _, done := processedIDs[msg.ID]; done {
			skipped++
			continue
		}

		relevant := s.relevantParticipants(&msg)

		addrsOnMessage := make(map[string]struct{}, len(relevant))
		for _, p := range relevant {
			addrsOnMessage[p.email] = struct{}{}
		}

		for _, p := range relevant {
			if ignored.contains(p.email) {
				continue
			}
			if known, ok := knownPeople[p.email]; ok {
				s.recordKnownSignal(knownSignals, p, known, &msg, addrsOnMessage)
			} else {
				s.recordNewPerson(newPeople, p, &msg, addrsOnMessage)
			}
		}

		// Irrelevant messages advance the checkpoint too, so they are
		// never rescanned.
		processedIDs[msg.ID] = struct{}{}
		processed++
	}

	s.extractSignatures(index.Emails, newPeople)
	flagContractors(newPeople, contractorPatterns)

	report := s.buildReport(&index, newPeople, knownSignals, ignoreFileCount, processed, skipped)

	outputPath := s.opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(s.opts.EmailDir, "people_report.json")
	}
	if err := jsonio.Save(outputPath, report); err != nil {
		return nil, "", err
	}

	if s.opts.CheckpointPath != "" {
		if err := s.saveProcessedIDs(processedIDs); err != nil {
			return nil, "", err
		}
	}

	s.logger.Info("Scan complete",
		zap.Int("emails_processed", processed),
		zap.Int("emails_skipped", skipped),
		zap.Int("new_people", len(newPeople)),
		zap.Int("known_signals", len(knownSignals)))

	return report, outputPath, nil
}

// relevantParticipants lists the sender and recipients of a message whose
// domain matches the configured list, with domain and org label attached.
func (s *PeopleService) relevantParticipants(msg *EmailMessage) []participant {
	all := make([]participant, 0, 1+len(msg.ToRecipients)+len(msg.CcRecipients))
	if addr := normalizeAddr(msg.FromEmail); addr != "" {
		all = append(all, participant{email: addr, name: msg.FromName, role: RoleSender})
	}
	for _, r := range msg.ToRecipients {
		if addr := normalizeAddr(r.Email); addr != "" {
			all = append(all, participant{email: addr, name: r.Name, role: RoleTo})
		}
	}
	for _, r := range msg.CcRecipients {
		if addr := normalizeAddr(r.Email); addr != "" {
			all = append(all, participant{email: addr, name: r.Name, role: RoleCc})
		}
	}

	relevant := all[:0]
	for _, p := range all {
		domain, org, ok := orgchart.ClassifyDomain(p.email, s.opts.Domains, s.opts.DomainLabels)
		if !ok {
			continue
		}
		p.domain = domain
		p.org = org
		relevant = append(relevant, p)
	}
	return relevant
}

func (s *PeopleService) recordKnownSignal(
	signals map[string]*KnownSignal,
	p participant,
	known orgchart.Known,
	msg *EmailMessage,
	addrsOnMessage map[string]struct{},
) {
	sig := upsertKnownSignal(signals, p.email)
	sig.Name = known.Name
	sig.EmailCount++
	if msg.Subject != "" && !containsString(sig.NewSubjects, msg.Subject) {
		sig.NewSubjects = append(sig.NewSubjects, msg.Subject)
	}
	unionOthers(sig.Correspondents, addrsOnMessage, p.email)
}

func (s *PeopleService) recordNewPerson(
	people map[string]*NewPerson,
	p participant,
	msg *EmailMessage,
	addrsOnMessage map[string]struct{},
) {
	entry := upsertNewPerson(people, p.email)
	if entry.Name == "" {
		entry.Name = p.name
	}
	entry.Domain = p.domain
	entry.Org = p.org
	if !containsString(entry.SeenIn, msg.ID) {
		entry.SeenIn = append(entry.SeenIn, msg.ID)
	}
	entry.Roles[p.role] = struct{}{}
	if msg.Subject != "" && !containsString(entry.ContextSubjects, msg.Subject) {
		entry.ContextSubjects = append(entry.ContextSubjects, msg.Subject)
	}
	if entry.FirstSeen == "" || (msg.Date != "" && msg.Date < entry.FirstSeen) {
		entry.FirstSeen = msg.Date
	}
	unionOthers(entry.Correspondents, addrsOnMessage, p.email)
}

// extractSignatures runs the signature extractor once per new-person sender
// address: the first message whose body yields a signature wins. Bodies
// referenced by the index but missing on disk are skipped.
func (s *PeopleService) extractSignatures(emails []EmailMessage, newPeople map[string]*NewPerson) {
	done := make(map[string]struct{}, len(newPeople))
	for _, msg := range emails {
		addr := normalizeAddr(msg.FromEmail)
		entry, isNew := newPeople[addr]
		if !isNew || msg.BodyFile == "" {
			continue
		}
		if _, extracted := done[addr]; extracted {
			continue
		}
		body, err := os.ReadFile(filepath.Join(s.opts.EmailDir, msg.BodyFile))
		if err != nil {
			continue
		}
		info := signature.Extract(string(body), msg.FromName, s.opts.LocationHints)
		if info.Empty() {
			continue
		}
		done[addr] = struct{}{}
		entry.SignatureBlock = info.Block
		entry.ExtractedTitle = info.Title
		entry.ExtractedLocation = info.Location
		s.logger.Debug("Extracted signature",
			zap.String("sender", addr),
			zap.String("title", info.Title))
	}
}

func flagContractors(newPeople map[string]*NewPerson, patterns []*regexp.Regexp) {
	for addr, entry := range newPeople {
		localPart := addr
		if at := strings.Index(addr, "@"); at >= 0 {
			localPart = addr[:at]
		}
		for _, p := range patterns {
			if p.MatchString(localPart) {
				entry.ContractorSignal = true
				break
			}
		}
	}
}

func (s *PeopleService) buildReport(
	index *EmailIndex,
	newPeople map[string]*NewPerson,
	knownSignals map[string]*KnownSignal,
	ignoredCount, processed, skipped int,
) *Report {
	newRecords := make([]NewPersonRecord, 0, len(newPeople))
	for _, entry := range newPeople {
		newRecords = append(newRecords, NewPersonRecord{
			Email:             entry.Email,
			Name:              entry.Name,
			Domain:            entry.Domain,
			Org:               entry.Org,
			SeenCount:         len(entry.SeenIn),
			Roles:             sortedKeys(entry.Roles),
			ContextSubjects:   capStrings(entry.ContextSubjects, maxContextSubjects),
			FirstSeen:         entry.FirstSeen,
			Correspondents:    capStrings(sortedKeys(entry.Correspondents), maxCorrespondents),
			ExtractedTitle:    entry.ExtractedTitle,
			ExtractedLocation: entry.ExtractedLocation,
			SignatureBlock:    entry.SignatureBlock,
			ContractorSignal:  entry.ContractorSignal,
		})
	}
	sort.Slice(newRecords, func(i, j int) bool {
		if newRecords[i].Org != newRecords[j].Org {
			return newRecords[i].Org < newRecords[j].Org
		}
		return newRecords[i].Email < newRecords[j].Email
	})

	knownRecords := make([]KnownSignalRecord, 0, len(knownSignals))
	for _, sig := range knownSignals {
		knownRecords = append(knownRecords, KnownSignalRecord{
			Email:          sig.Email,
			Name:           sig.Name,
			EmailCount:     sig.EmailCount,
			NewSubjects:    capStrings(sig.NewSubjects, maxContextSubjects),
			Correspondents: capStrings(sortedKeys(sig.Correspondents), maxCorrespondents),
		})
	}
	sort.Slice(knownRecords, func(i, j int) bool {
		if knownRecords[i].EmailCount != knownRecords[j].EmailCount {
			return knownRecords[i].EmailCount > knownRecords[j].EmailCount
		}
		return knownRecords[i].Email < knownRecords[j].Email
	})

	return &Report{
		Generated:   time.Now().Format("2006-01-02T15:04:05"),
		EmailExport: s.opts.EmailDir,
		Stats: ReportStats{
			EmailsInExport:          len(index.Emails),
			EmailsProcessed:         processed,
			EmailsSkippedCheckpoint: skipped,
			NewPeopleFound:          len(newRecords),
			KnownPeopleWithSignals:  len(knownRecords),
			IgnoredEmails:           ignoredCount,
			DomainsScanned:          s.opts.Domains,
		},
		NewPeople:          newRecords,
		KnownPeopleSignals: knownRecords,
	}
}

// exclusionSet holds excluded addresses. Entries ending in "@" (such as
// "mailer-daemon@") match any address with that local-part prefix; all other
// entries match exactly.
type exclusionSet struct {
	exact    map[string]struct{}
	prefixes []string
}

func newExclusionSet() *exclusionSet {
	return &exclusionSet{exact: make(map[string]struct{})}
}

func (e *exclusionSet) add(entry string) {
	entry = strings.ToLower(entry)
	if strings.HasSuffix(entry, "@") {
		e.prefixes = append(e.prefixes, entry)
		return
	}
	e.exact[entry] = struct{}{}
}

func (e *exclusionSet) contains(addr string) bool {
	if _, ok := e.exact[addr]; ok {
		return true
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(addr, p) {
			return true
		}
	}
	return false
}

// loadIgnoreList unions the engagement's ignore file with the resolved
// skip-senders list. The reported ignored-address count covers only the
// ignore file, not the skip-senders baseline.
func (s *PeopleService) loadIgnoreList() (*exclusionSet, int) {
	var doc struct {
		Ignored []string `json:"ignored"`
	}
	ignored := newExclusionSet()
	fileCount := 0
	if jsonio.LoadOptional(s.opts.IgnoreListPath, &doc) {
		for _, e := range doc.Ignored {
			ignored.add(e)
		}
		fileCount = len(doc.Ignored)
	}
	for _, e := range s.opts.SkipSenders {
		ignored.add(e)
	}
	return ignored, fileCount
}

func (s *PeopleService) loadProcessedIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if s.opts.Reprocess {
		return ids
	}
	var cp IDCheckpoint
	if jsonio.LoadOptional(s.opts.CheckpointPath, &cp) {
		for _, id := range cp.ProcessedIDs {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func (s *PeopleService) saveProcessedIDs(ids map[string]struct{}) error {
	cp := IDCheckpoint{
		LastUpdated:    time.Now().Format("2006-01-02T15:04:05"),
		ProcessedIDs:   sortedKeys(ids),
		TotalProcessed: len(ids),
	}
	if err := jsonio.Save(s.opts.CheckpointPath, &cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// upsertNewPerson returns the accumulator record for addr, creating the
// canonical empty record on first sight.
func upsertNewPerson(people map[string]*NewPerson, addr string) *NewPerson {
	if entry, ok := people[addr]; ok {
		return entry
	}
	entry := &NewPerson{
		Email:          addr,
		Roles:          make(map[string]struct{}),
		Correspondents: make(map[string]struct{}),
	}
	people[addr] = entry
	return entry
}

// upsertKnownSignal returns the accumulator record for addr, creating the
// canonical empty record on first sight.
func upsertKnownSignal(signals map[string]*KnownSignal, addr string) *KnownSignal {
	if sig, ok := signals[addr]; ok {
		return sig
	}
	sig := &KnownSignal{
		Email:          addr,
		Correspondents: make(map[string]struct{}),
	}
	signals[addr] = sig
	return sig
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid contractor pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func normalizeAddr(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func unionOthers(dst map[string]struct{}, src map[string]struct{}, self string) {
	for addr := range src {
		if addr != self {
			dst[addr] = struct{}{}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func capStrings(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
