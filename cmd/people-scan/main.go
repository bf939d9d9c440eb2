package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/core"
	"github.com/mikey/engagement-tools/internal/dedup"
	"github.com/mikey/engagement-tools/internal/di"
	"github.com/mikey/engagement-tools/internal/jsonio"
)

func main() {
	flags := di.ParseScanFlags()
	if flags.EmailDir == "" {
		fmt.Fprintln(os.Stderr, "usage: people-scan [flags] <email_dir>")
		os.Exit(2)
	}

	container, err := di.BuildScanContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "people-scan: failed to build container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "people-scan: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.ScanFlags, logger *zap.Logger, opts core.ScanOptions, store dedup.Store, svc *core.PeopleService) error {
	defer logger.Sync()

	if flags.MigrateCheckpoint != "" {
		return migrateCheckpoint(flags.MigrateCheckpoint, opts, store, logger)
	}

	report, path, err := svc.Run(context.Background())
	if err != nil {
		return err
	}

	printSummary(report)
	fmt.Printf("\nReport written to %s\n", path)
	return nil
}

// migrateCheckpoint converts the legacy processed-ids checkpoint into a
// subject+date checkpoint at the given path. Ids absent from the index are
// dropped; duplicate keys keep their first occurrence.
func migrateCheckpoint(newPath string, opts core.ScanOptions, store dedup.Store, logger *zap.Logger) error {
	var index core.EmailIndex
	if err := jsonio.Load(filepath.Join(opts.EmailDir, "index.json"), &index); err != nil {
		return fmt.Errorf("email index unavailable: %w", err)
	}

	emails := make([]dedup.IndexedEmail, 0, len(index.Emails))
	for _, msg := range index.Emails {
		emails = append(emails, dedup.IndexedEmail{ID: msg.ID, Subject: msg.Subject, Date: msg.Date})
	}

	cp, err := dedup.MigrateFromIDCheckpoint(opts.CheckpointPath, emails, store, newPath)
	if err != nil {
		return err
	}

	logger.Info("Checkpoint migrated",
		zap.String("from", opts.CheckpointPath),
		zap.String("to", newPath),
		zap.Int("entries", len(cp.Processed)))
	fmt.Printf("Migrated %d entries to %s\n", len(cp.Processed), newPath)
	return nil
}

func printSummary(report *core.Report) {
	header := color.New(color.FgCyan, color.Bold)
	section := color.New(color.FgCyan)
	contractor := color.New(color.FgYellow).Sprint(" [CONTRACTOR?]")

	stats := report.Stats
	header.Println("\n=== People Processor Report ===")
	fmt.Printf("  Emails processed: %d\n", stats.EmailsProcessed)
	fmt.Printf("  Skipped (checkpoint): %d\n", stats.EmailsSkippedCheckpoint)
	fmt.Printf("  New people found: %d\n", stats.NewPeopleFound)
	fmt.Printf("  Known people w/signals: %d\n", stats.KnownPeopleWithSignals)
	fmt.Printf("  Ignored addresses: %d\n", stats.IgnoredEmails)
	fmt.Printf("  Domains: %s\n", strings.Join(stats.DomainsScanned, ", "))

	if len(report.NewPeople) > 0 {
		section.Println("\n--- New People ---")
		for _, p := range report.NewPeople {
			line := fmt.Sprintf("  %s <%s> (%s)", p.Name, p.Email, p.Org)
			if p.ExtractedTitle != "" {
				line += " - " + p.ExtractedTitle
			}
			if p.ContractorSignal {
				line += contractor
			}
			fmt.Println(line)
			fmt.Printf("    Seen in %d emails, roles: %s\n", p.SeenCount, strings.Join(p.Roles, ", "))
			if len(p.ContextSubjects) > 0 {
				fmt.Printf("    Subjects: %s\n", p.ContextSubjects[0])
			}
		}
	}

	if len(report.KnownPeopleSignals) > 0 {
		section.Println("\n--- Known People Activity ---")
		signals := report.KnownPeopleSignals
		if len(signals) > 10 {
			signals = signals[:10]
		}
		for _, p := range signals {
			fmt.Printf("  %s: %d emails\n", p.Name, p.EmailCount)
		}
	}
}
