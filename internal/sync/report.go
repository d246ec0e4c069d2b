package sync

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shibuido/sync-submodules/internal/ui"
)

const (
	reportFilePermissionsConstant       = 0o644
	reportEncodeFailureTemplateConstant = "encode synchronization report: %w"
	reportWriteFailureTemplateConstant  = "write synchronization report to %s: %w"
	summaryRepositoryHeaderConstant     = "REPOSITORY"
	summaryStageHeaderConstant          = "STAGE"
	summaryOutcomeHeaderConstant        = "OUTCOME"
	summaryReasonHeaderConstant         = "REASON"
	summaryTotalsTemplateConstant       = "%d synced, %d skipped, %d need attention"
)

// ReportStage distinguishes the two passes a repository can appear in.
type ReportStage string

const (
	StageSync      ReportStage = "sync"
	StageReconcile ReportStage = "reconcile"
)

// ReportEntry records the terminal state of one repository in one pass.
type ReportEntry struct {
	RepositoryPath string      `yaml:"repository_path"`
	DisplayName    string      `yaml:"display_name"`
	Stage          ReportStage `yaml:"stage"`
	Outcome        OutcomeKind `yaml:"outcome"`
	Reason         string      `yaml:"reason"`
	Instructions   string      `yaml:"instructions,omitempty"`
	Advisory       bool        `yaml:"advisory,omitempty"`
}

// NewReportEntry flattens a handle and outcome into a report entry.
func NewReportEntry(handle RepositoryHandle, stage ReportStage, outcome SyncOutcome) ReportEntry {
	return ReportEntry{
		RepositoryPath: handle.Path,
		DisplayName:    handle.DisplayName,
		Stage:          stage,
		Outcome:        outcome.Kind,
		Reason:         outcome.Reason,
		Instructions:   outcome.Instructions,
		Advisory:       outcome.Advisory,
	}
}

// RequiresAttention reports whether the entry should fail the overall run.
func (entry ReportEntry) RequiresAttention() bool {
	if entry.Advisory {
		return false
	}
	return entry.Outcome == OutcomeFailed || entry.Outcome == OutcomeNeedsManualIntervention
}

// SyncReport aggregates the outcomes of a full synchronization run.
type SyncReport struct {
	GeneratedAt time.Time     `yaml:"generated_at"`
	RootPath    string        `yaml:"root_path"`
	DryRun      bool          `yaml:"dry_run"`
	Entries     []ReportEntry `yaml:"entries"`
}

// NewSyncReport starts an empty report for the superrepo at rootPath.
func NewSyncReport(rootPath string, dryRun bool) *SyncReport {
	return &SyncReport{
		GeneratedAt: time.Now().UTC(),
		RootPath:    rootPath,
		DryRun:      dryRun,
		Entries:     []ReportEntry{},
	}
}

// Append records one repository outcome.
func (report *SyncReport) Append(entry ReportEntry) {
	report.Entries = append(report.Entries, entry)
}

// HasFailures reports whether any entry should fail the run. Advisory
// entries, such as repositories without an upstream, never do.
func (report *SyncReport) HasFailures() bool {
	for _, entry := range report.Entries {
		if entry.RequiresAttention() {
			return true
		}
	}
	return false
}

// CountByAttention tallies entries into synced, skipped (including
// advisories), and needs-attention buckets.
func (report *SyncReport) CountByAttention() (syncedCount int, skippedCount int, attentionCount int) {
	for _, entry := range report.Entries {
		switch {
		case entry.RequiresAttention():
			attentionCount++
		case entry.Outcome == OutcomeSynced:
			syncedCount++
		default:
			skippedCount++
		}
	}
	return syncedCount, skippedCount, attentionCount
}

// EncodeYAML writes the report as YAML to the provided writer.
func (report *SyncReport) EncodeYAML(output io.Writer) error {
	yamlEncoder := yaml.NewEncoder(output)
	if encodeError := yamlEncoder.Encode(report); encodeError != nil {
		return fmt.Errorf(reportEncodeFailureTemplateConstant, encodeError)
	}
	return yamlEncoder.Close()
}

// WriteFile persists the report as YAML at reportFilePath.
func (report *SyncReport) WriteFile(reportFilePath string) error {
	reportFile, createError := os.OpenFile(reportFilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, reportFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(reportWriteFailureTemplateConstant, reportFilePath, createError)
	}
	defer reportFile.Close()
	if encodeError := report.EncodeYAML(reportFile); encodeError != nil {
		return fmt.Errorf(reportWriteFailureTemplateConstant, reportFilePath, encodeError)
	}
	return nil
}

// WriteSummaryTable renders the per-repository outcomes as an aligned table
// followed by a totals line.
func (report *SyncReport) WriteSummaryTable(output io.Writer, colorEnabled bool) error {
	summaryHeaders := []string{summaryRepositoryHeaderConstant, summaryStageHeaderConstant, summaryOutcomeHeaderConstant, summaryReasonHeaderConstant}
	summaryRows := make([][]string, 0, len(report.Entries))
	for _, entry := range report.Entries {
		summaryRows = append(summaryRows, []string{
			entry.DisplayName,
			string(entry.Stage),
			ui.Colorize(colorEnabled, string(entry.Outcome), summaryOutcomeColor(entry)),
			entry.Reason,
		})
	}
	if tableError := ui.WriteTable(output, colorEnabled, summaryHeaders, summaryRows); tableError != nil {
		return tableError
	}
	syncedCount, skippedCount, attentionCount := report.CountByAttention()
	_, writeError := fmt.Fprintf(output, summaryTotalsTemplateConstant+"\n", syncedCount, skippedCount, attentionCount)
	return writeError
}

func summaryOutcomeColor(entry ReportEntry) string {
	switch {
	case entry.RequiresAttention():
		return ui.ColorFailure
	case entry.Advisory || entry.Outcome == OutcomeSkipped:
		return ui.ColorWarning
	default:
		return ui.ColorHealthy
	}
}
