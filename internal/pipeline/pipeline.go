// Package pipeline runs the full preparation sequence: scan the cohort
// roots, parse the label source, reconcile the two sets, copy the resolved
// segmentations into the output layout, and emit the per-group label files.
// Everything is strictly sequential; the reconciler needs complete scanner
// and parser output before it can intersect them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"brainprep/internal/config"
	"brainprep/internal/emit"
	"brainprep/internal/labels"
	"brainprep/internal/logging"
	"brainprep/internal/manifest"
	"brainprep/internal/reconcile"
	"brainprep/internal/scan"
	"brainprep/internal/segcopy"
	"brainprep/internal/subject"
)

// lockFileName guards the output root against interleaved runs.
const lockFileName = ".brainprep.lock"

// Options configures one Run.
type Options struct {
	Config *config.Config
	// LabelSource overrides the configured labels.source path.
	LabelSource string
	Logger      *slog.Logger
	// Store receives run records; nil disables the manifest.
	Store *manifest.Store
}

// GroupSummary is one group's resolved count.
type GroupSummary struct {
	Group    string
	Subjects int
}

// SubjectError is one non-fatal per-subject copy failure.
type SubjectError struct {
	Subject string
	Reason  string
}

// Summary is the observable result of a run. It is always populated as far
// as the run got, even when Run also returns an error.
type Summary struct {
	RunID       string
	OutputRoot  string
	Groups      []GroupSummary
	Resolved    int
	SkippedRows int
	Overwrites  int
	LabelOnly   []string
	DiskOnly    []string
	CopyErrors  []SubjectError
}

// Run executes the pipeline. Configuration errors and an empty result
// return a marked error; per-row and per-subject problems accumulate in the
// summary instead.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	paths, err := cfg.DataPaths()
	if err != nil {
		return nil, Wrap(ErrConfiguration, "prepare", "resolve data paths", "", err)
	}
	summary := &Summary{OutputRoot: paths.OutputRoot}

	source := opts.LabelSource
	if source == "" {
		source = cfg.Labels.Source
	}
	if source == "" {
		return nil, Wrap(ErrConfiguration, "prepare", "resolve label source",
			"no label source configured; pass --csv or set labels.source", nil)
	}

	parserOpts, err := LabelOptions(cfg)
	if err != nil {
		return nil, err
	}
	parserOpts.Logger = logger

	records, diags, err := parseLabelFile(source, parserOpts)
	if err != nil {
		return nil, err
	}
	summary.SkippedRows = diags.Skipped()
	summary.Overwrites = diags.Overwrites
	logger.Info("parsed label source",
		logging.String(logging.FieldStage, "labels"),
		logging.Int("records", len(records)),
		logging.Int("skipped_rows", diags.Skipped()),
	)

	dirs, err := scan.Scan(logger, paths.PatientsRoot, paths.ControlsRoot)
	if err != nil {
		return nil, Wrap(nil, "scan", "list subject directories", "", err)
	}
	logger.Info("scanned cohort roots",
		logging.String(logging.FieldStage, "scan"),
		logging.Int("directories", len(dirs)),
	)

	partition, recDiags := reconcile.Reconcile(records, dirs, logger)
	summary.LabelOnly = recDiags.LabelOnly
	summary.DiskOnly = recDiags.DiskOnly

	if err := os.MkdirAll(paths.OutputRoot, 0o755); err != nil {
		return summary, fmt.Errorf("create output root: %w", err)
	}
	lock := flock.New(filepath.Join(paths.OutputRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return summary, Wrap(ErrLocked, "prepare", "acquire output lock", paths.OutputRoot, nil)
	}
	defer func() { _ = lock.Unlock() }()

	if opts.Store != nil {
		summary.RunID, err = opts.Store.BeginRun(ctx, cfg.Paths.DataRoot, cfg.Output.Release)
		if err != nil {
			return summary, fmt.Errorf("begin manifest run: %w", err)
		}
		recordUnmatched(ctx, opts.Store, summary.RunID, recDiags, logger)
	}

	copySubjects(ctx, &partition, cfg.Output.Release, paths.OutputRoot, summary, opts.Store, logger)

	if err := emit.WriteLabels(partition, paths.OutputRoot, logger); err != nil {
		return summary, fmt.Errorf("emit labels: %w", err)
	}

	for _, group := range partition.Groups() {
		summary.Groups = append(summary.Groups, GroupSummary{
			Group:    group,
			Subjects: len(partition.Subjects(group)),
		})
	}
	summary.Resolved = partition.Total()

	if opts.Store != nil {
		err := opts.Store.FinishRun(ctx, summary.RunID, manifest.Counts{
			Resolved:    summary.Resolved,
			LabelOnly:   len(summary.LabelOnly),
			DiskOnly:    len(summary.DiskOnly),
			SkippedRows: summary.SkippedRows,
			CopyErrors:  len(summary.CopyErrors),
		})
		if err != nil {
			return summary, fmt.Errorf("finish manifest run: %w", err)
		}
	}

	if summary.Resolved == 0 {
		return summary, Wrap(ErrNoData, "prepare", "reconcile",
			"no subject is present in both the label source and on disk", nil)
	}
	return summary, nil
}

func parseLabelFile(path string, opts labels.Options) (map[string]labels.Record, labels.Diagnostics, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, labels.Diagnostics{}, Wrap(ErrConfiguration, "labels", "open source", "", err)
	}
	defer file.Close()

	records, diags, err := labels.Parse(file, opts)
	switch {
	case err == nil:
		return records, diags, nil
	case errors.Is(err, labels.ErrAmbiguousColumnSpec), errors.Is(err, labels.ErrColumnNotFound):
		return nil, diags, Wrap(ErrConfiguration, "labels", "resolve columns", "", err)
	case errors.Is(err, labels.ErrEmptySource), errors.Is(err, labels.ErrNoUsableRecords):
		return nil, diags, Wrap(ErrNoData, "labels", "parse source", "", err)
	default:
		return nil, diags, Wrap(nil, "labels", "parse source", "", err)
	}
}

// copySubjects copies every resolved subject's segmentations. A failed
// subject is logged, recorded, and dropped from the partition so the label
// files cannot mention a subject without copied images.
func copySubjects(
	ctx context.Context,
	partition *reconcile.Partition,
	release, outputRoot string,
	summary *Summary,
	store *manifest.Store,
	logger *slog.Logger,
) {
	var failed []reconcile.Subject
	for _, group := range partition.Groups() {
		for _, subj := range partition.Subjects(group) {
			result, err := segcopy.Copy(subj.ID, subj.Dir, outputRoot, release)
			outcome := manifest.SubjectOutcome{
				RunID:   summary.RunID,
				Subject: subj.ID.String(),
				Group:   subj.ID.Group,
				Outcome: manifest.OutcomeCopied,
			}
			if err != nil {
				failed = append(failed, subj)
				summary.CopyErrors = append(summary.CopyErrors, SubjectError{
					Subject: subj.ID.String(),
					Reason:  err.Error(),
				})
				outcome.Outcome = manifest.OutcomeMissingFiles
				outcome.Detail = err.Error()
				logger.Warn("subject excluded, imaging files unavailable",
					logging.Subject(subj.ID.String()),
					logging.Error(err),
				)
			} else {
				logger.Info("copied segmentations",
					logging.Subject(subj.ID.String()),
					logging.String("gray", result.Gray),
					logging.String("white", result.White),
				)
			}
			if store != nil {
				if recordErr := store.RecordSubject(ctx, outcome); recordErr != nil {
					logger.Warn("manifest write failed", logging.Error(recordErr))
				}
			}
		}
	}
	for _, subj := range failed {
		partition.Drop(subj.ID)
	}
}

func recordUnmatched(ctx context.Context, store *manifest.Store, runID string, diags reconcile.Diagnostics, logger *slog.Logger) {
	record := func(id string, kind manifest.Outcome) {
		group := ""
		if parsed, err := subject.Parse(id); err == nil {
			group = parsed.Group
		}
		err := store.RecordSubject(ctx, manifest.SubjectOutcome{
			RunID:   runID,
			Subject: id,
			Group:   group,
			Outcome: kind,
		})
		if err != nil {
			logger.Warn("manifest write failed", logging.Error(err))
		}
	}
	for _, id := range diags.LabelOnly {
		record(id, manifest.OutcomeLabelOnly)
	}
	for _, id := range diags.DiskOnly {
		record(id, manifest.OutcomeDiskOnly)
	}
}
