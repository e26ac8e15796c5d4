// Package importer implements the bulk bug-import pipeline: spreadsheet
// rows are mapped to bug records, sequence numbers are claimed from the
// store, and the batch is committed in two phases (bugs, then attachments).
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bugdash/bugdash/internal/debug"
	"github.com/bugdash/bugdash/internal/spreadsheet"
	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/telemetry"
	"github.com/bugdash/bugdash/internal/types"
)

// Stage identifies where in the pipeline an import failed.
type Stage string

// Pipeline stages, in execution order
const (
	StageParse       Stage = "parse"
	StageProject     Stage = "project"
	StageAllocate    Stage = "allocate"
	StageBugs        Stage = "bugs"
	StageAttachments Stage = "attachments"
)

// Options contains import configuration
type Options struct {
	Reporter    string // actor recorded on imported bugs
	MaxAttempts int    // sequence-conflict retries (default 3)
}

// Result contains the outcome of one import invocation.
//
// An attachment-phase failure is a partial success: the bugs are committed
// and stay committed (no rollback), so the result carries their identifiers
// for the re-attach path.
type Result struct {
	Created     int      // bugs committed
	Attachments int      // attachment links committed
	BaseNumber  int      // first sequence number assigned to the batch
	BugIDs      []string // persistent IDs of committed bugs, in file order
	DisplayIDs  []string // composite display IDs of committed bugs, in file order
	FailedStage Stage    // empty on full success
	Err         error    // the failure, wrapped with stage context
}

// Failed reports whether nothing was committed.
func (r *Result) Failed() bool {
	return r.Err != nil && r.Created == 0
}

// Partial reports whether bugs committed but a dependent phase failed.
func (r *Result) Partial() bool {
	return r.Err != nil && r.Created > 0
}

func (r *Result) fail(stage Stage, err error) *Result {
	r.FailedStage = stage
	r.Err = err
	return r
}

// Importer runs the pipeline against an injected store.
type Importer struct {
	store storage.Storage
	opts  Options
}

// New creates an importer. The store is passed explicitly so tests can
// substitute a fake without global state.
func New(store storage.Storage, opts Options) *Importer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	return &Importer{store: store, opts: opts}
}

// ImportFile parses the file and runs the full pipeline against the named
// project. All failures are converted into the returned Result; no error
// escapes unstructured.
func (imp *Importer) ImportFile(ctx context.Context, projectName, path string) *Result {
	result := &Result{}

	sheet, err := spreadsheet.ParseFile(path)
	if err != nil {
		return result.fail(StageParse, err)
	}

	project, err := imp.store.GetProjectByName(ctx, projectName)
	if err != nil {
		return result.fail(StageProject, fmt.Errorf("failed to resolve project %q: %w", projectName, err))
	}

	return imp.ImportSheet(ctx, project, sheet)
}

// ImportSheet maps the parsed rows and commits them. Rows are processed in
// file order; sequence numbers are assigned positionally from the claimed
// base.
func (imp *Importer) ImportSheet(ctx context.Context, project *types.Project, sheet *spreadsheet.Sheet) *Result {
	result := &Result{}
	start := time.Now()

	// Map every row up front. Mapping is pure and total: a row never
	// fails, it falls back to defaults.
	bugs := make([]*types.Bug, len(sheet.Rows))
	urls := make([]string, len(sheet.Rows))
	for i, row := range sheet.Rows {
		bugs[i] = MapRow(row, project.ID, imp.opts.Reporter)
		urls[i] = AttachmentURL(row)
	}
	debug.Logf("import: mapped %d rows for project %s\n", len(bugs), project.Code)

	// Claim numbers and insert, retrying the whole claim+insert on a
	// sequence race. The store's uniqueness constraint turns the race into
	// ErrSequenceConflict instead of silent reuse.
	var bugIDs []string
	claimFailed := false
	op := func() error {
		claimFailed = false
		base, err := imp.store.ClaimBugNumbers(ctx, project.ID, len(bugs))
		if err != nil {
			claimFailed = true
			return backoff.Permanent(fmt.Errorf("failed to allocate bug numbers: %w", err))
		}
		for i := range bugs {
			bugs[i].Number = base + i
			bugs[i].ID = "" // reset in case a previous attempt assigned one
		}
		result.BaseNumber = base

		ids, err := imp.store.CreateBugs(ctx, bugs)
		if err != nil {
			if errors.Is(err, storage.ErrSequenceConflict) {
				debug.Logf("import: sequence conflict at base %d, retrying\n", base)
				return err // retryable: re-claim a fresh range
			}
			return backoff.Permanent(err)
		}
		bugIDs = ids
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(imp.opts.MaxAttempts-1))
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		if errors.Is(err, storage.ErrSequenceConflict) {
			return result.fail(StageAllocate, fmt.Errorf("gave up after %d attempts: %w", imp.opts.MaxAttempts, err))
		}
		if claimFailed {
			return result.fail(StageAllocate, err)
		}
		return result.fail(StageBugs, fmt.Errorf("bug batch insert failed, nothing committed: %w", err))
	}

	result.Created = len(bugIDs)
	result.BugIDs = bugIDs
	for _, b := range bugs {
		result.DisplayIDs = append(result.DisplayIDs, b.DisplayID(project.Code))
	}

	// Second phase: attachments, matched to bugs by input order. Only rows
	// that carried a URL produce a candidate, and only committed bug IDs
	// are referenced.
	candidates := make([]*types.Attachment, 0)
	for i, url := range urls {
		if url == "" {
			continue
		}
		candidates = append(candidates, &types.Attachment{
			BugID: bugIDs[i],
			Kind:  types.AttachmentLink,
			URL:   url,
		})
	}
	if len(candidates) > 0 {
		if err := imp.store.CreateAttachments(ctx, candidates); err != nil {
			// Bugs stay committed: surface as partial success with the
			// identifiers the caller needs for reconciliation.
			result.fail(StageAttachments, fmt.Errorf("bugs committed but attachment batch failed: %w", err))
			telemetry.RecordImport(ctx, result.Created, 0, time.Since(start), false)
			return result
		}
		result.Attachments = len(candidates)
	}

	telemetry.RecordImport(ctx, result.Created, result.Attachments, time.Since(start), true)
	debug.Logf("import: committed %d bugs, %d attachments in %s\n",
		result.Created, result.Attachments, time.Since(start).Round(time.Millisecond))
	return result
}

// Reattach re-runs only the attachment phase of a previously
// partially-successful import. Rows are matched to committed bugs by
// sequence number from the recorded base; inserts are idempotent per
// (bug, url), so running this repeatedly is safe.
func (imp *Importer) Reattach(ctx context.Context, project *types.Project, sheet *spreadsheet.Sheet, baseNumber int) *Result {
	result := &Result{BaseNumber: baseNumber}

	candidates := make([]*types.Attachment, 0)
	for i, row := range sheet.Rows {
		url := AttachmentURL(row)
		if url == "" {
			continue
		}
		bug, err := imp.store.GetBugByNumber(ctx, project.ID, baseNumber+i)
		if err != nil {
			return result.fail(StageAttachments,
				fmt.Errorf("row %d: no committed bug at number %d: %w", i+1, baseNumber+i, err))
		}
		candidates = append(candidates, &types.Attachment{
			BugID: bug.ID,
			Kind:  types.AttachmentLink,
			URL:   url,
		})
	}

	if err := imp.store.CreateAttachments(ctx, candidates); err != nil {
		return result.fail(StageAttachments, fmt.Errorf("attachment batch failed: %w", err))
	}
	result.Attachments = len(candidates)
	return result
}
