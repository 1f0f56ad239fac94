package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/secret-squirrel/ssq/internal/cache"
	"github.com/secret-squirrel/ssq/internal/config"
	"github.com/secret-squirrel/ssq/internal/gitrepo"
	"github.com/secret-squirrel/ssq/internal/logging"
	"github.com/secret-squirrel/ssq/internal/pathfilter"
	"github.com/secret-squirrel/ssq/internal/patterns"
	"github.com/secret-squirrel/ssq/internal/types"
)

// Mode selects which source the engine enumerates.
type Mode int

const (
	// ModeWorktree scans every regular file under the repository root.
	ModeWorktree Mode = iota
	// ModeStaged scans index content for added/modified entries.
	ModeStaged
	// ModeHistory scans each distinct blob reachable across commit ancestry.
	ModeHistory
)

// Repository is the git-access collaborator the engine depends on. The
// default implementation is gitrepo.Repo; tests may substitute fakes.
type Repository interface {
	StagedFiles(ctx context.Context) ([]gitrepo.StagedFile, error)
	WalkHistory(ctx context.Context, maxCommits int, visit func(commit string, refs []gitrepo.BlobRef) error) error
	ReadBlob(id string) ([]byte, error)
}

// Options controls one scan run.
type Options struct {
	Root   string
	Config *config.Config
	Mode   Mode

	// Workers caps the concurrent content scanners (0 = GOMAXPROCS).
	Workers int
	// MaxBytes skips units larger than this (0 = no limit).
	MaxBytes int64
	// HistoryDepth limits the history walk to the newest N commits (0 = full).
	HistoryDepth int
	// Repo overrides the repository handle; opened from Root when nil and the
	// mode needs one.
	Repo Repository
}

// Stats summarizes one run.
type Stats struct {
	UnitsScanned  int
	CommitsWalked int
	Duration      time.Duration
}

// Result is the engine's output: the ordered finding list, recoverable
// warnings, and the exit signal the caller maps to a process status.
type Result struct {
	Findings []types.Finding
	Warnings []types.Warning
	// Failed is true when any threshold-exceeding finding exists.
	Failed bool
	Stats  Stats
}

// Scan runs one scan pass. Fatal errors (bad config, repository access)
// return a nil result. Cancellation returns the partial result aggregated so
// far together with the context error.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("engine: nil config")
	}
	reg, err := patterns.Compile(opts.Config)
	if err != nil {
		return nil, err
	}
	filter, err := pathfilter.New(opts.Config.IgnorePaths)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var warnings []types.Warning
	warn := func(w types.Warning) {
		logging.L().Debugw("scan warning", "path", w.Path, "error", w.Err)
		warnings = append(warnings, w)
	}

	var stats Stats
	var blobs *cache.BlobCache

	var enum Enumerator
	switch opts.Mode {
	case ModeWorktree:
		enum = &worktreeEnumerator{root: opts.Root, filter: filter, maxBytes: opts.MaxBytes, warn: warn}
	case ModeStaged, ModeHistory:
		repo := opts.Repo
		if repo == nil {
			r, oerr := gitrepo.Open(opts.Root)
			if oerr != nil {
				return nil, oerr
			}
			repo = r
		}
		if opts.Mode == ModeStaged {
			enum = &stagedEnumerator{repo: repo, filter: filter, maxBytes: opts.MaxBytes}
		} else {
			blobs = cache.New()
			enum = &historyEnumerator{
				repo:     repo,
				filter:   filter,
				maxBytes: opts.MaxBytes,
				depth:    opts.HistoryDepth,
				blobs:    blobs,
				commits:  &stats.CommitsWalked,
			}
		}
	default:
		return nil, errors.New("engine: unknown scan mode")
	}

	started := time.Now()
	matches, scanned, runErr := runWorkers(ctx, enum, reg, workers)
	stats.UnitsScanned = scanned
	stats.Duration = time.Since(started)

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		// Fatal: stop before producing partial output.
		return nil, runErr
	}

	agg := newAggregator(opts.Config.MinSeverity, blobs)
	findings := agg.Finalize(matches)
	res := &Result{
		Findings: findings,
		Warnings: warnings,
		Failed:   len(findings) > 0,
		Stats:    stats,
	}
	return res, runErr
}

// runWorkers drains the enumerator through a pool of content scanners.
// Each worker accumulates matches locally; the merge happens once at the end,
// so the hot path takes no locks.
func runWorkers(ctx context.Context, enum Enumerator, reg *patterns.Registry, workers int) ([]types.RawMatch, int, error) {
	units := make(chan types.ScanUnit)
	locals := make([][]types.RawMatch, workers)
	counts := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(units)
		return enum.ForEach(gctx, func(u types.ScanUnit) error {
			select {
			case units <- u:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for u := range units {
				locals[i] = append(locals[i], scanUnit(reg, u)...)
				counts[i]++
			}
			return nil
		})
	}
	err := g.Wait()

	var merged []types.RawMatch
	total := 0
	for i := range locals {
		merged = append(merged, locals[i]...)
		total += counts[i]
	}
	return merged, total, err
}
