package engine

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/secret-squirrel/ssq/internal/cache"
	"github.com/secret-squirrel/ssq/internal/gitrepo"
	"github.com/secret-squirrel/ssq/internal/pathfilter"
	"github.com/secret-squirrel/ssq/internal/types"
)

// Enumerator produces the lazy, finite sequence of scan units for one
// source. ForEach may be called again to restart the sequence within a run;
// emit returning an error stops the enumeration.
type Enumerator interface {
	ForEach(ctx context.Context, emit func(types.ScanUnit) error) error
}

const binarySniffBytes = 800

// looksBinary applies the NUL-byte heuristic to the first block of content.
func looksBinary(b []byte) bool {
	n := binarySniffBytes
	if len(b) < n {
		n = len(b)
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}

// worktreeEnumerator walks the filesystem under root. It never opens the
// repository, so a plain directory scans the same way a checkout does.
type worktreeEnumerator struct {
	root     string
	filter   *pathfilter.Filter
	maxBytes int64
	warn     func(types.Warning)
}

func (e *worktreeEnumerator) ForEach(ctx context.Context, emit func(types.ScanUnit) error) error {
	return filepath.WalkDir(e.root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			e.warn(types.Warning{Path: p, Err: err.Error()})
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, rerr := filepath.Rel(e.root, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if e.filter.Excluded(rel) {
			return nil
		}
		if e.maxBytes > 0 {
			if info, ierr := d.Info(); ierr == nil && info.Size() > e.maxBytes {
				return nil
			}
		}
		b, rerr2 := os.ReadFile(p)
		if rerr2 != nil {
			e.warn(types.Warning{Path: rel, Err: rerr2.Error()})
			return nil
		}
		if looksBinary(b) {
			return nil
		}
		return emit(types.ScanUnit{Kind: types.SourceWorktree, Path: rel, Data: b})
	})
}

// stagedEnumerator yields index content for added/modified entries. Index
// content is what a commit would record, which may differ from the file on
// disk.
type stagedEnumerator struct {
	repo     Repository
	filter   *pathfilter.Filter
	maxBytes int64
}

func (e *stagedEnumerator) ForEach(ctx context.Context, emit func(types.ScanUnit) error) error {
	files, err := e.repo.StagedFiles(ctx)
	if err != nil {
		return err
	}
	for _, f := range files {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if e.filter.Excluded(f.Path) {
			continue
		}
		if e.maxBytes > 0 && int64(len(f.Content)) > e.maxBytes {
			continue
		}
		if looksBinary(f.Content) {
			continue
		}
		if err := emit(types.ScanUnit{Kind: types.SourceStaged, Path: f.Path, Data: f.Content}); err != nil {
			return err
		}
	}
	return nil
}

// historyEnumerator walks first-parent ancestry from HEAD and yields each
// distinct blob content exactly once, at its newest sighting. The blob object
// id is git's content hash, so a repeat sighting only extends the blob
// cache's commit list and the content is neither re-read nor rescanned.
type historyEnumerator struct {
	repo     Repository
	filter   *pathfilter.Filter
	maxBytes int64
	depth    int
	blobs    *cache.BlobCache
	commits  *int
}

func (e *historyEnumerator) ForEach(ctx context.Context, emit func(types.ScanUnit) error) error {
	return e.repo.WalkHistory(ctx, e.depth, func(commit string, refs []gitrepo.BlobRef) error {
		for _, ref := range refs {
			if e.filter.Excluded(ref.Path) {
				continue
			}
			if first := e.blobs.Note(ref.Blob, commit); !first {
				continue
			}
			content, err := e.repo.ReadBlob(ref.Blob)
			if err != nil {
				return err
			}
			if e.maxBytes > 0 && int64(len(content)) > e.maxBytes {
				continue
			}
			if looksBinary(content) {
				continue
			}
			unit := types.ScanUnit{
				Kind:   types.SourceHistory,
				Path:   ref.Path,
				Commit: commit,
				Blob:   ref.Blob,
				Data:   content,
			}
			if err := emit(unit); err != nil {
				return err
			}
		}
		*e.commits++
		return nil
	})
}
