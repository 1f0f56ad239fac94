// Package gitrepo provides the engine's git-access layer on top of go-git:
// staged index entries with their blob content, first-parent history walking,
// and blob reads by object id. The engine never shells out to git.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// AccessError is fatal for staged and history scans: there is no meaningful
// degraded behavior when the repository itself cannot be read.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("repository access failed (%s): %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IsNotRepository reports whether err means the target is not a git
// repository at all. Worktree scans degrade to a plain directory walk in that
// case; staged and history scans fail.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// StagedFile is one index entry whose content differs from HEAD.
type StagedFile struct {
	Path    string
	Blob    string // blob object id
	Content []byte
}

// BlobRef is one blob referenced by a commit's tree. The blob object id is a
// content hash, so identical content shares one id across commits and paths.
type BlobRef struct {
	Path string
	Blob string // blob object id
}

// Repo wraps an opened git repository.
type Repo struct {
	repo *git.Repository
}

// Open opens the repository containing root, searching upward for .git the
// way git itself does.
func Open(root string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if IsNotRepository(err) {
			return nil, &AccessError{Op: "open", Err: git.ErrRepositoryNotExists}
		}
		return nil, &AccessError{Op: "open", Err: err}
	}
	return &Repo{repo: repo}, nil
}

// StagedFiles returns index entries in an added or modified state, with the
// *index* blob content (which may differ from the working tree). Deletions
// produce nothing; a rename appears as its new path.
func (r *Repo) StagedFiles(ctx context.Context) ([]StagedFile, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, &AccessError{Op: "read index", Err: err}
	}

	// HEAD tree hashes let us skip entries that are staged but identical to
	// the last commit. An unborn HEAD means everything in the index is new.
	headHashes := map[string]plumbing.Hash{}
	head, err := r.repo.Head()
	if err == nil {
		commit, cerr := r.repo.CommitObject(head.Hash())
		if cerr != nil {
			return nil, &AccessError{Op: "read HEAD commit", Err: cerr}
		}
		tree, terr := commit.Tree()
		if terr != nil {
			return nil, &AccessError{Op: "read HEAD tree", Err: terr}
		}
		ferr := tree.Files().ForEach(func(f *object.File) error {
			headHashes[f.Name] = f.Hash
			return nil
		})
		if ferr != nil {
			return nil, &AccessError{Op: "walk HEAD tree", Err: ferr}
		}
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, &AccessError{Op: "resolve HEAD", Err: err}
	}

	var out []StagedFile
	for _, e := range idx.Entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if e.Mode == filemode.Submodule {
			continue
		}
		if h, ok := headHashes[e.Name]; ok && h == e.Hash {
			continue
		}
		content, rerr := r.ReadBlob(e.Hash.String())
		if rerr != nil {
			return nil, rerr
		}
		out = append(out, StagedFile{Path: e.Name, Blob: e.Hash.String(), Content: content})
	}
	return out, nil
}

// WalkHistory walks first-parent ancestry from HEAD, invoking visit with
// every blob each commit's tree references. Merge commits are followed via
// their first parent only, so side-branch diffs are not double-counted.
// Cancellation is checked between commits; visit errors stop the walk.
//
// maxCommits limits the walk when > 0.
func (r *Repo) WalkHistory(ctx context.Context, maxCommits int, visit func(commit string, refs []BlobRef) error) error {
	head, err := r.repo.Head()
	if err != nil {
		return &AccessError{Op: "resolve HEAD", Err: err}
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return &AccessError{Op: "read HEAD commit", Err: err}
	}

	seen := 0
	for commit != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxCommits > 0 && seen >= maxCommits {
			return nil
		}

		refs, err := r.treeBlobs(commit)
		if err != nil {
			return err
		}
		if err := visit(commit.Hash.String(), refs); err != nil {
			return err
		}
		seen++

		if commit.NumParents() == 0 {
			return nil
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return &AccessError{Op: "read parent commit", Err: err}
		}
	}
	return nil
}

func (r *Repo) treeBlobs(commit *object.Commit) ([]BlobRef, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, &AccessError{Op: "read commit tree", Err: err}
	}
	var out []BlobRef
	err = tree.Files().ForEach(func(f *object.File) error {
		if f.Mode == filemode.Submodule {
			return nil
		}
		out = append(out, BlobRef{Path: f.Name, Blob: f.Hash.String()})
		return nil
	})
	if err != nil {
		return nil, &AccessError{Op: "walk commit tree", Err: err}
	}
	return out, nil
}

// ReadBlob returns the full content of a blob object.
func (r *Repo) ReadBlob(id string) ([]byte, error) {
	blob, err := r.repo.BlobObject(plumbing.NewHash(id))
	if err != nil {
		return nil, &AccessError{Op: "read blob " + id, Err: err}
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, &AccessError{Op: "read blob " + id, Err: err}
	}
	defer rd.Close()
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, &AccessError{Op: "read blob " + id, Err: err}
	}
	return b, nil
}
