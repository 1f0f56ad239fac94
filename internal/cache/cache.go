// Package cache tracks blob content digests during a history walk. A blob's
// content is scanned the first time its digest is seen; later commits that
// reference identical content only extend the digest's commit list, which the
// aggregator uses to collapse repeated findings. The cache lives for one run
// only; nothing is persisted between invocations.
package cache

// BlobCache maps content digest -> commits referencing that content, in walk
// order (newest first). It is filled by the single enumerator goroutine and
// read after the walk completes, so it needs no locking.
type BlobCache struct {
	commits map[string][]string
}

func New() *BlobCache {
	return &BlobCache{commits: map[string][]string{}}
}

// Note records that commit references content with the given digest and
// reports whether this is the digest's first sighting in the run. A commit
// referencing the same content at several paths is recorded once; the walk
// visits each commit exactly once, so checking the newest entry suffices.
func (c *BlobCache) Note(digest, commit string) (first bool) {
	prev, seen := c.commits[digest]
	if len(prev) == 0 || prev[len(prev)-1] != commit {
		c.commits[digest] = append(prev, commit)
	}
	return !seen
}

// Commits returns every commit recorded for a digest, in walk order.
func (c *BlobCache) Commits(digest string) []string {
	return c.commits[digest]
}
