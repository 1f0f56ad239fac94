// Package engine contains the core detection logic for ssq. It enumerates
// scan targets from the working tree, the index or the commit history, runs
// the compiled pattern registry over each unit, and aggregates the surviving
// matches into an ordered finding list. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
