// Command ssq scans a repository for potential secrets: the working tree by
// default, staged changes with --staged, or commit history with --history.
package main

func main() {
	Execute()
}
