package cache

import "testing"

func TestNoteFirstSighting(t *testing.T) {
	c := New()
	if !c.Note("d1", "c1") {
		t.Fatal("first sighting must report true")
	}
	if c.Note("d1", "c2") {
		t.Fatal("second sighting must report false")
	}
	if got := c.Commits("d1"); len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Fatalf("commits: %v", got)
	}
	if got := c.Commits("unknown"); got != nil {
		t.Fatalf("unknown digest: %v", got)
	}
}

func TestNoteSameCommitTwice(t *testing.T) {
	c := New()
	// One commit referencing identical content at two paths.
	c.Note("d1", "c1")
	c.Note("d1", "c1")
	c.Note("d1", "c2")
	if got := c.Commits("d1"); len(got) != 2 || got[0] != "c1" || got[1] != "c2" {
		t.Fatalf("commits must be unique per digest: %v", got)
	}
}
