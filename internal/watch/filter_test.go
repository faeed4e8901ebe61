package watch

import "testing"

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f, err := NewFilter("")
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	if !f.Match(Event{Path: "a", Kind: "created"}) {
		t.Fatalf("expected empty filter to match")
	}
}

func TestFilterMatchesOnKindAndPathPrefix(t *testing.T) {
	f, err := NewFilter(`kind == "changed" && path.startsWith("src/")`)
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	if !f.Match(Event{Path: "src/main.go", Kind: "changed"}) {
		t.Fatalf("expected match for src/main.go changed")
	}
	if f.Match(Event{Path: "docs/readme.md", Kind: "changed"}) {
		t.Fatalf("expected no match for docs path")
	}
	if f.Match(Event{Path: "src/main.go", Kind: "created"}) {
		t.Fatalf("expected no match for wrong kind")
	}
}

func TestFilterMatchesOnSequenceThreshold(t *testing.T) {
	f, err := NewFilter("sequence > 10")
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	if f.Match(Event{Sequence: 5}) {
		t.Fatalf("expected no match below threshold")
	}
	if !f.Match(Event{Sequence: 11}) {
		t.Fatalf("expected match above threshold")
	}
}

func TestFilterRejectsInvalidExpression(t *testing.T) {
	if _, err := NewFilter("path +++ nonsense"); err == nil {
		t.Fatalf("expected an error for an invalid expression")
	}
}
