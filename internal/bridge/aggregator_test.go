package bridge

import (
	"strings"
	"testing"

	"github.com/editkit/tsbridge/internal/protocol"
)

func diag(category, text string, line int) protocol.Diagnostic {
	return protocol.Diagnostic{
		Category: category,
		Start:    protocol.Location{Line: line, Offset: 1},
		End:      protocol.Location{Line: line, Offset: 5},
		Text:     text,
	}
}

func TestAggregatorMergeOrder(t *testing.T) {
	registry := newFakeRegistry()
	doc := newFakeDoc("/src/a.ts", "typescript")
	registry.add(doc)
	a := NewAggregator(registry, nil)

	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "cannot find name", 10),
	})
	a.SetBucket("/src/a.ts", protocol.DiagnosticSuggestion, []protocol.Diagnostic{
		diag("suggestion", "unused import", 1),
	})
	a.SetBucket("/src/a.ts", protocol.DiagnosticSyntactic, []protocol.Diagnostic{
		diag("error", "expected semicolon", 5),
	})

	markers := doc.lastMarkers()
	if len(markers) != 3 {
		t.Fatalf("got %d markers, want 3", len(markers))
	}
	wantPrefixes := []string{"suggestionDiag:", "syntaxDiag:", "semanticDiag:"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(markers[i].Message, prefix) {
			t.Errorf("marker[%d].Message = %q, want prefix %q", i, markers[i].Message, prefix)
		}
	}
}

func TestAggregatorBucketReplacedInFull(t *testing.T) {
	registry := newFakeRegistry()
	doc := newFakeDoc("/src/a.ts", "typescript")
	registry.add(doc)
	a := NewAggregator(registry, nil)

	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "first", 1),
		diag("error", "second", 2),
	})
	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "third", 3),
	})

	markers := doc.lastMarkers()
	if len(markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(markers))
	}
	if want := "semanticDiag: third"; markers[0].Message != want {
		t.Errorf("got %q, want %q", markers[0].Message, want)
	}
}

func TestAggregatorOtherBucketsSurviveUpdate(t *testing.T) {
	registry := newFakeRegistry()
	doc := newFakeDoc("/src/a.ts", "typescript")
	registry.add(doc)
	a := NewAggregator(registry, nil)

	a.SetBucket("/src/a.ts", protocol.DiagnosticSyntactic, []protocol.Diagnostic{
		diag("error", "syntax", 1),
	})
	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "semantic", 2),
	})
	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, nil)

	markers := doc.lastMarkers()
	if len(markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(markers))
	}
	if !strings.HasPrefix(markers[0].Message, "syntaxDiag:") {
		t.Errorf("got %q, want syntactic marker to survive", markers[0].Message)
	}
}

func TestAggregatorSkipsClosedDocument(t *testing.T) {
	registry := newFakeRegistry()
	a := NewAggregator(registry, nil)

	// No document registered at the path. Must not panic.
	a.SetBucket("/src/gone.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "late", 1),
	})

	if got := a.MergedMarkers("/src/gone.ts"); len(got) != 1 {
		t.Errorf("bucket state got %d markers, want 1", len(got))
	}
}

func TestAggregatorClear(t *testing.T) {
	registry := newFakeRegistry()
	doc := newFakeDoc("/src/a.ts", "typescript")
	registry.add(doc)
	a := NewAggregator(registry, nil)

	a.SetBucket("/src/a.ts", protocol.DiagnosticSemantic, []protocol.Diagnostic{
		diag("error", "x", 1),
	})
	a.Clear("/src/a.ts")

	if got := a.MergedMarkers("/src/a.ts"); got != nil {
		t.Errorf("got %v after Clear, want nil", got)
	}
}

func TestSeverityFromCategory(t *testing.T) {
	tests := []struct {
		category string
		want     Severity
	}{
		{"error", SeverityError},
		{"warning", SeverityWarning},
		{"suggestion", SeverityInfo},
		{"mystery", SeverityInfo},
	}
	for _, tt := range tests {
		if got := severityFromCategory(tt.category); got != tt.want {
			t.Errorf("severityFromCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}
