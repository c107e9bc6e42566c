package bridge

import (
	"sync"

	"github.com/editkit/tsbridge/internal/logging"
	"github.com/editkit/tsbridge/internal/protocol"
)

// Aggregator holds the three independently refreshed diagnostic buckets
// per open document and re-pushes the merged marker list to the document
// surface whenever any bucket changes.
//
// The marker API on the document surface replaces the full list; there is
// no partial update, so the merged list is recomputed and applied
// atomically on every bucket write. Merge order is fixed: suggestion,
// syntactic, semantic.
type Aggregator struct {
	mu       sync.Mutex
	buckets  map[string]*bucketSet
	registry DocumentRegistry
	log      *logging.Logger
}

// bucketSet is the per-path diagnostic state. Each slice is overwritten in
// full when a corresponding response or event arrives.
type bucketSet struct {
	suggestion []protocol.Diagnostic
	syntactic  []protocol.Diagnostic
	semantic   []protocol.Diagnostic
}

// NewAggregator creates an aggregator pushing markers through registry.
func NewAggregator(registry DocumentRegistry, log *logging.Logger) *Aggregator {
	if log == nil {
		log = logging.Null
	}
	return &Aggregator{
		buckets:  make(map[string]*bucketSet),
		registry: registry,
		log:      log,
	}
}

// SetBucket replaces the named bucket for path in full and pushes the
// merged marker list to the document. If the document closed between
// request and response the push is silently skipped.
func (a *Aggregator) SetBucket(path string, kind protocol.DiagnosticKind, diagnostics []protocol.Diagnostic) {
	a.mu.Lock()
	bs, ok := a.buckets[path]
	if !ok {
		bs = &bucketSet{}
		a.buckets[path] = bs
	}

	switch kind {
	case protocol.DiagnosticSuggestion:
		bs.suggestion = diagnostics
	case protocol.DiagnosticSyntactic:
		bs.syntactic = diagnostics
	case protocol.DiagnosticSemantic:
		bs.semantic = diagnostics
	}

	markers := bs.merged()
	a.mu.Unlock()

	doc, ok := a.registry.Lookup(path)
	if !ok {
		a.log.Debug("dropping markers for closed document %s", path)
		return
	}
	doc.ApplyMarkers(markers)
}

// MergedMarkers returns the current merged marker list for path: the
// concatenation suggestion ++ syntactic ++ semantic.
func (a *Aggregator) MergedMarkers(path string) []Marker {
	a.mu.Lock()
	defer a.mu.Unlock()

	bs, ok := a.buckets[path]
	if !ok {
		return nil
	}
	return bs.merged()
}

// Clear removes all buckets for path. Called when the document closes.
func (a *Aggregator) Clear(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.buckets, path)
}

// merged concatenates the buckets in fixed order and converts each record
// to display form.
func (bs *bucketSet) merged() []Marker {
	markers := make([]Marker, 0, len(bs.suggestion)+len(bs.syntactic)+len(bs.semantic))
	markers = appendMarkers(markers, protocol.DiagnosticSuggestion, bs.suggestion)
	markers = appendMarkers(markers, protocol.DiagnosticSyntactic, bs.syntactic)
	markers = appendMarkers(markers, protocol.DiagnosticSemantic, bs.semantic)
	return markers
}

func appendMarkers(dst []Marker, kind protocol.DiagnosticKind, diagnostics []protocol.Diagnostic) []Marker {
	for _, d := range diagnostics {
		dst = append(dst, markerFromDiagnostic(kind, d))
	}
	return dst
}

// markerFromDiagnostic converts a raw worker diagnostic into display form.
// The message is prefixed with its source kind for traceability.
func markerFromDiagnostic(kind protocol.DiagnosticKind, d protocol.Diagnostic) Marker {
	startLine, startCol, endLine, endCol := fromWorkerRange(d.Start, d.End)
	return Marker{
		Severity:  severityFromCategory(d.Category),
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   endLine,
		EndCol:    endCol,
		Message:   kind.String() + ": " + d.Text,
	}
}

// severityFromCategory maps a worker category to a display severity.
// Total: unknown categories map to Info.
func severityFromCategory(category string) Severity {
	switch category {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "suggestion":
		return SeverityInfo
	default:
		return SeverityInfo
	}
}
