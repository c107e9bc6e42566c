// Package host provides an in-memory implementation of the editor-side
// surfaces the bridge binds to: documents, the registry, and tab focus.
// Editor frontends embed or replace it; the CLI harness uses it directly.
package host

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/editkit/tsbridge/internal/bridge"
)

// Document is an in-memory document surface.
type Document struct {
	mu sync.Mutex

	path     string
	language string
	text     string
	markers  []bridge.Marker

	listeners  map[int]func(bridge.ContentChange)
	nextListen int

	// onMarkers, when set, observes every marker replacement.
	onMarkers func(path string, markers []bridge.Marker)
}

// NewDocument creates a document with the given initial text. The
// language tag is derived from the path's extension.
func NewDocument(path, text string) *Document {
	return &Document{
		path:      filepath.Clean(path),
		language:  LanguageForPath(path),
		text:      text,
		listeners: make(map[int]func(bridge.ContentChange)),
	}
}

// LanguageForPath maps a file extension to its language tag. Unknown
// extensions yield an empty tag, which the bridge treats as unmanaged.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "typescriptreact"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "javascriptreact"
	default:
		return ""
	}
}

// Path returns the document's path.
func (d *Document) Path() string { return d.path }

// LanguageTag returns the document's language tag.
func (d *Document) LanguageTag() string { return d.language }

// Text returns the current document text.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// ApplyMarkers replaces the document's marker list.
func (d *Document) ApplyMarkers(markers []bridge.Marker) {
	d.mu.Lock()
	d.markers = markers
	observe := d.onMarkers
	d.mu.Unlock()

	if observe != nil {
		observe(d.path, markers)
	}
}

// Markers returns the current marker list.
func (d *Document) Markers() []bridge.Marker {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]bridge.Marker, len(d.markers))
	copy(out, d.markers)
	return out
}

// OnContentChange subscribes to edit events.
func (d *Document) OnContentChange(fn func(bridge.ContentChange)) bridge.Disposable {
	d.mu.Lock()
	id := d.nextListen
	d.nextListen++
	d.listeners[id] = fn
	d.mu.Unlock()

	return bridge.DisposeFunc(func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	})
}

// Apply performs the edits against the document text in order and
// notifies content-change listeners with a single event carrying them.
func (d *Document) Apply(edits ...bridge.Edit) error {
	d.mu.Lock()
	text := d.text
	for _, edit := range edits {
		next, err := applyEdit(text, edit)
		if err != nil {
			d.mu.Unlock()
			return err
		}
		text = next
	}
	d.text = text
	listeners := make([]func(bridge.ContentChange), 0, len(d.listeners))
	for _, fn := range d.listeners {
		listeners = append(listeners, fn)
	}
	d.mu.Unlock()

	change := bridge.ContentChange{Edits: edits}
	for _, fn := range listeners {
		fn(change)
	}
	return nil
}

// applyEdit replaces the [start, end) range of text with the edit's
// replacement. Positions are 0-based line/column.
func applyEdit(text string, edit bridge.Edit) (string, error) {
	start, err := offsetAt(text, edit.StartLine, edit.StartCol)
	if err != nil {
		return "", err
	}
	end, err := offsetAt(text, edit.EndLine, edit.EndCol)
	if err != nil {
		return "", err
	}
	if end < start {
		return "", fmt.Errorf("edit range ends before it starts")
	}
	return text[:start] + edit.Text + text[end:], nil
}

// offsetAt converts a 0-based line/column position into a byte offset.
func offsetAt(text string, line, col int) (int, error) {
	if line < 0 || col < 0 {
		return 0, fmt.Errorf("negative position %d:%d", line, col)
	}
	offset := 0
	for l := 0; l < line; l++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d out of range", line)
		}
		offset += nl + 1
	}
	lineEnd := len(text)
	if nl := strings.IndexByte(text[offset:], '\n'); nl >= 0 {
		lineEnd = offset + nl
	}
	if offset+col > lineEnd {
		return 0, fmt.Errorf("column %d out of range on line %d", col, line)
	}
	return offset + col, nil
}
