package host

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/editkit/tsbridge/internal/bridge"
)

// Registry tracks open documents by path and which one is active. It
// implements bridge.DocumentRegistry and bridge.TabFocus.
type Registry struct {
	mu sync.RWMutex

	docs     map[string]*Document
	openable map[string]bool
	active   string

	// focused is the editor id that currently has focus.
	focused string

	onMarkers func(path string, markers []bridge.Marker)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		docs:     make(map[string]*Document),
		openable: make(map[string]bool),
	}
}

// OnMarkers registers an observer called on every marker replacement of
// any document opened after the call.
func (r *Registry) OnMarkers(fn func(path string, markers []bridge.Marker)) {
	r.mu.Lock()
	r.onMarkers = fn
	r.mu.Unlock()
}

// Open reads path from disk and registers it. Opening an already open
// path returns the existing document.
func (r *Registry) Open(path string) (*Document, error) {
	path = filepath.Clean(path)

	r.mu.Lock()
	if doc, ok := r.docs[path]; ok {
		r.mu.Unlock()
		return doc, nil
	}
	r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.OpenText(path, string(data)), nil
}

// OpenText registers a document with the given text, replacing any
// document already open at that path.
func (r *Registry) OpenText(path, text string) *Document {
	path = filepath.Clean(path)
	doc := NewDocument(path, text)

	r.mu.Lock()
	doc.onMarkers = r.onMarkers
	r.docs[path] = doc
	if r.active == "" {
		r.active = path
	}
	r.mu.Unlock()

	return doc
}

// Close removes the document at path.
func (r *Registry) Close(path string) {
	path = filepath.Clean(path)
	r.mu.Lock()
	delete(r.docs, path)
	if r.active == path {
		r.active = ""
	}
	r.mu.Unlock()
}

// SetActive marks the document at path as the one in the active tab.
func (r *Registry) SetActive(path string) {
	r.mu.Lock()
	r.active = filepath.Clean(path)
	r.mu.Unlock()
}

// Lookup returns the open document for path, if any.
func (r *Registry) Lookup(path string) (bridge.DocumentSurface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[filepath.Clean(path)]
	if !ok {
		return nil, false
	}
	return doc, true
}

// ActiveDocument returns the document in the active tab, if any.
func (r *Registry) ActiveDocument() (bridge.DocumentSurface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == "" {
		return nil, false
	}
	doc, ok := r.docs[r.active]
	if !ok {
		return nil, false
	}
	return doc, true
}

// EnsureOpenable records that path may be navigated to.
func (r *Registry) EnsureOpenable(path string) {
	r.mu.Lock()
	r.openable[filepath.Clean(path)] = true
	r.mu.Unlock()
}

// IsOpenable reports whether path was registered for navigation.
func (r *Registry) IsOpenable(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.openable[filepath.Clean(path)]
}

// SetFocus records which editor instance has focus.
func (r *Registry) SetFocus(editorID string) {
	r.mu.Lock()
	r.focused = editorID
	r.mu.Unlock()
}

// IsActiveTab reports whether the given editor instance has focus. An
// empty focus means no tab is active.
func (r *Registry) IsActiveTab(editorID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.focused != "" && r.focused == editorID
}
