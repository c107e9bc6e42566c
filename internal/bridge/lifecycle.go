package bridge

import (
	"sync"
	"sync/atomic"

	"github.com/editkit/tsbridge/internal/protocol"
)

// EditorBinding tracks one editor widget's attached document and emits
// open/close/updateOpen transitions to the worker on every document swap.
//
// The binding is the sole writer of open/close state for its documents;
// no other component sends those commands. Transitions are evaluated
// synchronously, before any change listeners attach to the next document,
// so the worker never receives edits for a file it was not told is open.
type EditorBinding struct {
	bridge *Bridge
	id     string

	mu   sync.Mutex
	doc  DocumentSurface
	subs []Disposable

	// completionSeq is the latest completion-request id. Completion
	// popups resolved against an older id are stale and discarded by the
	// editor shell.
	completionSeq atomic.Int64
}

// NewEditor creates a binding for the editor widget with the given tab
// identity.
func (b *Bridge) NewEditor(id string) *EditorBinding {
	return &EditorBinding{bridge: b, id: id}
}

// ID returns the binding's tab identity.
func (e *EditorBinding) ID() string {
	return e.id
}

// Document returns the currently attached document, if any.
func (e *EditorBinding) Document() (DocumentSurface, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc, e.doc != nil
}

// SetDocument swaps the attached document. A nil next detaches the
// editor. The previous document's change listeners are disposed exactly
// once before the lifecycle transition is evaluated, so a shared document
// reattached to another editor never double-delivers edits.
func (e *EditorBinding) SetDocument(next DocumentSurface) {
	e.mu.Lock()

	prev := e.doc
	for _, sub := range e.subs {
		sub.Dispose()
	}
	e.subs = nil

	e.emitTransition(prev, next)

	e.doc = next
	if next != nil {
		e.subs = append(e.subs, next.OnContentChange(e.handleContentChange))
	}
	e.mu.Unlock()
}

// Close detaches the editor, closing its document with the worker if it
// was managed.
func (e *EditorBinding) Close() {
	e.SetDocument(nil)
}

// emitTransition sends the one worker command the swap calls for.
// Called with e.mu held.
//
//	wasManaged  isManaged  action
//	false       false      none
//	false       true       open(next)
//	true        false      close(prev)
//	true        true       updateOpen(closed=[prev], open=[next])
func (e *EditorBinding) emitTransition(prev, next DocumentSurface) {
	b := e.bridge
	wasManaged := b.isManaged(prev)
	isManaged := b.isManaged(next)

	switch {
	case !wasManaged && !isManaged:
		// Neither side concerns the worker.

	case !wasManaged && isManaged:
		b.send(protocol.CommandOpen, protocol.OpenArgs{File: next.Path()})

	case wasManaged && !isManaged:
		b.send(protocol.CommandClose, protocol.FileArgs{File: prev.Path()})
		b.aggregator.Clear(prev.Path())

	default:
		b.send(protocol.CommandUpdateOpen, protocol.UpdateOpenArgs{
			ClosedFiles: []string{prev.Path()},
			OpenFiles:   []string{next.Path()},
		})
		b.aggregator.Clear(prev.Path())
	}
}

// NextCompletionRequest allocates a new completion-request id, making any
// earlier in-flight completion stale.
func (e *EditorBinding) NextCompletionRequest() int64 {
	return e.completionSeq.Add(1)
}

// IsCurrentCompletionRequest reports whether id is still the latest
// completion request for this editor.
func (e *EditorBinding) IsCurrentCompletionRequest(id int64) bool {
	return e.completionSeq.Load() == id
}
