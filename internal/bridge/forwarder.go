package bridge

import "github.com/editkit/tsbridge/internal/protocol"

// handleContentChange forwards one content-change event to the worker.
//
// Only the active tab forwards: two editors showing the same shared
// document would otherwise each send the edits. Edits are forwarded in
// the order the editor reported them, since the worker applies them
// sequentially against its own buffer. After the whole batch, diagnostics
// are refreshed exactly once.
func (e *EditorBinding) handleContentChange(change ContentChange) {
	b := e.bridge
	if !b.tabs.IsActiveTab(e.id) {
		return
	}

	e.mu.Lock()
	doc := e.doc
	e.mu.Unlock()
	if doc == nil {
		return
	}
	path := doc.Path()

	forwarded := false
	for _, edit := range change.Edits {
		start, end, err := toWorkerRange(edit.StartLine, edit.StartCol, edit.EndLine, edit.EndCol)
		if err != nil {
			b.log.Warn("change %s: %v", path, err)
			continue
		}
		b.send(protocol.CommandChange, protocol.ChangeArgs{
			File:         path,
			Line:         start.Line,
			Offset:       start.Offset,
			EndLine:      end.Line,
			EndOffset:    end.Offset,
			InsertString: edit.Text,
		})
		forwarded = true
	}

	if !forwarded {
		return
	}
	if !b.background && !e.isActiveDocument(path) {
		return
	}
	b.RequestDiagnostics(path)
}

// isActiveDocument reports whether path is shown in the active tab.
func (e *EditorBinding) isActiveDocument(path string) bool {
	doc, ok := e.bridge.registry.ActiveDocument()
	return ok && doc.Path() == path
}
