package bridge

import "github.com/editkit/tsbridge/internal/protocol"

// HandleRaw parses one inbound worker payload and dispatches it.
func (b *Bridge) HandleRaw(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		b.log.Warn("worker message: %v", err)
		return
	}
	b.HandleMessage(msg)
}

// HandleMessage demultiplexes one inbound worker message. Events and
// responses dispatch by their tagged variant; nothing here blocks and
// nothing propagates errors — unsuccessful responses are logged and
// dropped, stale responses are discarded silently.
func (b *Bridge) HandleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.DiagnosticEvent:
		b.aggregator.SetBucket(m.File, m.Kind, m.Diagnostics)

	case protocol.ProjectLoadingEvent:
		// Only after project load does the worker have enough context to
		// analyze accurately; refresh whatever is displayed now.
		if !m.Finished {
			return
		}
		if doc, ok := b.registry.ActiveDocument(); ok {
			b.RequestDiagnostics(doc.Path())
		}

	case protocol.TelemetryEvent, protocol.RequestCompletedEvent:
		// Informational; surfaced elsewhere if at all.

	case protocol.UnknownEvent:
		b.log.Debug("unhandled worker event %q", m.Event)

	case protocol.DiagnosticsSyncResponse:
		if !m.Success {
			b.log.Warn("%s failed: %s", m.Kind, m.Message)
			return
		}
		b.aggregator.SetBucket(m.File, m.Kind, m.Diagnostics)

	case protocol.QuickInfoResponse:
		b.resolveHover(m)

	case protocol.DefinitionResponse:
		b.resolveDefinition(m)

	case protocol.UnknownResponse:
		if !m.Success {
			b.log.Warn("%s failed: %s", m.Command, m.Message)
			return
		}
		b.log.Debug("unhandled worker response %q", m.Command)
	}
}

// resolveHover completes the hover slot with the rendered quickinfo. A
// response whose originating document has since closed is discarded and
// the slot left pending for preemption: resolving anyway would show stale
// info against the wrong document.
func (b *Bridge) resolveHover(m protocol.QuickInfoResponse) {
	path, ok := b.hover.pendingPath()
	if !ok {
		return
	}
	if _, open := b.registry.Lookup(path); !open {
		b.log.Debug("hover: %v for %s", ErrStaleResponse, path)
		return
	}

	if !m.Success {
		b.log.Warn("quickinfo failed: %s", m.Message)
		b.hover.resolveEmpty()
		return
	}
	b.hover.resolve(renderQuickInfo(m.Body))
}

// resolveDefinition completes the definition slot. Unsuccessful responses
// resolve as "no definition found" rather than touching the body. Every
// referenced file is pre-registered as openable so navigating to it
// succeeds.
func (b *Bridge) resolveDefinition(m protocol.DefinitionResponse) {
	path, ok := b.definition.pendingPath()
	if !ok {
		return
	}
	if _, open := b.registry.Lookup(path); !open {
		b.log.Debug("definition: %v for %s", ErrStaleResponse, path)
		return
	}

	if !m.Success {
		b.log.Warn("findSourceDefinition failed: %s", m.Message)
		b.definition.resolveEmpty()
		return
	}

	targets := make([]DefinitionTarget, 0, len(m.Spans))
	for _, span := range m.Spans {
		b.registry.EnsureOpenable(span.File)
		startLine, startCol, endLine, endCol := fromWorkerRange(span.Start, span.End)
		targets = append(targets, DefinitionTarget{
			Path:      span.File,
			StartLine: startLine,
			StartCol:  startCol,
			EndLine:   endLine,
			EndCol:    endCol,
		})
	}
	b.definition.resolve(targets)
}
