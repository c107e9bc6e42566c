package bridge

import (
	"github.com/editkit/tsbridge/internal/logging"
	"github.com/editkit/tsbridge/internal/protocol"
)

// DefinitionTarget is one location answering a definition request, in
// editor addressing.
type DefinitionTarget struct {
	Path      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Bridge wires one language worker to the editor surface. It owns the
// diagnostic aggregator, the hover/definition resolver slots, and the set
// of managed language tags. Editor widgets attach through NewEditor.
type Bridge struct {
	sender   CommandSender
	registry DocumentRegistry
	tabs     TabFocus
	log      *logging.Logger

	languages  map[string]bool
	background bool

	aggregator *Aggregator
	hover      resolverSlot[HoverResult]
	definition resolverSlot[[]DefinitionTarget]
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(log *logging.Logger) Option {
	return func(b *Bridge) {
		b.log = log
	}
}

// WithManagedLanguages sets the language tags the worker understands.
func WithManagedLanguages(tags []string) Option {
	return func(b *Bridge) {
		b.languages = make(map[string]bool, len(tags))
		for _, t := range tags {
			b.languages[t] = true
		}
	}
}

// WithBackgroundDiagnostics controls whether edits on documents that are
// not in the active tab still trigger a diagnostics refresh. Defaults to
// true; stale bucket updates for invisible documents are inert.
func WithBackgroundDiagnostics(enabled bool) Option {
	return func(b *Bridge) {
		b.background = enabled
	}
}

// DefaultManagedLanguages are the worker's language tags.
var DefaultManagedLanguages = []string{"typescript", "typescriptreact"}

// New creates a bridge over the given collaborators.
func New(sender CommandSender, registry DocumentRegistry, tabs TabFocus, opts ...Option) *Bridge {
	b := &Bridge{
		sender:     sender,
		registry:   registry,
		tabs:       tabs,
		log:        logging.Null,
		background: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.languages == nil {
		b.languages = make(map[string]bool, len(DefaultManagedLanguages))
		for _, t := range DefaultManagedLanguages {
			b.languages[t] = true
		}
	}

	b.aggregator = NewAggregator(registry, b.log)
	return b
}

// Aggregator exposes the bridge's diagnostic aggregator.
func (b *Bridge) Aggregator() *Aggregator {
	return b.aggregator
}

// isManaged reports whether the worker understands the document's
// language.
func (b *Bridge) isManaged(doc DocumentSurface) bool {
	if doc == nil {
		return false
	}
	return b.languages[doc.LanguageTag()]
}

// send delivers one command to the worker. Send failures are logged and
// otherwise absorbed; the bridge never retries.
func (b *Bridge) send(command string, args any) {
	if err := b.sender.Send(command, args); err != nil {
		b.log.Warn("send %s: %v", command, err)
	}
}

// Hover requests hover information at the given editor position. The
// returned channel always delivers exactly one result: the worker's
// answer, or an empty result if the request is preempted, malformed, or
// the connection is down.
func (b *Bridge) Hover(path string, line, col int) <-chan HoverResult {
	ch := b.hover.begin(path)

	loc, err := toWorkerLocation(line, col)
	if err != nil {
		b.log.Warn("hover %s: %v", path, err)
		b.hover.resolveEmpty()
		return ch
	}

	b.send(protocol.CommandQuickInfo, protocol.PositionArgs{
		File:   path,
		Line:   loc.Line,
		Offset: loc.Offset,
	})
	return ch
}

// Definition requests the source definition of the symbol at the given
// editor position. Delivery semantics match Hover; an empty slice means
// no definition was found.
func (b *Bridge) Definition(path string, line, col int) <-chan []DefinitionTarget {
	ch := b.definition.begin(path)

	loc, err := toWorkerLocation(line, col)
	if err != nil {
		b.log.Warn("definition %s: %v", path, err)
		b.definition.resolveEmpty()
		return ch
	}

	b.send(protocol.CommandFindSourceDefinition, protocol.PositionArgs{
		File:   path,
		Line:   loc.Line,
		Offset: loc.Offset,
	})
	return ch
}

// RequestDiagnostics issues the three fixed diagnostics queries for path.
// Responses are correlated later by command name. Never more than these
// three queries are in flight per refresh; the worker drops excess
// simultaneous requests.
func (b *Bridge) RequestDiagnostics(path string) {
	b.send(protocol.CommandSuggestionDiagnosticsSync, protocol.DiagnosticsSyncArgs{
		File: path,
	})
	b.send(protocol.CommandSyntacticDiagnosticsSync, protocol.DiagnosticsSyncArgs{
		File:                path,
		IncludeLinePosition: true,
	})
	b.send(protocol.CommandSemanticDiagnosticsSync, protocol.DiagnosticsSyncArgs{
		File:                path,
		IncludeLinePosition: true,
	})
}
