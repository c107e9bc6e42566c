package bridge

// Severity classifies a marker for display.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Marker is one display marker applied to a document surface. Positions
// use the editor's 0-based line/column addressing.
type Marker struct {
	Severity  Severity
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Message   string
}

// Edit is one textual edit in editor addressing: the text between the
// start and end positions is replaced by Text.
type Edit struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Text      string
}

// ContentChange is one content-change event carrying the edits it was
// reported with, in the order the editor produced them.
type ContentChange struct {
	Edits []Edit
}

// Disposable tears down a subscription. Dispose must be safe to call more
// than once.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to the Disposable interface.
type DisposeFunc func()

// Dispose calls the function.
func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// DocumentSurface is the editor-side view of one open buffer. The bridge
// never mutates a document directly; it only applies marker lists and
// listens for content changes.
type DocumentSurface interface {
	// Path returns the document's absolute path.
	Path() string

	// LanguageTag returns the language tag derived from the extension,
	// e.g. "typescript" or "typescriptreact".
	LanguageTag() string

	// Text returns the current document text.
	Text() string

	// ApplyMarkers replaces the document's full marker list.
	ApplyMarkers(markers []Marker)

	// OnContentChange subscribes to edit events. The returned Disposable
	// removes the subscription.
	OnContentChange(fn func(ContentChange)) Disposable
}

// DocumentRegistry resolves paths to live document surfaces. At most one
// document exists per path; documents are shared across editor widgets.
type DocumentRegistry interface {
	// Lookup returns the open document for path, if any.
	Lookup(path string) (DocumentSurface, bool)

	// ActiveDocument returns the document shown in the active tab, if any.
	ActiveDocument() (DocumentSurface, bool)

	// EnsureOpenable registers path so navigation to it can succeed even
	// if no tab currently shows it.
	EnsureOpenable(path string)
}

// TabFocus reports which editor instance currently has focus.
type TabFocus interface {
	IsActiveTab(editorID string) bool
}

// CommandSender delivers a command to the worker, fire-and-forget. When
// the worker connection is down implementations may queue or drop; the
// bridge does not retry.
type CommandSender interface {
	Send(command string, args any) error
}
