// Package protocol defines the wire protocol spoken by the language worker.
//
// The worker is a single long-lived process that answers commands and emits
// unsolicited events. Every message carries a type discriminant ("request",
// "response" or "event") plus a command or event name; bodies vary per name.
// ParseMessage turns an inbound payload into a typed variant so callers can
// switch exhaustively instead of probing loosely-typed maps.
package protocol

// Message type discriminants.
const (
	TypeRequest  = "request"
	TypeResponse = "response"
	TypeEvent    = "event"
)

// Commands sent to the worker.
const (
	CommandOpen       = "open"
	CommandClose      = "close"
	CommandUpdateOpen = "updateOpen"
	CommandChange     = "change"

	CommandSuggestionDiagnosticsSync = "suggestionDiagnosticsSync"
	CommandSyntacticDiagnosticsSync  = "syntacticDiagnosticsSync"
	CommandSemanticDiagnosticsSync   = "semanticDiagnosticsSync"

	CommandQuickInfo            = "quickinfo"
	CommandFindSourceDefinition = "findSourceDefinition"
)

// Events emitted by the worker.
const (
	EventSyntaxDiag     = "syntaxDiag"
	EventSemanticDiag   = "semanticDiag"
	EventSuggestionDiag = "suggestionDiag"

	EventProjectLoadingStart  = "projectLoadingStart"
	EventProjectLoadingFinish = "projectLoadingFinish"
	EventTelemetry            = "telemetry"
	EventRequestCompleted     = "requestCompleted"
)

// Metadata identifies the editor session on every outbound request.
type Metadata struct {
	EditorID    string `json:"editorId"`
	WorkspaceID string `json:"workspaceId"`
	WindowID    string `json:"windowId"`
}

// Request is the outbound command envelope.
type Request struct {
	Seq       int64    `json:"seq"`
	Type      string   `json:"type"`
	Command   string   `json:"command"`
	Arguments any      `json:"arguments,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

// Location is a position in worker addressing: 1-based line and offset.
type Location struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// Diagnostic is a diagnostic record as delivered by the worker.
type Diagnostic struct {
	Category string   `json:"category"`
	Start    Location `json:"start"`
	End      Location `json:"end"`
	Text     string   `json:"text"`
}

// FileSpan is a file plus a range in worker addressing, as returned by
// definition queries.
type FileSpan struct {
	File  string   `json:"file"`
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// --- Request argument shapes ---

// FileArgs address a single file.
type FileArgs struct {
	File string `json:"file"`
}

// OpenArgs are arguments for the open command.
type OpenArgs struct {
	File string `json:"file"`
}

// UpdateOpenArgs swap the worker's set of open files in one command.
type UpdateOpenArgs struct {
	ClosedFiles []string `json:"closedFiles"`
	OpenFiles   []string `json:"openFiles"`
}

// ChangeArgs describe one textual edit in worker addressing. The worker
// applies changes sequentially against its own buffer, so senders must
// preserve the order edits were produced in.
type ChangeArgs struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	Offset       int    `json:"offset"`
	EndLine      int    `json:"endLine"`
	EndOffset    int    `json:"endOffset"`
	InsertString string `json:"insertString"`
}

// DiagnosticsSyncArgs request diagnostics for a single file.
type DiagnosticsSyncArgs struct {
	File                string `json:"file"`
	IncludeLinePosition bool   `json:"includeLinePosition,omitempty"`
}

// PositionArgs address a position within a file.
type PositionArgs struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// --- Response body shapes ---

// DisplayPart is one tagged fragment of quickinfo display or documentation
// text, e.g. kind "className" or "parameterName".
type DisplayPart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// DocTag is a structured documentation tag such as @param or @returns.
// Text may be a plain string or a list of display parts depending on the
// worker version; RenderedText normalizes both.
type DocTag struct {
	Name string `json:"name"`
	Text any    `json:"text,omitempty"`
}

// RenderedText flattens the tag body into a single string.
func (t DocTag) RenderedText() string {
	return flattenParts(t.Text)
}

// QuickInfoBody is the body of a quickinfo response.
type QuickInfoBody struct {
	Kind          string   `json:"kind"`
	KindModifiers string   `json:"kindModifiers"`
	Start         Location `json:"start"`
	End           Location `json:"end"`
	DisplayString string   `json:"displayString"`
	Documentation any      `json:"documentation,omitempty"` // string or []DisplayPart
	Tags          []DocTag `json:"tags,omitempty"`
}

// DocumentationText flattens the documentation field, which the worker
// returns as either a plain string or a list of display parts.
func (b QuickInfoBody) DocumentationText() string {
	return flattenParts(b.Documentation)
}

// DiagnosticEventBody is the body of the syntaxDiag/semanticDiag/
// suggestionDiag events.
type DiagnosticEventBody struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ProjectLoadingBody is the body of project loading events.
type ProjectLoadingBody struct {
	ProjectName string `json:"projectName"`
}

// flattenParts joins a string-or-display-part-list value into plain text.
func flattenParts(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		var out string
		for _, p := range t {
			m, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := m["text"].(string); ok {
				out += s
			}
		}
		return out
	case []DisplayPart:
		var out string
		for _, p := range t {
			out += p.Text
		}
		return out
	default:
		return ""
	}
}
