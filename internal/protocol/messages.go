package protocol

import (
	"encoding/json"
	"fmt"
)

// DiagnosticKind names one of the three independently refreshed diagnostic
// buckets.
type DiagnosticKind int

const (
	DiagnosticSuggestion DiagnosticKind = iota
	DiagnosticSyntactic
	DiagnosticSemantic
)

// String returns the worker-side label for the kind. The label doubles as
// the traceability prefix on rendered marker messages.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticSuggestion:
		return "suggestionDiag"
	case DiagnosticSyntactic:
		return "syntaxDiag"
	case DiagnosticSemantic:
		return "semanticDiag"
	default:
		return "unknownDiag"
	}
}

// Message is an inbound worker message after decoding. Exactly one concrete
// variant exists per (type, command|event) pair the bridge understands;
// anything else decodes to UnknownEvent or UnknownResponse.
type Message interface {
	isMessage()
}

// DiagnosticEvent is an unsolicited diagnostics push (syntaxDiag,
// semanticDiag or suggestionDiag).
type DiagnosticEvent struct {
	Kind        DiagnosticKind
	File        string
	Diagnostics []Diagnostic
}

// ProjectLoadingEvent signals that the worker started or finished loading a
// project. Finish is global, not path-scoped.
type ProjectLoadingEvent struct {
	Finished    bool
	ProjectName string
}

// TelemetryEvent carries worker telemetry. Informational only.
type TelemetryEvent struct {
	Body json.RawMessage
}

// RequestCompletedEvent acknowledges an asynchronous request.
// Informational only.
type RequestCompletedEvent struct {
	Body json.RawMessage
}

// UnknownEvent is any event the bridge does not handle.
type UnknownEvent struct {
	Event string
	Body  json.RawMessage
}

// DiagnosticsSyncResponse answers one of the three diagnostics-sync
// commands. The body mirrors the diagnostic event shape so both paths feed
// the aggregator identically.
type DiagnosticsSyncResponse struct {
	Kind        DiagnosticKind
	Success     bool
	Message     string
	File        string
	Diagnostics []Diagnostic
}

// QuickInfoResponse answers a quickinfo command.
type QuickInfoResponse struct {
	Success bool
	Message string
	Body    *QuickInfoBody
}

// DefinitionResponse answers a findSourceDefinition command.
type DefinitionResponse struct {
	Success bool
	Message string
	Spans   []FileSpan
}

// UnknownResponse is any response the bridge does not handle.
type UnknownResponse struct {
	Command string
	Success bool
	Message string
	Body    json.RawMessage
}

func (DiagnosticEvent) isMessage()         {}
func (ProjectLoadingEvent) isMessage()     {}
func (TelemetryEvent) isMessage()          {}
func (RequestCompletedEvent) isMessage()   {}
func (UnknownEvent) isMessage()            {}
func (DiagnosticsSyncResponse) isMessage() {}
func (QuickInfoResponse) isMessage()       {}
func (DefinitionResponse) isMessage()      {}
func (UnknownResponse) isMessage()         {}

// envelope is the raw inbound shape before variant decoding.
type envelope struct {
	Type    string          `json:"type"`
	Command string          `json:"command,omitempty"`
	Event   string          `json:"event,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// ParseMessage decodes an inbound payload into its typed variant.
func ParseMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypeEvent:
		return parseEvent(env)
	case TypeResponse:
		return parseResponse(env)
	default:
		return nil, fmt.Errorf("unrecognized message type %q", env.Type)
	}
}

func parseEvent(env envelope) (Message, error) {
	switch env.Event {
	case EventSyntaxDiag, EventSemanticDiag, EventSuggestionDiag:
		var body DiagnosticEventBody
		if err := json.Unmarshal(env.Body, &body); err != nil {
			return nil, fmt.Errorf("decode %s body: %w", env.Event, err)
		}
		return DiagnosticEvent{
			Kind:        eventDiagnosticKind(env.Event),
			File:        body.File,
			Diagnostics: body.Diagnostics,
		}, nil

	case EventProjectLoadingStart, EventProjectLoadingFinish:
		var body ProjectLoadingBody
		if len(env.Body) > 0 {
			if err := json.Unmarshal(env.Body, &body); err != nil {
				return nil, fmt.Errorf("decode %s body: %w", env.Event, err)
			}
		}
		return ProjectLoadingEvent{
			Finished:    env.Event == EventProjectLoadingFinish,
			ProjectName: body.ProjectName,
		}, nil

	case EventTelemetry:
		return TelemetryEvent{Body: env.Body}, nil

	case EventRequestCompleted:
		return RequestCompletedEvent{Body: env.Body}, nil

	default:
		return UnknownEvent{Event: env.Event, Body: env.Body}, nil
	}
}

func parseResponse(env envelope) (Message, error) {
	success := env.Success != nil && *env.Success

	switch env.Command {
	case CommandSuggestionDiagnosticsSync, CommandSyntacticDiagnosticsSync, CommandSemanticDiagnosticsSync:
		resp := DiagnosticsSyncResponse{
			Kind:    commandDiagnosticKind(env.Command),
			Success: success,
			Message: env.Message,
		}
		if success && len(env.Body) > 0 {
			var body DiagnosticEventBody
			if err := json.Unmarshal(env.Body, &body); err != nil {
				return nil, fmt.Errorf("decode %s body: %w", env.Command, err)
			}
			resp.File = body.File
			resp.Diagnostics = body.Diagnostics
		}
		return resp, nil

	case CommandQuickInfo:
		resp := QuickInfoResponse{Success: success, Message: env.Message}
		if success && len(env.Body) > 0 {
			var body QuickInfoBody
			if err := json.Unmarshal(env.Body, &body); err != nil {
				return nil, fmt.Errorf("decode quickinfo body: %w", err)
			}
			resp.Body = &body
		}
		return resp, nil

	case CommandFindSourceDefinition:
		resp := DefinitionResponse{Success: success, Message: env.Message}
		if success && len(env.Body) > 0 {
			if err := json.Unmarshal(env.Body, &resp.Spans); err != nil {
				return nil, fmt.Errorf("decode definition body: %w", err)
			}
		}
		return resp, nil

	default:
		return UnknownResponse{
			Command: env.Command,
			Success: success,
			Message: env.Message,
			Body:    env.Body,
		}, nil
	}
}

func eventDiagnosticKind(event string) DiagnosticKind {
	switch event {
	case EventSuggestionDiag:
		return DiagnosticSuggestion
	case EventSyntaxDiag:
		return DiagnosticSyntactic
	default:
		return DiagnosticSemantic
	}
}

func commandDiagnosticKind(command string) DiagnosticKind {
	switch command {
	case CommandSuggestionDiagnosticsSync:
		return DiagnosticSuggestion
	case CommandSyntacticDiagnosticsSync:
		return DiagnosticSyntactic
	default:
		return DiagnosticSemantic
	}
}
