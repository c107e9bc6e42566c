package bridge

import (
	"strings"

	"github.com/editkit/tsbridge/internal/protocol"
)

// HoverResult is the rendered answer to a hover request. Empty Contents
// means the worker had no information (or the request was preempted).
type HoverResult struct {
	Contents []string
}

// renderQuickInfo converts a quickinfo body into displayable hover
// contents: the display string, then documentation, then one entry per
// structured tag.
func renderQuickInfo(body *protocol.QuickInfoBody) HoverResult {
	if body == nil {
		return HoverResult{}
	}

	var contents []string
	if body.DisplayString != "" {
		contents = append(contents, body.DisplayString)
	}
	if doc := renderDocumentation(body.Documentation); doc != "" {
		contents = append(contents, doc)
	}
	for _, tag := range body.Tags {
		if rendered := renderDocTag(tag); rendered != "" {
			contents = append(contents, rendered)
		}
	}
	return HoverResult{Contents: contents}
}

// renderDocumentation flattens documentation that arrives as either a
// plain string or a list of tagged display parts. Tagged parts other than
// plain text render with a kind-specific prefix.
func renderDocumentation(doc any) string {
	switch v := doc.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		var sb strings.Builder
		for _, raw := range v {
			part, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			kind, _ := part["kind"].(string)
			text, _ := part["text"].(string)
			sb.WriteString(renderDisplayPart(kind, text))
		}
		return sb.String()
	default:
		return ""
	}
}

// renderDisplayPart renders one tagged fragment. Plain text passes
// through; any other kind is prefixed so the tag survives flattening.
func renderDisplayPart(kind, text string) string {
	if kind == "" || kind == "text" {
		return text
	}
	return "(" + kind + ") " + text
}

// renderDocTag converts one structured documentation tag to a short
// markdown-like label-plus-body string. Empty @returns tags are dropped;
// @example bodies are fenced; @author bodies have "Name <email>" split
// into two tokens with the angle brackets removed.
func renderDocTag(tag protocol.DocTag) string {
	body := strings.TrimSpace(tag.RenderedText())
	label := "*@" + tag.Name + "*"

	switch tag.Name {
	case "returns":
		if body == "" {
			return ""
		}
		return label + " " + body

	case "example":
		if body == "" {
			return label
		}
		if strings.Contains(body, "```") {
			return label + "\n" + body
		}
		return label + "\n```\n" + body + "\n```"

	case "author":
		return label + " " + splitAuthor(body)

	default:
		if body == "" {
			return label
		}
		return label + " " + body
	}
}

// splitAuthor turns "Name <email>" into "Name email". Bodies without an
// e-mail in angle brackets pass through unchanged.
func splitAuthor(body string) string {
	open := strings.LastIndex(body, "<")
	end := strings.LastIndex(body, ">")
	if open < 0 || end <= open {
		return body
	}
	name := strings.TrimSpace(body[:open])
	email := strings.TrimSpace(body[open+1 : end])
	if name == "" {
		return email
	}
	return name + " " + email
}
