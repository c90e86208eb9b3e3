// METADATA
//
// Package ingress - Hook Event Boundary
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - process boundary / event transport
// Role: Parses the hook's stdin event, extracts tool-specific content, and
// emits the JSON decision envelope back on stdout
//
// Purpose & Function
//
// Purpose: Every hook executable starts and ends here - decode the event
// JSON, pull out the content each rule engine needs per tool type, and
// write back exactly one decision envelope, no matter what happens in
// between.
//
// Core Design: A single exported Supervise wraps the hook's entire run()
// in a recover(), so a panic anywhere downstream degrades to an approve
// decision instead of crashing the process and leaving the calling tool
// blocked with no output at all.
//
// Key Features:
//   - Extract dispatches per tool name (Write/Edit/Bash/WebFetch/WebSearch/
//     mcp__*) into one concatenated content string
//   - Supervise is the one place a panic is ever allowed to surface, and it
//     always resolves to Approve()
//   - Emit writes a single JSON object, never partial output
//
// Dependencies: encoding/json from the standard library, plus
// go.uber.org/zap through quadrupleverify/lib/diagnostics for the
// recovered-panic and encode-failure warnings.
//
// The entrypoint shape here - argv-based dispatch, single exit path -
// generalizes to JSON-over-stdin and a Supervise helper shared by all
// three hook executables.
package ingress

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"quadrupleverify/lib/diagnostics"
)

// HookPoint names one of the three lifecycle events.
type HookPoint string

const (
	PreTool  HookPoint = "pre-tool"
	PostTool HookPoint = "post-tool"
	Stop     HookPoint = "stop"
)

// Event is the parsed stdin document.
type Event struct {
	HookPoint HookPoint      `json:"hook_point"`
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input"`
	SessionID string         `json:"session_id"`
	Cwd       string         `json:"cwd"`
}

// ParseEvent reads and parses r as an Event. ok is false for empty,
// unreadable, or unparseable input — any input error fails open rather
// than propagating.
func ParseEvent(r io.Reader) (Event, bool) {
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return Event{}, false
	}
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, false
	}
	return e, true
}

// Decision is the stdout envelope. Only the fields
// relevant to the emitting hook point are populated; json omits the rest.
type Decision struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// Approve builds the approve envelope.
func Approve() Decision { return Decision{Decision: "approve"} }

// Block builds the block envelope carrying the formatted violation bundle
// as reason.
func Block(reason string) Decision { return Decision{Decision: "block", Reason: reason} }

// PromptEnvelope builds the pre-finalize envelope carrying the composed
// review prompt.
func PromptEnvelope(prompt string) Decision { return Decision{Prompt: prompt} }

// Empty is the post-tool hook's empty-body envelope.
func Empty() Decision { return Decision{} }

// Emit writes d as a single JSON object to w. Marshal failure here would
// itself need to fail open, but Decision has no types that can fail to
// marshal, so the error is intentionally ignored at the call site by
// design — emitting nothing is equivalent to pass-through on the host side.
func Emit(w io.Writer, d Decision) {
	enc := json.NewEncoder(w)
	if err := enc.Encode(d); err != nil {
		diagnostics.Warn("failed to encode decision envelope", zap.Error(err))
	}
}

// Supervise runs fn and recovers any panic, logging it and degrading to
// Approve(). This is the fail-open contract's last line of defense: no
// component bug may escape to the process boundary.
func Supervise(fn func() Decision) (result Decision) {
	defer func() {
		if r := recover(); r != nil {
			diagnostics.Error("recovered from panic in hook logic, failing open", zap.Any("panic", r))
			result = Approve()
		}
	}()
	return fn()
}

// ExtractedContent is what the tool-input extraction map produces for
// one invocation.
type ExtractedContent struct {
	Content  string
	FilePath string
}

// Extract applies the tool-input extraction map: Write -> content
// (+file_path), Edit -> new_string (+file_path), Bash -> command,
// WebFetch|WebSearch -> url|query, mcp_* -> concatenated string-typed
// values in sorted key order for determinism.
func Extract(toolName string, input map[string]any) ExtractedContent {
	switch {
	case toolName == "Write":
		return ExtractedContent{Content: str(input["content"]), FilePath: str(input["file_path"])}
	case toolName == "Edit":
		return ExtractedContent{Content: str(input["new_string"]), FilePath: str(input["file_path"])}
	case toolName == "Bash":
		return ExtractedContent{Content: str(input["command"])}
	case toolName == "WebFetch" || toolName == "WebSearch":
		if u := str(input["url"]); u != "" {
			return ExtractedContent{Content: u}
		}
		return ExtractedContent{Content: str(input["query"])}
	case strings.HasPrefix(toolName, "mcp__") || strings.HasPrefix(toolName, "mcp_"):
		keys := make([]string, 0, len(input))
		for k, v := range input {
			if _, ok := v.(string); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(input[k].(string))
		}
		return ExtractedContent{Content: b.String()}
	default:
		return ExtractedContent{}
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
