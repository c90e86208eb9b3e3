// METADATA
//
// Package router - Verification Mode Classifier
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - heuristic classifier
// Role: Classifies one tool invocation as light, standard, or strict, and
// exposes what that classification means for the rule engine
//
// Purpose & Function
//
// Purpose: Not every tool call deserves the same verification weight. A
// short, simple bash command and a long multi-statement write warrant
// different scrutiny; Classify decides which, based on tool name and
// content shape.
//
// Core Design: A small set of heuristic checks (length, piping, tool
// identity, sensitivity) evaluated in a fixed order, producing one of
// three modes. OnlyCritical and ClearsDisabled expose what each mode means
// to the caller rather than leaving that mapping implicit at call sites.
//
// Key Features:
//   - Disabled routing always degrades to standard mode
//   - Strict mode clears the disabled-rule set, matching the trust-level
//     override already applied elsewhere in the pre-tool hook
//
// Dependencies: standard library only (strings) - the classification
// heuristics are simple enough that no external library adds value.
//
// No directly analogous prior model-routing concept exists; this is built
// from this repository's own verification-weight requirements, using the
// same fixed-table dispatch idiom used throughout the rest of this
// codebase.
package router

import "strings"

// Mode is the routed classification for one invocation.
type Mode string

const (
	Light    Mode = "light"
	Standard Mode = "standard"
	Strict   Mode = "strict"
)

// sensitiveBashHint reuses a narrow subset of the sensitivity catalog as a
// cheap pre-check; the full catalog lives in lib/sensitivity and is applied
// post-tool. Here it only decides routing strictness.
var sensitiveBashHints = []string{
	"/etc/passwd", "/etc/shadow", ".ssh/", ".aws/", ".env", "id_rsa",
}

// Classify applies the routing heuristics. When enabled is false, the
// router always returns Standard (routing is a no-op).
func Classify(enabled bool, toolName string, bashCommand string, writeContent string) Mode {
	if !enabled {
		return Standard
	}

	if toolName == "Bash" {
		lower := strings.ToLower(bashCommand)
		for _, hint := range sensitiveBashHints {
			if strings.Contains(lower, hint) {
				return Strict
			}
		}
		if len(bashCommand) < 50 && !strings.ContainsAny(bashCommand, "|;") {
			return Light
		}
		return Standard
	}

	if toolName == "Write" || toolName == "Edit" {
		if len(writeContent) < 200 {
			return Light
		}
		return Standard
	}

	if strings.HasPrefix(toolName, "mcp__") || strings.HasPrefix(toolName, "mcp_") {
		return Standard
	}

	return Standard
}

// OnlyCritical reports whether a mode restricts the rule engine to
// critical-severity rules only.
func (m Mode) OnlyCritical() bool {
	return m == Light
}

// ClearsDisabled reports whether a mode clears the disabled-rule set,
// mirroring the strict trust-level behavior for routing-level strictness.
func (m Mode) ClearsDisabled() bool {
	return m == Strict
}
