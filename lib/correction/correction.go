// METADATA
//
// Package correction - Self-Correction Tracker
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - per-file attempt counter + escalation
// Role: Counts repeated blocks against the same file/path and escalates
// the remediation hint once the same mistake recurs
//
// Purpose & Function
//
// Purpose: A single remediation hint is often enough. A third block on the
// same path means the hint isn't landing, so this package escalates -
// surfacing the accumulated rule history instead of repeating the same
// one-line hint a third time.
//
// Core Design: An occurrence counter per file path, whichever rules fired,
// that escalates from a fixed threshold (the third attempt) on, mirroring an
// increment-then-check-threshold idiom rather than a sliding window or
// decay function.
//
// Key Features:
//   - Hint formats one rule + remediation pair per line, numbered
//   - RecordAndBuildEscalation returns "" below threshold, a union of
//     every rule ID seen on that path once at or above it
//   - Escalation text never repeats a rule ID already surfaced earlier in
//     the same escalation
//
// Dependencies: standard library only (strings, fmt) - a fixed-threshold
// counter needs no external library.
//
// The occurrence-count-to-status-escalation idiom (increment a counter,
// confirm at the third occurrence) is reused here for per-file block
// attempts instead of cross-session cognitive-pattern tracking.
package correction

import (
	"fmt"
	"strings"

	"quadrupleverify/lib/behavior"
)

// EscalationThreshold is the attempt count at which an escalation block is
// appended to the block reason.
const EscalationThreshold = 3

// Hint formats one "[ruleId] remediation" line.
func Hint(ruleID, remediation string) string {
	return fmt.Sprintf("[%s] %s", ruleID, remediation)
}

// Hints builds the numbered remediation-hint list appended after the block
// reason text.
func Hints(ruleIDs, remediations []string) string {
	var b strings.Builder
	for i := range ruleIDs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%d. %s", i+1, Hint(ruleIDs[i], remediations[i])))
	}
	return b.String()
}

// RecordAndBuildEscalation records one more blocked attempt against path in
// state and, once attempts reach EscalationThreshold, returns the
// escalation block text naming the union of rule ids across all prior
// attempts; otherwise returns "".
func RecordAndBuildEscalation(s *behavior.State, path string, violationIDs []string, nowMS int64) string {
	c := s.RecordCorrectionAttempt(path, violationIDs, nowMS)
	if c.Attempts < EscalationThreshold {
		return ""
	}

	seen := map[string]bool{}
	var union []string
	for _, snap := range c.History {
		for _, id := range snap.Violations {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}

	return fmt.Sprintf(
		"escalation: this path has been blocked %d times (rules: %s) — try a materially different approach rather than repeating the same edit",
		c.Attempts, strings.Join(union, ", "),
	)
}
