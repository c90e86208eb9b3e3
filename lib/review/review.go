// METADATA
//
// Package review - Self-Review Prompt Composer
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - prompt text composer
// Role: Builds the self-review prompt injected on the pre-finalize hook,
// folding in any research-sourcing findings collected during the session
//
// Purpose & Function
//
// Purpose: Compose turns a (possibly empty) map of research-path findings
// into one prompt the stop hook hands back to the agent, asking it to
// verify its own work rather than simply describing that it did.
//
// Core Design: Without findings, returns a fixed base prompt. With
// findings, appends a per-file, per-violation breakdown so the prompt
// names exactly what to re-check instead of a generic reminder.
//
// Key Features:
//   - Designed against the "describe instead of do" failure mode - the
//     prompt asks for a concrete re-check action, not a restated summary
//   - Deterministic ordering of findings so the composed prompt doesn't
//     vary run to run for the same input map
//
// Dependencies: standard library only (strings, sort) - prompt composition
// here is plain text assembly with no templating library warranted.
//
// No directly analogous prior self-review injection step exists; this is
// built from this repository's own self-check requirements rather than
// adapted from an existing file.
package review

import (
	"fmt"
	"sort"
	"strings"

	"quadrupleverify/lib/rules"
)

const selfCheckPrompt = `Before finishing, run a self-check across four dimensions: completeness, correctness, security, and quality.

This check has its own rule: if you already produced code or made the edit, the check passes for that dimension — move on. If you only described what you would do, that description is not the output; produce the actual code or edit now. Fixing a gap means producing output, not describing output.

Check each dimension in turn:
1. Completeness — is every part of the request implemented, not just described?
2. Correctness — does the logic do what was asked, including edge cases?
3. Security — does the change avoid introducing the kinds of issues an automated scan would flag?
4. Quality — no placeholder bodies, no deferred-work markers left where a real implementation belongs.`

// Compose builds the self-review prompt, appending a concise list of
// Cycle-4 findings when researchFindings is non-empty - i.e. when recently
// written paths include research-family artifacts.
func Compose(researchFindings map[string][]rules.Violation) string {
	if len(researchFindings) == 0 {
		return selfCheckPrompt
	}

	var b strings.Builder
	b.WriteString(selfCheckPrompt)
	b.WriteString("\n\nResearch-sourcing findings in recently written files:\n")
	paths := make([]string, 0, len(researchFindings))
	for path := range researchFindings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for _, v := range researchFindings[path] {
			b.WriteString(fmt.Sprintf("- %s: %s\n", path, v.Message))
		}
	}
	return b.String()
}
