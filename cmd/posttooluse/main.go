// METADATA
//
// Post-Tool Hook - Behavioral Tracking and Logging
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: EXECUTABLE - non-blocking observation hook
// Role: Records what a tool call did after it already ran, and flags
// behavioral or content-safety patterns for the session record
//
// Purpose & Function
//
// Purpose: Runs after every tool call, regardless of whether the pre-tool
// hook approved it, to update session state, scan the inputs of external
// tools (URL, query, or MCP string arguments) for injection phrasing, and
// scan shell commands for sensitive-path
// access - all recorded to the audit trail.
//
// Core Design: Never blocks - this hook always returns an empty decision
// envelope. Every finding it makes becomes audit metadata, not a denial.
//
// Key Features:
//   - Updates per-session behavior state before running pattern detection,
//     so DetectAll sees the current call already recorded
//   - Boundary/homoglyph scanning only on external-content tools
//     (WebFetch, WebSearch, mcp__*)
//   - Sensitivity scanning only on Bash, where OS secret-path access can
//     actually occur
//
// Dependencies:
//   - lib/behavior, lib/boundary, lib/sensitivity: the three detectors this
//     hook runs in sequence
//   - lib/audit: the log-only record this hook always produces
//
// Follows a post-tool logging hook entrypoint shape: observe, don't block.
package main

import (
	"os"
	"strings"
	"time"

	"quadrupleverify/lib/audit"
	"quadrupleverify/lib/behavior"
	"quadrupleverify/lib/boundary"
	"quadrupleverify/lib/budget"
	"quadrupleverify/lib/diagnostics"
	"quadrupleverify/lib/ingress"
	"quadrupleverify/lib/project"
	"quadrupleverify/lib/sensitivity"
)

const (
	envSessionID  = "QUADRUPLE_VERIFY_SESSION_ID"
	envPluginRoot = "QUADRUPLE_VERIFY_PLUGIN_ROOT"
)

func main() {
	defer diagnostics.Sync()

	decision := ingress.Supervise(run)
	ingress.Emit(os.Stdout, decision)
	os.Exit(0)
}

func run() ingress.Decision {
	event, ok := ingress.ParseEvent(os.Stdin)
	if !ok {
		return ingress.Empty()
	}
	if event.ToolName == "" {
		return ingress.Empty()
	}

	cwd := event.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	root := project.FindRoot(cwd)
	sessionID := project.ResolveSessionID(event.SessionID, envSessionID, root)

	pluginRoot := os.Getenv(envPluginRoot)
	if pluginRoot == "" {
		pluginRoot = root
	}
	registry := project.LoadRegistry(pluginRoot)
	auditDir := registry.AuditDir(root)
	statePath := auditDir + "/" + sessionID + ".behavior.json"

	extracted := ingress.Extract(event.ToolName, event.ToolInput)
	nowMS := time.Now().UnixMilli()

	state := behavior.Load(statePath)

	entry := behavior.Entry{Tool: event.ToolName, TimestampMS: nowMS}
	switch event.ToolName {
	case "Read":
		entry.FilePath = extracted.FilePath
		if entry.FilePath != "" {
			state.FilesRead[entry.FilePath] = true
		}
	case "Write", "Edit":
		entry.FilePath = extracted.FilePath
		if entry.FilePath != "" {
			state.FilesWritten[entry.FilePath] = true
			state.RecordEdit(entry.FilePath, extracted.Content)
		}
	case "Bash":
		entry.Command = extracted.Content
		state.RecordRetry(extracted.Content)
		if path, ok := permChangedPath(extracted.Content); ok {
			entry.PermChangedPath = path
		}
	case "WebFetch", "WebSearch":
		entry.URL = extracted.Content
	}
	state.AppendEntry(entry)

	patterns := behavior.DetectAll(state, event.ToolName, entry.FilePath, nowMS)

	metadata := map[string]any{}
	if len(patterns) > 0 {
		names := make([]string, len(patterns))
		for i, p := range patterns {
			names[i] = string(p)
		}
		metadata["behaviorWarnings"] = names
		warning := strings.Join(names, ", ")
		state.AddBudget("behavioral-warning", budget.Estimate(warning))
		diagnostics.Warn("behavioral pattern detected: " + warning)
	}

	if isExternalContentTool(event.ToolName) && extracted.Content != "" {
		folded := boundary.FoldHomoglyphs(extracted.Content)
		injections := boundary.DetectInjectionPatterns(folded)
		if len(injections) > 0 {
			ids := make([]string, len(injections))
			for i, inj := range injections {
				ids[i] = inj.ID
			}
			metadata["injectionWarnings"] = ids
		}
	}

	if event.ToolName == "Bash" {
		matches := sensitivity.Scan(extracted.Content)
		if len(matches) > 0 {
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			metadata["sensitivityWarnings"] = ids
		}
	}

	_ = behavior.Save(statePath, state)

	if len(metadata) == 0 {
		metadata = nil
	}
	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventPostTool, event.ToolName, audit.DecisionLogOnly, nil, metadata))

	return ingress.Empty()
}

func isExternalContentTool(toolName string) bool {
	return toolName == "WebFetch" || toolName == "WebSearch" ||
		strings.HasPrefix(toolName, "mcp__") || strings.HasPrefix(toolName, "mcp_")
}

// permChangedPath extracts the path argument of a chmod/chown invocation,
// used by the permission-escalation detector.
func permChangedPath(command string) (string, bool) {
	fields := strings.Fields(command)
	if len(fields) < 2 {
		return "", false
	}
	if fields[0] != "chmod" && fields[0] != "chown" {
		return "", false
	}
	return fields[len(fields)-1], true
}
