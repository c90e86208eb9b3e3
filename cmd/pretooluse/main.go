// METADATA
//
// Pre-Tool Hook - Blocking Verification Orchestrator
//
// For the structure this comment follows, see the 4-block convention this
// repository uses across its command entrypoints and libraries: Purpose &
// Function, Core Design, Key Features, Dependencies.
//
// Component Type: EXECUTABLE - blocking hook orchestrator
// Role: Evaluates a tool call before it runs and decides approve or block
//
// Purpose & Function
//
// Purpose: Intercepts every tool invocation before execution, runs it
// through the capability gate, the MCP input size limit, the model router,
// and the quality/security/research rule engine, and either approves the
// call or blocks it with a remediation-bearing reason.
//
// Core Design: Thin orchestrator pattern - coordinates the library
// components (capability, router, rules, budget, correction, audit) rather
// than implementing their logic inline. Every branch that can block writes
// an audit entry first; every other path falls through to approve.
//
// Key Features:
//   - Trust-level short-circuit (minimal trust skips verification entirely)
//   - Capability gate runs before content extraction, content extraction
//     before the MCP size check, so each stage only sees what it needs
//   - Prompt budget condensation against the session's running token total,
//     not just this call's own messages
//   - Self-correction escalation after repeated blocks on the same path
//   - Fail-open at the process boundary via ingress.Supervise in main()
//
// Dependencies:
//   - lib/ingress: event parsing, content extraction, decision envelopes,
//     the fail-open supervisor
//   - lib/config, lib/capability, lib/router, lib/rules: the four gates
//     this hook chains together
//   - lib/behavior, lib/correction, lib/budget, lib/audit: per-session state,
//     escalation, prompt-budget tracking, and the audit trail
//
// Follows a pre-tool hook entrypoint shape: parse input, delegate to
// library components, make one blocking decision.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"quadrupleverify/lib/behavior"
	"quadrupleverify/lib/budget"
	"quadrupleverify/lib/capability"
	"quadrupleverify/lib/config"
	"quadrupleverify/lib/correction"
	"quadrupleverify/lib/diagnostics"
	"quadrupleverify/lib/ingress"
	"quadrupleverify/lib/lexical"
	"quadrupleverify/lib/project"
	"quadrupleverify/lib/router"
	"quadrupleverify/lib/rules"

	"quadrupleverify/lib/audit"
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
		return ingress.Approve()
	}
	if event.ToolName == "" {
		return ingress.Approve()
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

	cfg := config.Resolve(config.Paths{
		DefaultRules:  registry.DefaultRulesPath(),
		UserConfig:    registry.UserConfig,
		ProjectConfig: project.ProjectConfigPath(root),
	})

	if cfg.TrustLevel == config.TrustMinimal {
		return ingress.Approve()
	}

	capDecision := capability.Evaluate(event.ToolName, cfg.Capabilities)
	if !capDecision.Allowed {
		reason := "capability-denied: " + capDecision.Remediation()
		auditCapabilityDenial(registry.AuditDir(root), sessionID, event.ToolName, reason, capDecision.Remediation())
		return ingress.Block(reason)
	}

	extracted := ingress.Extract(event.ToolName, event.ToolInput)
	ctx := contextFor(event.ToolName)

	if ctx == rules.ContextMCP && cfg.MCP.MaxInputSizeBytes > 0 && len(extracted.Content) > cfg.MCP.MaxInputSizeBytes {
		reason := fmt.Sprintf("mcp-input-too-large: concatenated input is %d bytes, exceeding the configured limit of %d bytes", len(extracted.Content), cfg.MCP.MaxInputSizeBytes)
		auditMCPSizeDenial(registry.AuditDir(root), sessionID, event.ToolName, reason)
		return ingress.Block(reason)
	}

	if cfg.LeanMode {
		return ingress.Approve()
	}

	ext := lexical.ExtOf(extracted.FilePath)

	mode := router.Classify(cfg.ModelRouting.Enabled, event.ToolName, extracted.Content, extracted.Content)
	disabled := cfg.DisabledRuleSet()
	if mode.ClearsDisabled() || cfg.TrustLevel == config.TrustStrict {
		disabled = map[string]bool{}
	}

	var violations []rules.Violation
	if ctx == rules.ContextFileWrite && rules.IsResearchPath(extracted.FilePath) && cfg.Cycle4.Enabled {
		violations = rules.EvaluateResearch(extracted.Content)
	} else {
		violations = rules.Evaluate(extracted.Content, ext, ctx, disabled, mode.OnlyCritical())
	}

	if cfg.TrustLevel == config.TrustStrict {
		violations = upgradeInfoToWarn(violations)
	}

	if len(violations) == 0 {
		auditApprove(registry.AuditDir(root), sessionID, event.ToolName)
		return ingress.Approve()
	}

	blocking := false
	for _, v := range violations {
		if v.Severity == rules.SeverityCritical || v.Severity == rules.SeverityWarn {
			blocking = true
			break
		}
	}
	if !blocking {
		auditApprove(registry.AuditDir(root), sessionID, event.ToolName)
		return ingress.Approve()
	}

	statePath := registry.AuditDir(root) + "/" + sessionID + ".behavior.json"
	state := behavior.Load(statePath)

	reason := formatReason(violations, cfg.MaxVerificationTokens, state)

	if extracted.FilePath != "" {
		escalation := correction.RecordAndBuildEscalation(state, extracted.FilePath, violationIDs(violations), time.Now().UnixMilli())
		if escalation != "" {
			state.AddBudget("correction-hint", budget.Estimate(escalation))
			reason = strings.Join([]string{reason, escalation}, "\n\n")
		}
	}
	_ = behavior.Save(statePath, state)

	auditBlock(registry.AuditDir(root), sessionID, event.ToolName, violations)
	return ingress.Block(reason)
}

func contextFor(toolName string) rules.AppliesTo {
	switch {
	case toolName == "Write" || toolName == "Edit":
		return rules.ContextFileWrite
	case toolName == "Bash":
		return rules.ContextBash
	case toolName == "WebFetch" || toolName == "WebSearch":
		return rules.ContextWeb
	case strings.HasPrefix(toolName, "mcp__") || strings.HasPrefix(toolName, "mcp_"):
		return rules.ContextMCP
	default:
		return rules.ContextAll
	}
}

func upgradeInfoToWarn(vs []rules.Violation) []rules.Violation {
	out := make([]rules.Violation, len(vs))
	for i, v := range vs {
		if v.Severity == rules.SeverityInfo {
			v.Severity = rules.SeverityWarn
		}
		out[i] = v
	}
	return out
}

func violationIDs(vs []rules.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.RuleID
	}
	return out
}

// formatReason builds the block-reason text, condensing against the
// session's running token total (state.Budget.TotalTokens) rather than just
// this call's own messages — the budget manager gates on cumulative
// pressure across the session, not a single invocation in isolation.
func formatReason(vs []rules.Violation, maxTokens int, state *behavior.State) string {
	messages := make([]string, len(vs))
	for i, v := range vs {
		messages[i] = v.RuleID + ": " + v.Message
	}
	pending := 0
	for _, m := range messages {
		pending += budget.Estimate(m)
	}
	condensed, _ := budget.CondenseIfOverBudget(state.Budget.TotalTokens+pending, maxTokens, messages)

	lines := make([]string, 0, len(condensed)+1)
	lines = append(lines, "blocked by verification:")
	for _, m := range condensed {
		lines = append(lines, "- "+m.Text)
	}

	remediations := make([]string, len(vs))
	for i, v := range vs {
		remediations[i] = v.Remediation
	}
	reason := strings.Join(lines, "\n")
	if len(vs) > 0 {
		reason = strings.Join([]string{reason, "remediation:", correction.Hints(violationIDs(vs), remediations)}, "\n")
	}

	state.AddBudget("block-message", pending)
	return reason
}

func auditApprove(auditDir, sessionID, tool string) {
	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventPreTool, tool, audit.DecisionApprove, nil, nil))
}

func auditBlock(auditDir, sessionID, tool string, violations []rules.Violation) {
	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventPreTool, tool, audit.DecisionBlock, violations, nil))
}

func auditCapabilityDenial(auditDir, sessionID, tool, reason, remediation string) {
	denied := []rules.Violation{{
		RuleID:      "capability-denied",
		Priority:    rules.PriorityCritical,
		Severity:    rules.SeverityCritical,
		Code:        "capability-denied",
		Remediation: remediation,
		Message:     reason,
	}}
	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventPreTool, tool, audit.DecisionBlock, denied, map[string]any{
		"capabilityDenied": true,
		"reason":           reason,
	}))
}

func auditMCPSizeDenial(auditDir, sessionID, tool, reason string) {
	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventPreTool, tool, audit.DecisionBlock, nil, map[string]any{
		"mcpInputTooLarge": true,
		"reason":           reason,
	}))
}
