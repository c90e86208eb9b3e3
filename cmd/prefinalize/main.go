// METADATA
//
// Pre-Finalize Hook - Session Close-Out
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: EXECUTABLE - session-end orchestrator
// Role: Composes the self-review prompt the agent sees at session close,
// optionally re-scans research artifacts, and optionally asks a second
// model for a verdict on the exchange
//
// Purpose & Function
//
// Purpose: The last hook in a session's lifecycle - builds the self-review
// prompt (folding in any research-sourcing findings), optionally calls the
// configured inference provider for a second opinion, and persists the
// session's final state.
//
// Core Design: Re-scans research files from disk rather than trusting
// in-memory state, since a file can change between when it was written and
// when the session ends. The optional inference call is always log-only -
// its result never changes the prompt that goes back to the agent.
//
// Key Features:
//   - scanResearchFiles re-reads every path recorded as written during the
//     session and re-evaluates it fresh
//   - stop-prompt budget accounting happens right after composing the
//     prompt, before the optional inference call
//   - Persists session state via behavior.Save before returning, so
//     mutations made during this hook are not silently dropped
//
// Dependencies:
//   - lib/review: prompt composition
//   - lib/rules: re-evaluation of research files
//   - lib/inference: the optional second-opinion call
//   - lib/behavior, lib/budget, lib/audit: session state, budget tracking,
//     and the close-out audit entry
//
// Follows a session-stop hook entrypoint shape.
package main

import (
	"os"

	"quadrupleverify/lib/audit"
	"quadrupleverify/lib/behavior"
	"quadrupleverify/lib/budget"
	"quadrupleverify/lib/config"
	"quadrupleverify/lib/diagnostics"
	"quadrupleverify/lib/inference"
	"quadrupleverify/lib/ingress"
	"quadrupleverify/lib/project"
	"quadrupleverify/lib/review"
	"quadrupleverify/lib/rules"
)

const (
	envSessionID   = "QUADRUPLE_VERIFY_SESSION_ID"
	envPluginRoot  = "QUADRUPLE_VERIFY_PLUGIN_ROOT"
	envCycle5Key   = "QUADRUPLE_VERIFY_CYCLE5_API_KEY"
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

	cfg := config.Resolve(config.Paths{
		DefaultRules:  registry.DefaultRulesPath(),
		UserConfig:    registry.UserConfig,
		ProjectConfig: project.ProjectConfigPath(root),
	})

	state := behavior.Load(statePath)

	var findings map[string][]rules.Violation
	if cfg.Cycle4.Enabled {
		findings = scanResearchFiles(state)
	}
	prompt := review.Compose(findings)
	state.AddBudget("stop-prompt", budget.Estimate(prompt))

	if cfg.Cycle5.Enabled {
		requestText, _ := event.ToolInput["request"].(string)
		responseText, _ := event.ToolInput["response"].(string)
		apiKey := cfg.Cycle5.APIKey
		if v := os.Getenv(envCycle5Key); v != "" {
			apiKey = v
		}
		provider := inference.SelectProvider(cfg.Cycle5.Model)
		result := inference.Verify(provider, true, cfg.Cycle5.Model, apiKey, cfg.Cycle5.MinResponseTokens, requestText, responseText)
		audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventStop, "", audit.DecisionLogOnly, nil, map[string]any{
			"cycle5Pass":      result.Pass,
			"cycle5Skipped":   result.Skipped,
			"cycle5Reasoning": result.Reasoning,
		}))
	}

	audit.Write(auditDir, audit.NewEntry(sessionID, audit.EventStop, "", audit.DecisionLogOnly, nil, nil))
	_ = behavior.Save(statePath, state)

	return ingress.PromptEnvelope(prompt)
}

// scanResearchFiles re-reads every written path recognized as a research
// artifact and runs the Cycle-4 rules against its current on-disk content.
func scanResearchFiles(state *behavior.State) map[string][]rules.Violation {
	findings := map[string][]rules.Violation{}
	for path := range state.FilesWritten {
		if !rules.IsResearchPath(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		violations := rules.EvaluateResearch(string(data))
		if len(violations) > 0 {
			findings[path] = violations
		}
	}
	return findings
}
