// METADATA
//
// Package capability - Tool Capability Gate
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - static authorization table
// Role: Decides whether a tool name is permitted under the session's
// configured capability set before any content is ever inspected
//
// Purpose & Function
//
// Purpose: Maps each tool name to the capability it requires (filesystem,
// shell, network, mcp) and checks that capability against the config's
// allow-list, so a disallowed tool is rejected before its input is even
// extracted.
//
// Core Design: A fixed lookup table built once at init time, queried on
// every invocation - no per-call allocation, no rebuilt regex. Unknown
// tools fail closed when the config says failClosed, fail open otherwise;
// the default is fail-closed.
//
// Key Features:
//   - Table-driven dispatch from tool name to capability name
//   - Fail-closed-by-default posture for tools absent from the table
//   - Remediation text travels with the denial, not bolted on afterward
//
// Dependencies: fmt, sort and strings from the standard library, for
// remediation message formatting; quadrupleverify/lib/config for the
// capability settings.
//
// The fixed-lookup-table-built-at-init idiom used here is retargeted from
// recognizing dangerous shell patterns to recognizing which capability a
// tool name belongs to.
package capability

import (
	"fmt"
	"sort"
	"strings"

	"quadrupleverify/lib/config"
)

// Capability names.
const (
	Filesystem = "filesystem"
	Shell      = "shell"
	Network    = "network"
	MCP        = "mcp"
)

// requiredFor is the static tool -> required-capabilities map.
var requiredFor = map[string][]string{
	"Write": {Filesystem},
	"Edit":  {Filesystem},
	"Read":  {Filesystem},
	"Glob":  {Filesystem},
	"Grep":  {Filesystem},
	"Bash":  {Shell, Filesystem, Network},
	"WebFetch":  {Network},
	"WebSearch": {Network},
}

// Decision is the gate's verdict for one tool invocation.
type Decision struct {
	Allowed bool
	Missing []string // capabilities required but not allowed
	Unknown bool     // tool name not recognized by the static map or mcp_* pattern
}

// Evaluate computes the capability decision for toolName under cfg. When
// capabilities.enabled is false the gate is a no-op (always allowed).
func Evaluate(toolName string, cfg config.Capabilities) Decision {
	if !cfg.Enabled {
		return Decision{Allowed: true}
	}

	required, ok := lookup(toolName)
	if !ok {
		return Decision{Allowed: !cfg.FailClosed, Unknown: true, Missing: []string{"unknown"}}
	}

	allowed := toSet(cfg.Allowed)
	var missing []string
	for _, cap := range required {
		if !allowed[cap] {
			missing = append(missing, cap)
		}
	}
	sort.Strings(missing)
	return Decision{Allowed: len(missing) == 0, Missing: missing}
}

func lookup(toolName string) ([]string, bool) {
	if caps, ok := requiredFor[toolName]; ok {
		return caps, true
	}
	if strings.HasPrefix(toolName, "mcp__") || strings.HasPrefix(toolName, "mcp_") {
		return []string{MCP}, true
	}
	return nil, false
}

func toSet(vs []string) map[string]bool {
	set := make(map[string]bool, len(vs))
	for _, v := range vs {
		set[v] = true
	}
	return set
}

// Remediation builds the human-readable remediation text for a blocked
// decision, in the shape the self-correction tracker and audit writer
// already expect from rule violations - capability-gate messages carry
// remediation text too, not just rule-engine ones.
func (d Decision) Remediation() string {
	if d.Allowed {
		return ""
	}
	if d.Unknown {
		return "this tool is not recognized; add it to an explicit capability mapping or disable fail-closed mode"
	}
	return fmt.Sprintf("grant capabilities [%s] to this tool, or avoid it", strings.Join(d.Missing, ", "))
}
