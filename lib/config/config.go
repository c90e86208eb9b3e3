// METADATA
//
// Package config - Layered Configuration Resolver
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - configuration layering and validation
// Role: Produces the one ResolvedConfig every hook invocation runs against,
// by merging three on-disk layers and validating the result
//
// Purpose & Function
//
// Purpose: Merges process defaults, a user-level file, and a project-level
// file (in that order) into a single ResolvedConfig, so every hook
// invocation sees one consistent, validated configuration regardless of
// which layers exist on disk.
//
// Core Design: Deep-merge semantics - nested objects merge key by key,
// everything else (including arrays) replaces the destination value
// wholesale. A layer that is missing or fails to parse is skipped with a
// warning rather than failing the resolve; a merged document that fails
// schema validation degrades to defaults rather than propagating a bad
// config into the verifier.
//
// Key Features:
//   - Three-layer merge order: defaults, user, project
//   - JSON5 parsing so config files can carry comments and trailing commas
//   - JSON Schema validation of the merged document before decode
//   - Fail-soft at every layer boundary - warn and continue, never abort
//
// Dependencies:
//   - github.com/titanous/json5: tolerant parsing of comment-bearing
//     config files
//   - github.com/santhosh-tekuri/jsonschema/v6: merged-document validation
//   - quadrupleverify/lib/diagnostics: structured warnings on skipped or
//     invalid layers
//
// The default/user/project merge order and the skip-and-warn posture for a
// missing or malformed layer follow a layered config resolver pattern that
// swaps hand-rolled JSONC handling for a real JSON5 library and adds
// schema validation before decode.
package config

import (
	"encoding/json"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/titanous/json5"

	"quadrupleverify/lib/diagnostics"

	"go.uber.org/zap"
)

// TrustLevel is the three-level enforcement dial.
type TrustLevel string

const (
	TrustMinimal  TrustLevel = "minimal"
	TrustStandard TrustLevel = "standard"
	TrustStrict   TrustLevel = "strict"
)

// Capabilities gates tool execution by required capability (lib/capability).
type Capabilities struct {
	Enabled    bool     `json:"enabled"`
	Allowed    []string `json:"allowed"`
	FailClosed bool     `json:"failClosed"`
}

// ModelRouting toggles the light/standard/strict classifier (lib/router).
type ModelRouting struct {
	Enabled bool `json:"enabled"`
}

// Cycle4 toggles research-claim sourcing rules.
type Cycle4 struct {
	Enabled bool `json:"enabled"`
}

// Cycle5 configures the optional inference verifier.
type Cycle5 struct {
	Enabled           bool   `json:"enabled"`
	Model             string `json:"model"`
	APIKey            string `json:"apiKey"`
	MinResponseTokens int    `json:"minResponseTokens"`
}

// MCP carries MCP-tool-specific limits.
type MCP struct {
	MaxInputSizeBytes int `json:"maxInputSizeBytes"`
}

// ResolvedConfig is the immutable, fully merged configuration for one hook
// invocation.
type ResolvedConfig struct {
	TrustLevel            TrustLevel   `json:"trustLevel"`
	LeanMode              bool         `json:"leanMode"`
	DisabledRules         []string     `json:"disabledRules"`
	Capabilities          Capabilities `json:"capabilities"`
	ModelRouting          ModelRouting `json:"modelRouting"`
	MaxVerificationTokens int          `json:"maxVerificationTokens"`
	Cycle4                Cycle4       `json:"cycle4"`
	Cycle5                Cycle5       `json:"cycle5"`
	AuditDir              string       `json:"auditDir"`
	MCP                   MCP          `json:"mcp"`
}

// DisabledRuleSet returns DisabledRules as a lookup set, empty when
// TrustLevel is strict - strict mode always clears disabledRules.
func (c ResolvedConfig) DisabledRuleSet() map[string]bool {
	set := make(map[string]bool, len(c.DisabledRules))
	if c.TrustLevel == TrustStrict {
		return set
	}
	for _, id := range c.DisabledRules {
		set[id] = true
	}
	return set
}

func defaultsRaw() map[string]any {
	return map[string]any{
		"trustLevel":    string(TrustStandard),
		"leanMode":      false,
		"disabledRules": []any{"quality.any-type"},
		"capabilities": map[string]any{
			"enabled":    true,
			"allowed":    []any{"filesystem", "shell", "network", "mcp"},
			"failClosed": true,
		},
		"modelRouting":          map[string]any{"enabled": true},
		"maxVerificationTokens": 500,
		"cycle4":                map[string]any{"enabled": true},
		"cycle5": map[string]any{
			"enabled":           false,
			"model":             "",
			"apiKey":            "",
			"minResponseTokens": 200,
		},
		"auditDir": "",
		"mcp":      map[string]any{"maxInputSizeBytes": 1 << 20},
	}
}

// Paths collects the three config file locations in merge order.
type Paths struct {
	DefaultRules   string
	UserConfig     string
	ProjectConfig  string
}

// Resolve loads and deep-merges the three layers, falling back to an empty
// map for any layer that is missing or fails to parse (warning to stderr).
// The merged document is validated against the
// schema; a schema failure degrades to defaults-only rather than failing
// the process.
func Resolve(paths Paths) ResolvedConfig {
	merged := defaultsRaw()
	for _, layer := range []struct {
		name string
		path string
	}{
		{"default-rules", paths.DefaultRules},
		{"user", paths.UserConfig},
		{"project", paths.ProjectConfig},
	} {
		raw, ok := loadLayer(layer.path)
		if !ok {
			continue
		}
		merged = deepMerge(merged, raw)
	}

	if err := validate(merged); err != nil {
		diagnostics.Warn("resolved config failed schema validation, using defaults",
			zap.Error(err))
		merged = defaultsRaw()
	}

	var cfg ResolvedConfig
	buf, _ := json.Marshal(merged)
	if err := json.Unmarshal(buf, &cfg); err != nil {
		diagnostics.Warn("resolved config did not decode, using hard defaults", zap.Error(err))
		buf, _ = json.Marshal(defaultsRaw())
		_ = json.Unmarshal(buf, &cfg)
	}
	return cfg
}

func loadLayer(path string) (map[string]any, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			diagnostics.Warn("could not read config layer", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}
	var raw map[string]any
	if err := json5.Unmarshal(data, &raw); err != nil {
		diagnostics.Warn("could not parse config layer", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return raw, true
}

// deepMerge merges src onto dst: nested objects are merged recursively; any
// other value, including arrays, replaces the destination value wholesale.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst))
	for k, v := range dst {
		out[k] = v
	}
	for k, sv := range src {
		if dv, ok := out[k]; ok {
			dvMap, dvIsMap := dv.(map[string]any)
			svMap, svIsMap := sv.(map[string]any)
			if dvIsMap && svIsMap {
				out[k] = deepMerge(dvMap, svMap)
				continue
			}
		}
		out[k] = sv
	}
	return out
}

const schemaDoc = `{
  "type": "object",
  "properties": {
    "trustLevel": {"enum": ["minimal", "standard", "strict"]},
    "leanMode": {"type": "boolean"},
    "disabledRules": {"type": "array", "items": {"type": "string"}},
    "maxVerificationTokens": {"type": "integer", "minimum": 0},
    "capabilities": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "allowed": {"type": "array", "items": {"type": "string"}},
        "failClosed": {"type": "boolean"}
      }
    },
    "cycle5": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "model": {"type": "string"},
        "apiKey": {"type": "string"},
        "minResponseTokens": {"type": "integer"}
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var doc any
	if err := json.Unmarshal([]byte(schemaDoc), &doc); err != nil {
		return
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("quadrupleverify-config.json", doc); err != nil {
		return
	}
	s, err := c.Compile("quadrupleverify-config.json")
	if err != nil {
		return
	}
	compiledSchema = s
}

func validate(merged map[string]any) error {
	if compiledSchema == nil {
		return nil
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return err
	}
	return compiledSchema.Validate(doc)
}
