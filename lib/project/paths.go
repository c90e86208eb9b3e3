package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// METADATA: path registry, split between config content (JSON) and
// filesystem layout (TOML).
//
// Registry says where the plugin ships its default rules and where
// per-session audit/state files live, without saying anything about rule
// content itself.
type Registry struct {
	PluginRoot   string `toml:"plugin_root"`
	UserConfig   string `toml:"user_config"`
	AuditDirName string `toml:"audit_dir_name"`
}

// DefaultRegistry returns the registry used when no paths.toml is present
// next to the plugin root, or the override could not be parsed.
func DefaultRegistry(pluginRoot string) Registry {
	home, _ := os.UserHomeDir()
	return Registry{
		PluginRoot:   pluginRoot,
		UserConfig:   filepath.Join(home, ".claude", "quadruple-verify-config.json"),
		AuditDirName: ".claude/quadruple-verify-audit",
	}
}

// LoadRegistry reads <pluginRoot>/paths.toml if present, overlaying it onto
// DefaultRegistry(pluginRoot). A missing or unparseable file silently keeps
// the defaults — the registry is a filesystem-layout convenience, not a
// piece of enforced policy.
func LoadRegistry(pluginRoot string) Registry {
	reg := DefaultRegistry(pluginRoot)
	path := filepath.Join(pluginRoot, "paths.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return reg
	}
	var override Registry
	if _, err := toml.Decode(string(data), &override); err != nil {
		return reg
	}
	if override.PluginRoot != "" {
		reg.PluginRoot = override.PluginRoot
	}
	if override.UserConfig != "" {
		reg.UserConfig = override.UserConfig
	}
	if override.AuditDirName != "" {
		reg.AuditDirName = override.AuditDirName
	}
	return reg
}

// AuditDir returns the per-project audit directory for root.
func (r Registry) AuditDir(root string) string {
	return filepath.Join(root, r.AuditDirName)
}

// ProjectConfigPath returns the project-level config file path for root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ".claude", "quadruple-verify-config.json")
}

// DefaultRulesPath returns the plugin-shipped default rules file path.
func (r Registry) DefaultRulesPath() string {
	return filepath.Join(r.PluginRoot, "config", "default-rules.json")
}
