package rules

import "regexp"

// METADATA: Cycle-2 security rules, all at critical priority. Patterns
// follow the same dangerous-operation table built at init used throughout
// this package.
func init() {
	register(
		Rule{
			ID:           "security.no-eval",
			Cycle:        Cycle2,
			Pattern:      regexp.MustCompile(`\beval\s*\(`),
			AppliesTo:    ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:     PriorityCritical,
			Severity:     SeverityCritical,
			Code:         "security.no-eval",
			Message:      "no-eval: dynamic code evaluation is a code-injection vector",
			Remediation:  "replace eval with a safe parser or explicit dispatch table",
			ContextAware: true,
		},
		Rule{
			ID:          "security.no-exec",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\bexec\s*\(`),
			AppliesTo:   ContextFileWrite,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.no-exec",
			Message:     "dynamic exec of generated code is a code-injection vector",
			Remediation: "avoid exec; use a safe, explicit alternative",
			ContextAware: true,
		},
		Rule{
			ID:          "security.shell-invocation",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\b(child_process|subprocess|os\.system)\b`),
			AppliesTo:   ContextFileWrite,
			Priority:    PriorityCritical,
			Severity:    SeverityWarn,
			Code:        "security.shell-invocation",
			Message:     "invokes a subprocess/shell from application code",
			Remediation: "validate and escape all inputs reaching the shell, or avoid shelling out",
		},
		Rule{
			ID:          "security.shell-true",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`shell\s*=\s*True`),
			AppliesTo:   ContextFileWrite,
			FileExtensions: pyFamilyExts,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.shell-true",
			Message:     "subprocess call with shell=True is a command-injection vector",
			Remediation: "pass the command as an argument list with shell=False",
		},
		Rule{
			ID:          "security.hardcoded-secret",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*['"][A-Za-z0-9_\-/+=]{8,}['"]`),
			AppliesTo:   ContextFileWrite,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.hardcoded-secret",
			Message:     "hardcoded credential literal",
			Remediation: "move the credential to an environment variable or secret store",
		},
		Rule{
			ID:          "security.sql-concatenation",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\b[^;\n]{0,200}(\+\s*[A-Za-z_]|\$\{)`),
			AppliesTo:   ContextFileWrite,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.sql-concatenation",
			Message:     "raw SQL built by string concatenation or interpolation",
			Remediation: "use a parameterized query or prepared statement",
		},
		Rule{
			ID:          "security.unsafe-dom-sink",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\.(innerHTML|outerHTML)\s*=|insertAdjacentHTML\s*\(`),
			AppliesTo:   ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.unsafe-dom-sink",
			Message:     "assigns untrusted content to an HTML sink, a cross-site-scripting vector",
			Remediation: "sanitize the content or use a text-only assignment (textContent)",
			ContextAware: true,
		},
		Rule{
			ID:          "security.destructive-root-delete",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\brm\s+(-\w*r\w*f\w*|-\w*f\w*r\w*)\s+(/|~|\$HOME)\b`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.destructive-root-delete",
			Message:     "recursive delete targeting the filesystem root or home directory",
			Remediation: "scope the delete to a specific project-relative path",
		},
		Rule{
			ID:          "security.world-writable",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\bchmod\s+(-R\s+)?0?777\b`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityWarn,
			Code:        "security.world-writable",
			Message:     "grants world-writable permissions",
			Remediation: "use the narrowest permission bits that the use case requires",
		},
		Rule{
			ID:          "security.no-curl-pipe-sh",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\b(curl|wget)\b[^\n|]*\|\s*(sudo\s+)?(sh|bash|zsh)\b`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.no-curl-pipe-sh",
			Message:     "no-curl-pipe-sh: pipes a downloaded script directly into a shell",
			Remediation: "download the script, inspect it, then execute it explicitly",
		},
		Rule{
			ID:          "security.insecure-http",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`http://(?!localhost|127\.0\.0\.1|0\.0\.0\.0)\S+`),
			AppliesTo:   ContextFileWrite,
			Priority:    PriorityCritical,
			Severity:    SeverityWarn,
			Code:        "security.insecure-http",
			Message:     "plaintext HTTP URL to a non-loopback host",
			Remediation: "use HTTPS",
			ContextAware: true,
		},
		Rule{
			ID:          "security.system-prompt-leak",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`(?i)console\.(log|error|warn|info)\s*\([^)]*system[_ ]?prompt`),
			AppliesTo:   ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:    PriorityCritical,
			Severity:    SeverityWarn,
			Code:        "security.system-prompt-leak",
			Message:     "logs content that appears to include the system prompt",
			Remediation: "remove the system prompt from logged output",
		},
		Rule{
			ID:          "security.base64-exfiltration",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`base64\b[^\n]{0,80}\|\s*(curl|nc|wget)\b`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.base64-exfiltration",
			Message:     "base64-encodes data and pipes it to a network tool, a common exfiltration shape",
			Remediation: "do not pipe encoded local data directly to a network command",
		},
		Rule{
			ID:          "security.environment-dump",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\b(env|printenv)\b\s*(\||>)`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityWarn,
			Code:        "security.environment-dump",
			Message:     "dumps the environment to a file or pipe, which may capture secrets",
			Remediation: "dump only the specific variables needed",
		},
		Rule{
			ID:          "security.data-exfil-upload",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\bcurl\b[^\n]*-F\b[^\n]*@`),
			AppliesTo:   ContextBash,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.data-exfil-upload",
			Message:     "uploads a local file to a remote endpoint via curl -F",
			Remediation: "confirm the destination is trusted before uploading local files",
		},
		Rule{
			ID:          "security.pickle-deserialization",
			Cycle:       Cycle2,
			Pattern:     regexp.MustCompile(`\bpickle\.loads?\s*\(`),
			AppliesTo:   ContextFileWrite,
			FileExtensions: pyFamilyExts,
			Priority:    PriorityCritical,
			Severity:    SeverityCritical,
			Code:        "security.pickle-deserialization",
			Message:     "deserializes with pickle, which can execute arbitrary code for untrusted input",
			Remediation: "use a safe serialization format such as JSON for untrusted data",
			ContextAware: true,
		},
	)
}
