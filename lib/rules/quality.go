package rules

import "regexp"

// METADATA: Cycle-1 quality rules (placeholder/stub/deferred-work markers),
// targeting fileWrite content. Uses the same dangerous-pattern table idiom
// as the security rules, retargeted at incompleteness markers instead of
// dangerous commands.
func init() {
	register(
		Rule{
			ID:        "quality.deferred-work-marker",
			Cycle:     Cycle1,
			Pattern:   regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX)\b`),
			AppliesTo: ContextFileWrite,
			Priority:  PriorityDefault,
			Severity:  SeverityInfo,
			Code:      "quality.deferred-work-marker",
			Message:   "deferred-work marker left in committed content",
			Remediation: "resolve the marker or explain why the work is intentionally deferred",
		},
		Rule{
			ID:             "quality.no-empty-pass",
			Cycle:          Cycle1,
			Pattern:        regexp.MustCompile(`(?m)^\s*pass\s*$`),
			AppliesTo:      ContextFileWrite,
			FileExtensions: pyFamilyExts,
			Priority:       PriorityDefault,
			Severity:       SeverityWarn,
			Code:           "quality.no-empty-pass",
			Message:        "no-empty-pass: placeholder pass statement left in place of an implementation",
			Remediation:    "implement the body instead of leaving a bare pass",
		},
		Rule{
			ID:        "quality.not-implemented",
			Cycle:     Cycle1,
			Pattern:   regexp.MustCompile(`(?i)not[\s_-]?implemented`),
			AppliesTo: ContextFileWrite,
			Priority:  PriorityDefault,
			Severity:  SeverityWarn,
			Code:      "quality.not-implemented",
			Message:   "raises or states that functionality is not implemented",
			Remediation: "implement the functionality rather than raising a not-implemented error",
		},
		Rule{
			ID:             "quality.ellipsis-placeholder",
			Cycle:          Cycle1,
			Pattern:        regexp.MustCompile(`(?m)^\s*\.\.\.\s*$`),
			AppliesTo:      ContextFileWrite,
			FileExtensions: pyFamilyExts,
			Priority:       PriorityDefault,
			Severity:       SeverityWarn,
			Code:           "quality.ellipsis-placeholder",
			Message:        "ellipsis used as a placeholder body",
			Remediation:    "replace the ellipsis with a real implementation",
		},
		Rule{
			ID:        "quality.stub-text",
			Cycle:     Cycle1,
			Pattern:   regexp.MustCompile(`(?i)\bstub\b`),
			AppliesTo: ContextFileWrite,
			Priority:  PriorityDefault,
			Severity:  SeverityInfo,
			Code:      "quality.stub-text",
			Message:   "content is marked as a stub",
			Remediation: "finish the implementation before committing it",
		},
		Rule{
			ID:             "quality.throw-not-implemented",
			Cycle:          Cycle1,
			Pattern:        regexp.MustCompile(`throw\s+new\s+Error\(\s*['"][^'"]*not\s*implemented[^'"]*['"]\s*\)`),
			AppliesTo:      ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:       PriorityDefault,
			Severity:       SeverityWarn,
			Code:           "quality.throw-not-implemented",
			Message:        "throws a not-implemented error instead of a real implementation",
			Remediation:    "implement the function body",
		},
		Rule{
			ID:           "quality.empty-catch",
			Cycle:        Cycle1,
			Pattern:      regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`),
			AppliesTo:    ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:     PriorityDefault,
			Severity:     SeverityWarn,
			Code:         "quality.empty-catch",
			Message:      "empty catch block silently swallows the error",
			Remediation:  "handle or rethrow the error instead of swallowing it",
			ContextAware: true,
		},
		Rule{
			ID:             "quality.bare-except",
			Cycle:          Cycle1,
			Pattern:        regexp.MustCompile(`(?m)^\s*except\s*:\s*$`),
			AppliesTo:      ContextFileWrite,
			FileExtensions: pyFamilyExts,
			Priority:       PriorityDefault,
			Severity:       SeverityWarn,
			Code:           "quality.bare-except",
			Message:        "bare except clause catches every exception type",
			Remediation:    "catch a specific exception type",
		},
		Rule{
			ID:           "quality.catch-only-logs",
			Cycle:        Cycle1,
			Pattern:      regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*console\.(log|error|warn)\([^;]*\)\s*;?\s*\}`),
			AppliesTo:    ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:     PriorityDefault,
			Severity:     SeverityInfo,
			Code:         "quality.catch-only-logs",
			Message:      "catch block only logs the error and takes no recovery action",
			Remediation:  "recover, rethrow, or surface the error to the caller, not just log it",
			ContextAware: true,
		},
		Rule{
			ID:           "quality.empty-function-body",
			Cycle:        Cycle1,
			Pattern:      regexp.MustCompile(`function\s+\w+\s*\([^)]*\)\s*\{\s*\}`),
			AppliesTo:    ContextFileWrite,
			FileExtensions: cFamilyExts,
			Priority:     PriorityDefault,
			Severity:     SeverityInfo,
			Code:         "quality.empty-function-body",
			Message:      "function body is empty",
			Remediation:  "implement the function or remove it",
			ContextAware: true,
		},
		Rule{
			ID:              "quality.any-type",
			Cycle:           Cycle1,
			Pattern:         regexp.MustCompile(`:\s*any\b`),
			AppliesTo:       ContextFileWrite,
			FileExtensions:  extSet(".ts", ".tsx"),
			Priority:        PriorityDefault,
			Severity:        SeverityInfo,
			Code:            "quality.any-type",
			Message:         "explicit any type defeats static checking",
			Remediation:     "use a concrete type or a generic parameter instead of any",
			DefaultDisabled: true,
		},
	)
}
