package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// METADATA: Cycle-4 research-sourcing rules. Operate over Markdown research
// artifacts and require a proximity check ("nearby" = within ±300
// characters) rather than a simple per-rule pattern match, so they run
// through a dedicated function instead of the generic Rule/Evaluate path.

const nearbyWindow = 300

var (
	numericClaimPattern = regexp.MustCompile(`\b\d+(\.\d+)?%`)
	vagueQuantifier      = regexp.MustCompile(`(?i)\b(many|most|significant|leading)\b`)
	institutionPattern   = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(\s[A-Z][a-zA-Z]+)*\s(Institute|University|Foundation|Corporation|Laboratory|Lab))\b`)
	yearPattern          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	currencyPattern      = regexp.MustCompile(`\$\s?\d[\d,]*(\.\d+)?\s?(million|billion|trillion|M|B)?`)

	sourceNearbyPattern = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)|https?://\S+|\[(Source|Ref|Verified):`)
)

// researchChecks pairs a claim pattern with the violation it produces when
// unsourced.
var researchChecks = []struct {
	pattern *regexp.Regexp
	id      string
	message string
}{
	{numericClaimPattern, "research.unsourced-numeric-claim", "numeric claim has no nearby source"},
	{vagueQuantifier, "research.vague-quantifier", "vague quantifier used without a nearby source"},
	{institutionPattern, "research.unsourced-institution", "institution or organization named without a nearby source"},
	{yearPattern, "research.unsourced-year", "year reference has no nearby citation"},
	{currencyPattern, "research.unsourced-currency", "currency amount has no nearby citation"},
}

// EvaluateResearch scans content (a Markdown research artifact) for claims
// that lack a nearby source, applying the Cycle-4 rule set. Violations are
// returned in check-declaration order, all at warn severity, so any
// returned violation makes the pre-tool hook block the research write.
func EvaluateResearch(content string) []Violation {
	var out []Violation
	for _, check := range researchChecks {
		locs := check.pattern.FindAllStringIndex(content, -1)
		for _, loc := range locs {
			if hasNearbySource(content, loc[0]) {
				continue
			}
			out = append(out, Violation{
				RuleID:      check.id,
				Cycle:       Cycle4,
				Priority:    PriorityDefault,
				Severity:    SeverityWarn,
				Code:        check.id,
				Remediation: "add a markdown link, bare URL, or [Source:/Ref:/Verified:] tag near the claim",
				Message:     fmt.Sprintf("%s: %s", check.id, check.message),
			})
		}
	}
	return out
}

func hasNearbySource(content string, pos int) bool {
	start := pos - nearbyWindow
	if start < 0 {
		start = 0
	}
	end := pos + nearbyWindow
	if end > len(content) {
		end = len(content)
	}
	return sourceNearbyPattern.MatchString(content[start:end])
}

// IsResearchPath reports whether filePath matches the research-artifact
// path heuristic: a Markdown file under a docs/research-like directory.
func IsResearchPath(filePath string) bool {
	if !strings.HasSuffix(strings.ToLower(filePath), ".md") {
		return false
	}
	lower := strings.ToLower(filePath)
	return strings.Contains(lower, "docs/research/") || strings.Contains(lower, "research/")
}
