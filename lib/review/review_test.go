package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quadrupleverify/lib/rules"
)

func TestComposeWithoutFindingsReturnsBasePrompt(t *testing.T) {
	out := Compose(nil)
	assert.Contains(t, out, "Completeness")
	assert.Contains(t, out, "Security")
	assert.NotContains(t, out, "Research-sourcing findings")
}

func TestComposeAppendsResearchFindings(t *testing.T) {
	findings := map[string][]rules.Violation{
		"notes/analysis.md": {{RuleID: "research.unsourced-claim", Message: "numeric claim lacks a nearby source"}},
	}
	out := Compose(findings)
	assert.Contains(t, out, "Research-sourcing findings")
	assert.Contains(t, out, "notes/analysis.md")
	assert.Contains(t, out, "numeric claim lacks a nearby source")
}
