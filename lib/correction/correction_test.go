package correction

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"quadrupleverify/lib/behavior"
)

func TestHintFormatsRuleAndRemediation(t *testing.T) {
	assert.Equal(t, "[security.no-eval] avoid eval() on untrusted input", Hint("security.no-eval", "avoid eval() on untrusted input"))
}

func TestHintsNumbersEachLine(t *testing.T) {
	out := Hints([]string{"a", "b"}, []string{"fix a", "fix b"})
	assert.Equal(t, "1. [a] fix a\n2. [b] fix b", out)
}

func TestNoEscalationBeforeThreshold(t *testing.T) {
	s := behavior.Empty()
	assert.Equal(t, "", RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 1000))
	assert.Equal(t, "", RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 2000))
}

func TestEscalationAtThirdAttempt(t *testing.T) {
	s := behavior.Empty()
	RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 1000)
	RecordAndBuildEscalation(s, "a.go", []string{"security.no-exec"}, 2000)
	msg := RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 3000)
	assert.Contains(t, msg, "blocked 3 times")
	assert.Contains(t, msg, "security.no-eval")
	assert.Contains(t, msg, "security.no-exec")
}

func TestEscalationUnionDoesNotDuplicateRuleIDs(t *testing.T) {
	s := behavior.Empty()
	RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 1000)
	RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 2000)
	msg := RecordAndBuildEscalation(s, "a.go", []string{"security.no-eval"}, 3000)
	assert.Equal(t, 1, countOccurrences(msg, "security.no-eval"))
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}

// TestEscalationThresholdProperty verifies that escalation text appears
// starting at exactly the 3rd consecutive blocked attempt against the
// same path, never earlier, regardless of path name or rule id.
func TestEscalationThresholdProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("escalation fires at attempt 3, not before", prop.ForAll(
		func(path, ruleID string) bool {
			s := behavior.Empty()
			first := RecordAndBuildEscalation(s, path, []string{ruleID}, 1000)
			second := RecordAndBuildEscalation(s, path, []string{ruleID}, 2000)
			third := RecordAndBuildEscalation(s, path, []string{ruleID}, 3000)
			return first == "" && second == "" && third != ""
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
