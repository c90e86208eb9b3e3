package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCPreservesLength(t *testing.T) {
	content := "const x = 1; // eval() is mentioned here\nconst y = `eval(${x})`;\n"
	stripped := Strip(content, FamilyC)
	require.Equal(t, len(content), len(stripped))
	assert.NotContains(t, stripped, "eval")
}

func TestStripIndentationHandlesTripleQuotes(t *testing.T) {
	content := "x = 1\n\"\"\"\neval() mentioned in docstring\n\"\"\"\ny = 2 # eval() in comment\n"
	stripped := Strip(content, FamilyIndentation)
	require.Equal(t, len(content), len(stripped))
	assert.Contains(t, stripped, "x = 1")
	assert.Contains(t, stripped, "y = 2")
}

func TestIsInCommentOrString(t *testing.T) {
	content := `const msg = "eval(x) is dangerous";`
	idx := indexOf(content, "eval")
	assert.True(t, IsInCommentOrString(content, idx, ".js"))
}

func TestIsInCommentOrStringFalseForRealCode(t *testing.T) {
	content := `eval(userInput);`
	assert.False(t, IsInCommentOrString(content, 0, ".js"))
}

func TestFamilyNoneBypassesAnalysis(t *testing.T) {
	content := `eval("x")`
	assert.False(t, IsInCommentOrString(content, 0, ".go"))
	assert.Equal(t, content, Strip(content, FamilyForExt(".go")))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
