package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDisabledAlwaysStandard(t *testing.T) {
	assert.Equal(t, Standard, Classify(false, "Bash", "rm -rf /", ""))
}

func TestClassifySensitiveBashIsStrict(t *testing.T) {
	assert.Equal(t, Strict, Classify(true, "Bash", "cat /etc/shadow", ""))
}

func TestClassifyShortSimpleBashIsLight(t *testing.T) {
	assert.Equal(t, Light, Classify(true, "Bash", "ls -la", ""))
}

func TestClassifyPipedBashIsStandard(t *testing.T) {
	assert.Equal(t, Standard, Classify(true, "Bash", "cat a.txt | grep foo", ""))
}

func TestClassifyShortWriteIsLight(t *testing.T) {
	assert.Equal(t, Light, Classify(true, "Write", "", "short content"))
}

func TestClassifyLongWriteIsStandard(t *testing.T) {
	content := make([]byte, 500)
	assert.Equal(t, Standard, Classify(true, "Write", "", string(content)))
}

func TestClassifyMCPToolIsStandard(t *testing.T) {
	assert.Equal(t, Standard, Classify(true, "mcp__server__tool", "", ""))
}

func TestOnlyCriticalAndClearsDisabled(t *testing.T) {
	assert.True(t, Light.OnlyCritical())
	assert.False(t, Standard.OnlyCritical())
	assert.True(t, Strict.ClearsDisabled())
	assert.False(t, Standard.ClearsDisabled())
}
