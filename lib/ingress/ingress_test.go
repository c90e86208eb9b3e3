package ingress

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseEventEmptyInputFails(t *testing.T) {
	_, ok := ParseEvent(strings.NewReader(""))
	assert.False(t, ok)
}

func TestParseEventMalformedJSONFails(t *testing.T) {
	_, ok := ParseEvent(strings.NewReader("{not json"))
	assert.False(t, ok)
}

func TestParseEventWellFormed(t *testing.T) {
	body := `{"hook_point":"pre-tool","tool_name":"Bash","tool_input":{"command":"ls"},"session_id":"s1","cwd":"/tmp"}`
	e, ok := ParseEvent(strings.NewReader(body))
	assert.True(t, ok)
	assert.Equal(t, PreTool, e.HookPoint)
	assert.Equal(t, "Bash", e.ToolName)
	assert.Equal(t, "s1", e.SessionID)
}

func TestExtractWrite(t *testing.T) {
	out := Extract("Write", map[string]any{"content": "hello", "file_path": "a.go"})
	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, "a.go", out.FilePath)
}

func TestExtractEdit(t *testing.T) {
	out := Extract("Edit", map[string]any{"new_string": "updated", "file_path": "b.go"})
	assert.Equal(t, "updated", out.Content)
}

func TestExtractBash(t *testing.T) {
	out := Extract("Bash", map[string]any{"command": "rm -rf /tmp/x"})
	assert.Equal(t, "rm -rf /tmp/x", out.Content)
}

func TestExtractWebFetchPrefersURL(t *testing.T) {
	out := Extract("WebFetch", map[string]any{"url": "https://example.com", "query": "ignored"})
	assert.Equal(t, "https://example.com", out.Content)
}

func TestExtractUnknownToolIsEmpty(t *testing.T) {
	out := Extract("SomeOtherTool", map[string]any{"x": "y"})
	assert.Equal(t, ExtractedContent{}, out)
}

func TestSuperviseRecoversPanic(t *testing.T) {
	d := Supervise(func() Decision {
		panic("boom")
	})
	assert.Equal(t, Approve(), d)
}

func TestEmitWritesValidJSON(t *testing.T) {
	var buf bytes.Buffer
	Emit(&buf, Block("reason text"))
	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "block", decoded["decision"])
	assert.Equal(t, "reason text", decoded["reason"])
}

// TestFailOpenUniversalityProperty verifies that no matter what panics
// inside the hook's decision logic, Supervise always degrades to
// Approve() rather than letting the panic escape — the process must
// always be able to emit a well-formed envelope and exit cleanly.
func TestFailOpenUniversalityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("any panic during hook logic degrades to approve", prop.ForAll(
		func(panicValue string) bool {
			d := Supervise(func() Decision {
				if panicValue != "" {
					panic(panicValue)
				}
				return Block("should not reach here if panicValue is non-empty")
			})
			if panicValue == "" {
				return d.Decision == "block"
			}
			return d == Approve()
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestParseEventNeverPanicsProperty feeds arbitrary strings through
// ParseEvent and asserts it never panics — part of the same fail-open
// guarantee at the input boundary.
func TestParseEventNeverPanicsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("arbitrary input never panics ParseEvent", prop.ForAll(
		func(s string) bool {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("ParseEvent panicked: %v", r)
				}
			}()
			ParseEvent(strings.NewReader(s))
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
