package inference

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	result Result
	err    error
	calls  int
}

func (f *fakeProvider) Verify(ctx context.Context, model, apiKey, prompt string) (Result, error) {
	f.calls++
	return f.result, f.err
}

func TestVerifySkipsWhenDisabled(t *testing.T) {
	p := &fakeProvider{}
	r := Verify(p, false, "claude-3", "key", 10, "req", "response")
	assert.True(t, r.Pass)
	assert.True(t, r.Skipped)
	assert.Equal(t, 0, p.calls)
}

func TestVerifySkipsWhenNoProvider(t *testing.T) {
	r := Verify(nil, true, "claude-3", "key", 10, "req", "response")
	assert.True(t, r.Pass)
	assert.True(t, r.Skipped)
}

func TestVerifySkipsWhenBelowMinResponseTokens(t *testing.T) {
	p := &fakeProvider{}
	r := Verify(p, true, "claude-3", "key", 1000, "req", "short")
	assert.True(t, r.Pass)
	assert.True(t, r.Skipped)
	assert.Equal(t, 0, p.calls)
}

func TestVerifyFailsOpenOnProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("network unreachable")}
	r := Verify(p, true, "claude-3", "key", 1, strings.Repeat("x", 10), strings.Repeat("y", 10))
	assert.True(t, r.Pass)
	assert.Contains(t, r.Reasoning, "fail-open")
}

func TestVerifyReturnsProviderResultOnSuccess(t *testing.T) {
	p := &fakeProvider{result: Result{Pass: false, Reasoning: "response ignores part of the request"}}
	r := Verify(p, true, "claude-3", "key", 1, strings.Repeat("x", 10), strings.Repeat("y", 10))
	assert.False(t, r.Pass)
	assert.Equal(t, "response ignores part of the request", r.Reasoning)
	assert.Equal(t, 1, p.calls)
}

func TestParseVerdictExtractsJSONAmidProse(t *testing.T) {
	r, err := parseVerdict("Sure, here's my verdict: {\"pass\": true, \"reasoning\": \"looks complete\"} thanks!")
	assert.NoError(t, err)
	assert.True(t, r.Pass)
	assert.Equal(t, "looks complete", r.Reasoning)
}

func TestParseVerdictNoJSONErrors(t *testing.T) {
	_, err := parseVerdict("no json here at all")
	assert.Error(t, err)
}

func TestBuildPromptTruncatesExcerpts(t *testing.T) {
	longReq := strings.Repeat("a", 1000)
	longResp := strings.Repeat("b", 3000)
	prompt := buildPrompt(longReq, longResp)
	assert.NotContains(t, prompt, strings.Repeat("a", requestExcerptLimit+1))
	assert.NotContains(t, prompt, strings.Repeat("b", responseExcerptLimit+1))
}
