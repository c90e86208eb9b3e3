// METADATA
//
// Package inference - Optional Second-Opinion Verifier
//
// For the structure this comment follows, see this repository's 4-block
// convention: Purpose & Function, Core Design, Key Features, Dependencies.
//
// Component Type: LIBRARY - optional LLM round-trip with fail-open default
// Role: Asks a configured model provider whether a request/response pair
// looks right, and never lets that network call become a blocking failure
//
// Purpose & Function
//
// Purpose: An optional, opt-in second opinion on a completed exchange -
// truncates the request and response to a fixed excerpt length, asks the
// configured provider for a verdict, and parses that verdict back out of
// the response text.
//
// Core Design: Strictly opt-in and fail-open - any network error, parse
// failure, or non-2xx status degrades to {pass: true, skipped: false} with
// a reasoning string beginning "fail-open: " that names the cause. This
// call is never on the path that can block a tool call; it only ever
// contributes a log-only audit entry.
//
// Key Features:
//   - Provider interface with Anthropic and OpenAI-compatible
//     implementations, selected by model name prefix
//   - Excerpt truncation keeps the round trip bounded regardless of
//     request/response size
//   - parseVerdict tolerates a JSON object embedded in surrounding prose
//
// Dependencies: context and encoding/json from the standard library for
// the round trip and verdict parsing; golang.org/x/time/rate for call
// throttling; the Anthropic and OpenAI Go SDKs for the provider calls.
//
// Grounded in the retrieval pack's fail-open LLM round-trip pattern
// (context-with-timeout plus fail-to-a-safe-default over a single model
// call), adapted here to a pass/fail verdict instead of a free-form
// evaluation.
package inference

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"quadrupleverify/lib/diagnostics"

	"go.uber.org/zap"
)

const (
	requestExcerptLimit  = 500
	responseExcerptLimit = 2000
	callTimeout          = 10 * time.Second
)

// Result is the Cycle-5 verdict. Pass is always true when the call could
// not complete; Reasoning then names the failure cause.
type Result struct {
	Pass      bool   `json:"pass"`
	Skipped   bool   `json:"skipped"`
	Reasoning string `json:"reasoning"`
}

// Provider performs one verification round trip against a specific model
// backend.
type Provider interface {
	Verify(ctx context.Context, model, apiKey, prompt string) (Result, error)
}

// limiter bounds Cycle-5 calls to one per second with a burst of 2,
// preventing a pathological sequence of large responses from hammering the
// configured endpoint. Grounded in the rate-limited external-call idiom
// shown across the pack's network clients.
var limiter = rate.NewLimiter(rate.Limit(1), 2)

// Verify runs the Cycle-5 check when enabled and response exceeds
// minResponseTokens (estimated by the same heuristic lib/budget uses). It
// always returns a Result; it never returns an error to the caller, since
// every failure mode is defined to fail open.
func Verify(provider Provider, enabled bool, model, apiKey string, minResponseTokens int, request, response string) Result {
	if !enabled {
		return Result{Pass: true, Skipped: true, Reasoning: "cycle5 disabled"}
	}
	if provider == nil {
		return Result{Pass: true, Skipped: true, Reasoning: "no provider configured"}
	}
	if estimateTokens(response) <= minResponseTokens {
		return Result{Pass: true, Skipped: true, Reasoning: "response does not exceed minResponseTokens"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		return Result{Pass: true, Reasoning: "fail-open: rate limiter wait failed: " + err.Error()}
	}

	prompt := buildPrompt(request, response)
	result, err := provider.Verify(ctx, model, apiKey, prompt)
	if err != nil {
		diagnostics.Warn("cycle5 inference call failed, failing open", zap.Error(err))
		return Result{Pass: true, Reasoning: "fail-open: " + err.Error()}
	}
	return result
}

func estimateTokens(s string) int {
	return (len(s) + 3) / 4
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func buildPrompt(request, response string) string {
	var b strings.Builder
	b.WriteString("Request excerpt:\n")
	b.WriteString(truncate(request, requestExcerptLimit))
	b.WriteString("\n\nResponse excerpt:\n")
	b.WriteString(truncate(response, responseExcerptLimit))
	b.WriteString("\n\nDoes the response satisfy the request? Reply with JSON: {\"pass\": bool, \"reasoning\": string}.")
	return b.String()
}

// parseVerdict parses a {"pass":bool,"reasoning":string} JSON document from
// a model's raw text reply, tolerating surrounding prose by locating the
// first '{' and last '}'.
func parseVerdict(text string) (Result, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return Result{}, errNoJSON
	}
	var r Result
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return Result{}, err
	}
	return r, nil
}

var errNoJSON = jsonShapeError("model reply contained no JSON object")

type jsonShapeError string

func (e jsonShapeError) Error() string { return string(e) }
