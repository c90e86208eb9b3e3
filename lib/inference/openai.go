package inference

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// METADATA: OpenAI-compatible Provider implementation, selected as the
// alternate second-opinion backend when the configured model name doesn't
// match the Anthropic prefix. Dependencies: github.com/openai/openai-go.
//
// OpenAIProvider calls an OpenAI-compatible chat-completions endpoint.
type OpenAIProvider struct{}

// Verify implements Provider.
func (OpenAIProvider) Verify(ctx context.Context, model, apiKey, prompt string) (Result, error) {
	client := openai.NewClient(option.WithAPIKey(apiKey))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return Result{}, err
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return parseVerdict(text)
}

// SelectProvider picks the Cycle-5 provider by model name prefix, per
// DESIGN.md's Open Question decision: claude-* models use Anthropic,
// everything else uses the OpenAI-compatible client.
func SelectProvider(model string) Provider {
	if len(model) >= 7 && model[:7] == "claude-" {
		return AnthropicProvider{}
	}
	return OpenAIProvider{}
}
