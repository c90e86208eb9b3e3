package inference

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// METADATA: Anthropic Provider implementation, mirroring the retrieval
// pack's Anthropic client shape. Dependencies:
// github.com/anthropics/anthropic-sdk-go.
//
// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct{}

// Verify implements Provider.
func (AnthropicProvider) Verify(ctx context.Context, model, apiKey, prompt string) (Result, error) {
	client := sdk.NewClient(option.WithAPIKey(apiKey))

	block := sdk.NewTextBlock(prompt)
	message := sdk.NewUserMessage(block)

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: 512,
		Messages:  []sdk.MessageParam{message},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return Result{}, err
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}

	return parseVerdict(text)
}
