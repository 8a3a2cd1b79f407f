package topic

import (
	"context"
	"fmt"

	"github.com/veonlok/Your-Search-Wrapped/internal/anthropic"
)

const anthropicFormat = `

Respond with only a JSON object of the form {"labels": ["<label>", ...]} and nothing else.`

// AnthropicClassifier classifies a batch with one Messages API call.
type AnthropicClassifier struct {
	llm *anthropic.Client
}

func NewAnthropicClassifier(llm *anthropic.Client) *AnthropicClassifier {
	return &AnthropicClassifier{llm: llm}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, prompts []string) ([]string, error) {
	messages := []anthropic.Message{
		{Role: "user", Content: numbered(prompts)},
	}

	// Roughly eight tokens per label plus the wrapper.
	resp, err := c.llm.Complete(ctx, instructions()+anthropicFormat, messages, 64+len(prompts)*8)
	if err != nil {
		return nil, fmt.Errorf("anthropic classify: %w", err)
	}

	var out labelBatch
	if err := decodeLabels(resp.Text, &out); err != nil {
		return nil, err
	}
	return out.Labels, nil
}
