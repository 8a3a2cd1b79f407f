package topic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const classifyInstructions = `You label user prompts sent to an AI assistant by topic.

Each input line is "<index>. <prompt>". Return exactly one label per prompt, in input order, chosen from:
%s

Pick the single best label. Use "General Knowledge" when nothing else fits.`

type labelBatch struct {
	Labels []string `json:"labels" jsonschema:"required,description=One topic label per prompt in input order"`
}

// OpenAIClassifier classifies a batch with one Responses API call.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	schema map[string]any
}

// NewOpenAIClassifier builds a classifier. Extra options are passed to the SDK client.
func NewOpenAIClassifier(apiKey, model string, opts ...option.RequestOption) (*OpenAIClassifier, error) {
	schema, err := labelSchema()
	if err != nil {
		return nil, err
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIClassifier{client: &client, model: model, schema: schema}, nil
}

func (c *OpenAIClassifier) Classify(ctx context.Context, prompts []string) ([]string, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "TopicLabels",
			Schema:      c.schema,
			Strict:      openai.Bool(true),
			Description: openai.String("Topic label per prompt"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions()),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(numbered(prompts), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai classify: %w", err)
	}

	var out labelBatch
	if err := decodeLabels(resp.OutputText(), &out); err != nil {
		return nil, err
	}
	return out.Labels, nil
}

func instructions() string {
	return fmt.Sprintf(classifyInstructions, "- "+strings.Join(Labels, "\n- "))
}

func numbered(prompts []string) string {
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ReplaceAll(p, "\n", " "))
	}
	return b.String()
}

// decodeLabels accepts either {"labels":[...]} or a bare JSON array, optionally fenced.
func decodeLabels(raw string, out *labelBatch) error {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &out.Labels); err != nil {
			return fmt.Errorf("parse labels: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse labels: %w", err)
	}
	return nil
}

func labelSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	b, err := reflector.Reflect(&labelBatch{}).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("reflect label schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(b, &schema); err != nil {
		return nil, fmt.Errorf("decode label schema: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	strictObject(schema)

	if props, ok := schema["properties"].(map[string]any); ok {
		if labels, ok := props["labels"].(map[string]any); ok {
			if items, ok := labels["items"].(map[string]any); ok {
				enum := make([]any, len(Labels))
				for i, l := range Labels {
					enum[i] = l
				}
				items["enum"] = enum
			}
		}
	}
	return schema, nil
}

// strictObject marks every object closed with all properties required.
func strictObject(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			schema["required"] = required
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				strictObject(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		strictObject(items)
	}
}
