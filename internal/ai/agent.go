package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pantryplanner/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ErrNotConfigured is returned when no OpenAI API key is available.
var ErrNotConfigured = errors.New("household assistant is not configured")

// AssistantReply is the structured answer returned by the model.
type AssistantReply struct {
	Answer           string   `json:"answer" jsonschema:"description=Short practical answer in plain English (2-6 sentences)"`
	ReferencedItems  []string `json:"referenced_items" jsonschema:"description=Item names the answer refers to exactly as they appear in the context"`
	InsufficientData bool     `json:"insufficient_data" jsonschema:"description=True when the context does not contain the data needed to answer"`
}

// Assistant answers household questions from a read-only snapshot.
type Assistant interface {
	Ask(ctx context.Context, question string, snapshot *core.HouseholdSnapshot) (*AssistantReply, error)
}

type Agent struct {
	client *openai.Client
	model  string
}

func NewAgent(apiKey, model string) *Agent {
	if apiKey == "" {
		return &Agent{model: model}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client, model: model}
}

const systemPrompt = `You are a household assistant for a pantry, meal planner and budget app.

You receive a JSON object with these keys:
- "household": the household being asked about.
- "pantry_items": ALL current pantry lots, soonest expiry first.
- "shopping_lists": shopping lists with their items.
- "expenses": household expenses, newest first.

Rules:
1. For questions about items expiring soon, scan the entire pantry_items array and name every item sharing the nearest future expiry_date.
2. Never invent items, dates or amounts that are not present in the JSON.
3. If the JSON does not contain enough information, say so and set insufficient_data.
4. For budget questions use only the provided expenses.
5. Keep answers short and practical.`

func (a *Agent) Ask(ctx context.Context, question string, snapshot *core.HouseholdSnapshot) (*AssistantReply, error) {
	if a.client == nil {
		return nil, ErrNotConfigured
	}

	input, err := buildInput(question, snapshot)
	if err != nil {
		return nil, err
	}

	schemaMap, err := replySchema()
	if err != nil {
		return nil, err
	}

	model := a.model
	if model == "" {
		model = string(shared.ChatModelGPT4oMini)
	}

	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(model),
		Instructions: param.NewOpt(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(input),
		},
		Temperature: param.NewOpt(0.2),
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "household_assistant_reply",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An answer grounded only in the household context"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	return parseReply(resp.OutputText())
}

func buildInput(question string, snapshot *core.HouseholdSnapshot) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is required: %w", core.ErrValidation)
	}
	if snapshot == nil {
		return "", fmt.Errorf("household snapshot is required: %w", core.ErrValidation)
	}
	ctxJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal household context: %w", err)
	}
	return fmt.Sprintf("User question:\n%s\n\nHousehold context as JSON:\n%s", question, ctxJSON), nil
}

func parseReply(content string) (*AssistantReply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty response content")
	}
	var reply AssistantReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	reply.Answer = strings.TrimSpace(reply.Answer)
	if reply.Answer == "" {
		return nil, fmt.Errorf("assistant returned an empty answer")
	}
	if reply.ReferencedItems == nil {
		reply.ReferencedItems = []string{}
	}
	return &reply, nil
}

// replySchema reflects AssistantReply into the map form the Responses API expects.
func replySchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(&AssistantReply{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
