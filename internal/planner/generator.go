package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jtully/wayfarer/backend/internal/domain"
)

// Generator is the injectable text-generation capability. Tests substitute a
// deterministic stub; production wires the OpenAI-backed implementation.
type Generator interface {
	// Generate sends the prompt to the generation service and returns its raw
	// text reply. Returns domain.ErrGenerationUnavailable when the service
	// cannot be reached or errors, and domain.ErrGenerationEmpty when it
	// replies with no text. No retries are performed.
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator calls the OpenAI chat completions API with a single
// user-role message and surfaces the first choice's content verbatim.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator constructs a Generator backed by the OpenAI API.
// model is a chat model name, e.g. "gpt-4o-mini".
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate performs one chat completion round-trip. A deployment may bound it
// with a context deadline; cancellation surfaces as ErrGenerationUnavailable.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("planner.OpenAIGenerator.Generate: %w: %v", domain.ErrGenerationUnavailable, err)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("planner.OpenAIGenerator.Generate: %w", domain.ErrGenerationEmpty)
	}

	return completion.Choices[0].Message.Content, nil
}
