package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements the Provider interface with the OpenAI chat
// completions API via the official SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
	name   string
}

// NewOpenAI creates an OpenAI provider. The optional baseURL parameter
// overrides the API endpoint (pass "" for the default); model defaults to
// DefaultOpenAIModel when empty.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		name:   "openai",
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return p.name }

// Model returns the model identifier answers are generated with.
func (p *OpenAIProvider) Model() string { return p.model }

// Generate sends the question as a chat completion with the CultureBot
// persona as the system message.
func (p *OpenAIProvider) Generate(ctx context.Context, question string) (*Answer, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(Persona),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(0.7),
		TopP:        openai.Float(0.95),
		MaxTokens:   openai.Int(512),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai completion returned no choices")
	}

	return &Answer{
		Text:     completion.Choices[0].Message.Content,
		Model:    completion.Model,
		Provider: p.name,
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}
