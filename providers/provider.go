// Package providers defines the Provider interface and the upstream
// implementations CultureBot can generate answers with: the Hugging Face
// inference API (default) and OpenAI.
package providers

import "context"

// Persona is the instruction prepended to every question before it is sent
// upstream.
const Persona = "You are CultureBot, an expert in world traditions, arts, " +
	"humanities, and cultural practices across different regions and time " +
	"periods. You provide informative, balanced, and educational responses " +
	"about global cultural topics."

// Usage carries token consumption for a generated answer. Providers that do
// not report usage leave it zero.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Answer is a generated answer normalised across providers.
type Answer struct {
	Text     string
	Model    string
	Provider string
	Usage    Usage
}

// Provider generates answers to culture and arts questions.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, question string) (*Answer, error)
}
