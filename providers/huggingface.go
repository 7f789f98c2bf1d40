package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultHFModel is the hosted model CultureBot asks by default.
const DefaultHFModel = "mistralai/Mistral-7B-Instruct"

// HuggingFaceProvider implements the Provider interface against the Hugging
// Face hosted inference API.
type HuggingFaceProvider struct {
	httpClient *http.Client
	token      string
	baseURL    string
	model      string
	name       string
}

// NewHuggingFace creates a Hugging Face provider. The optional baseURL
// parameter overrides the API endpoint (pass "" for the default); model
// defaults to DefaultHFModel when empty.
func NewHuggingFace(token, baseURL, model string) (*HuggingFaceProvider, error) {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if model == "" {
		model = DefaultHFModel
	}

	return &HuggingFaceProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		token:      token,
		baseURL:    baseURL,
		model:      model,
		name:       "huggingface",
	}, nil
}

// Name returns the provider identifier.
func (p *HuggingFaceProvider) Name() string { return p.name }

// Model returns the model identifier answers are generated with.
func (p *HuggingFaceProvider) Model() string { return p.model }

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Generate formats the persona prompt, calls the inference API, and extracts
// the answer portion of the generated text.
func (p *HuggingFaceProvider) Generate(ctx context.Context, question string) (*Answer, error) {
	prompt := fmt.Sprintf("%s\n\nQ: %s\nA:", Persona, question)

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: 512,
			Temperature:  0.7,
			TopP:         0.95,
			DoSample:     true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/models/"+p.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.token)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var generations []hfGeneration
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(generations) == 0 || generations[0].GeneratedText == "" {
		return nil, fmt.Errorf("unexpected huggingface API response: %s", string(respBody))
	}

	return &Answer{
		Text:     extractAnswer(generations[0].GeneratedText),
		Model:    p.model,
		Provider: p.name,
	}, nil
}

// extractAnswer strips the echoed prompt: the API returns the full generated
// text including the "A:" marker, so the answer is everything after the first
// occurrence. Text without the marker is returned trimmed as-is.
func extractAnswer(generated string) string {
	if _, after, ok := strings.Cut(generated, "A:"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(generated)
}
