package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/harukit/ideaspark/pkg/model"
)

// Gemini is the interface for the generative text backend
type Gemini interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*geminiConfig)

type geminiConfig struct {
	model    string
	apiKey   string
	project  string
	location string
	baseURL  string
}

// WithGenerativeModel overrides the default generation model
func WithGenerativeModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		c.model = model
	}
}

// WithAPIKey selects the Gemini API backend instead of Vertex AI
func WithAPIKey(key string) GeminiOption {
	return func(c *geminiConfig) {
		c.apiKey = key
	}
}

// WithVertex selects the Vertex AI backend for the given project
func WithVertex(projectID, location string) GeminiOption {
	return func(c *geminiConfig) {
		c.project = projectID
		c.location = location
	}
}

// WithBaseURL overrides the API endpoint, e.g. for a regional endpoint
// or a local fake during tests
func WithBaseURL(url string) GeminiOption {
	return func(c *geminiConfig) {
		c.baseURL = url
	}
}

func NewGemini(ctx context.Context, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := &geminiConfig{
		model:    "gemini-2.5-flash",
		location: "us-central1",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientConfig := &genai.ClientConfig{}
	switch {
	case cfg.apiKey != "":
		clientConfig.APIKey = cfg.apiKey
		clientConfig.Backend = genai.BackendGeminiAPI
	case cfg.project != "":
		clientConfig.Project = cfg.project
		clientConfig.Location = cfg.location
		clientConfig.Backend = genai.BackendVertexAI
	default:
		return nil, goerr.New("either API key or project ID is required")
	}

	if cfg.baseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.baseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{
		client:          client,
		generativeModel: cfg.model,
	}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content")
	}
	return resp, nil
}

// ResponseText extracts the candidate text from a generation response
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", model.ErrNoCandidates
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", model.ErrNoCandidates
	}

	return text, nil
}
