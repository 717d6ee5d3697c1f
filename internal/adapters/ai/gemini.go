package ai

import (
	"context"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"strategist/internal/metrics"
	"strategist/pkg/errors"
)

// Ensure GeminiProvider implements ChatProvider
var _ ChatProvider = (*GeminiProvider)(nil)

// GeminiProvider wraps the Google genai SDK. Structured output is
// enforced through response schemas, so specialist completions come
// back as parseable JSON rather than prose.
type GeminiProvider struct {
	client  *genai.Client
	limiter *rate.Limiter
}

// NewGeminiProvider creates a Gemini provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey string, reqPerMinute, burst int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrProviderNotConfigured, "gemini API key not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init genai client")
	}

	limit := rate.Inf
	if reqPerMinute > 0 {
		limit = rate.Limit(float64(reqPerMinute) / 60.0)
		if burst <= 0 {
			burst = 1
		}
	}

	return &GeminiProvider{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

// Name returns provider name.
func (p *GeminiProvider) Name() ProviderName { return ProviderNameGoogle }

// Chat sends a completion request to the Gemini API.
func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "gemini: %v", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.ResponseSchema
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			if config.SystemInstruction == nil {
				config.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
			}
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, errors.Wrap(err, "gemini generate content")
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}

	if text.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyCompletion, "gemini")
	}

	out := &ChatResponse{
		Content: text.String(),
		Model:   req.Model,
	}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
		metrics.RecordProviderTokens(string(ProviderNameGoogle), out.Usage.PromptTokens, out.Usage.CompletionTokens)
	}

	return out, nil
}
