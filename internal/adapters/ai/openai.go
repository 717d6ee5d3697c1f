package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"strategist/internal/metrics"
	"strategist/pkg/errors"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// Ensure OpenAIProvider implements ChatProvider
var _ ChatProvider = (*OpenAIProvider)(nil)

// OpenAIProvider talks to the OpenAI chat completions API directly over HTTP.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider instance.
// reqPerMinute and burst configure client-side rate limiting; zero
// reqPerMinute disables it.
func NewOpenAIProvider(apiKey string, timeout time.Duration, reqPerMinute, burst int) *OpenAIProvider {
	limit := rate.Inf
	if reqPerMinute > 0 {
		limit = rate.Limit(float64(reqPerMinute) / 60.0)
		if burst <= 0 {
			burst = 1
		}
	}

	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    openaiAPIURL,
		limiter:    rate.NewLimiter(limit, burst),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns provider name.
func (p *OpenAIProvider) Name() ProviderName { return ProviderNameOpenAI }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends a chat completion request to the OpenAI API.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if p.apiKey == "" {
		return nil, errors.Wrap(errors.ErrProviderNotConfigured, "openai API key not set")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "openai: %v", err)
	}

	openAIReq := openAIRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if openAIReq.MaxTokens == 0 {
		openAIReq.MaxTokens = 2048
	}
	// OpenAI has no schema-constrained output here; JSON mode plus the
	// shape spelled out in the prompt is close enough for parsing.
	if req.ResponseSchema != nil {
		openAIReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	for _, msg := range req.Messages {
		openAIReq.Messages = append(openAIReq.Messages, openAIMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(openAIReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal openai request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create openai request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send openai request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read openai response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, errors.Newf("openai API error (%d): %s - %s",
				resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return nil, errors.Newf("openai API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal openai response")
	}

	if len(openAIResp.Choices) == 0 || openAIResp.Choices[0].Message.Content == "" {
		return nil, errors.Wrap(errors.ErrEmptyCompletion, "openai")
	}

	metrics.RecordProviderTokens(string(ProviderNameOpenAI), openAIResp.Usage.PromptTokens, openAIResp.Usage.CompletionTokens)

	return &ChatResponse{
		Content: openAIResp.Choices[0].Message.Content,
		Model:   openAIResp.Model,
		Usage: Usage{
			PromptTokens:     openAIResp.Usage.PromptTokens,
			CompletionTokens: openAIResp.Usage.CompletionTokens,
			TotalTokens:      openAIResp.Usage.TotalTokens,
		},
	}, nil
}
