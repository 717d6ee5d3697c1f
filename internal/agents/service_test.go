package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategist/internal/adapters/ai"
	"strategist/internal/tools"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

type mockProvider struct {
	chatFunc func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)
}

func (m *mockProvider) Name() ai.ProviderName { return "mock" }

func (m *mockProvider) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return m.chatFunc(ctx, req)
}

func testSpecialist() Specialist {
	s, ok := SpecialistByKey("technical")
	if !ok {
		panic("technical specialist missing from roster")
	}
	return s
}

func TestServiceAnalyze(t *testing.T) {
	var gotReq ai.ChatRequest
	provider := &mockProvider{
		chatFunc: func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			gotReq = req
			return &ai.ChatResponse{
				Content: `{"directional_signal":0.5,"confidence_score":72,"summary":"Golden cross forming"}`,
			}, nil
		},
	}

	toolset := []tools.Tool{
		tools.New("get_quote", "", func(ctx context.Context, ticker string) (interface{}, error) {
			return map[string]float64{"close": 136.5}, nil
		}),
	}

	svc := NewService(testSpecialist(), provider, toolset, "gemini-2.0-flash", 0.3, 2048, logger.Get())

	report, err := svc.Analyze(context.Background(), "GOOGL")
	require.NoError(t, err)
	assert.Contains(t, report, `"directional_signal":0.5`)

	assert.Equal(t, "gemini-2.0-flash", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, ai.RoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "TECHNICAL ANALYST")
	assert.Contains(t, gotReq.Messages[1].Content, "GOOGL")
	assert.Contains(t, gotReq.Messages[1].Content, "get_quote", "tool context must reach the model")
	require.NotNil(t, gotReq.ResponseSchema)
}

func TestServiceAnalyze_ProviderError(t *testing.T) {
	provider := &mockProvider{
		chatFunc: func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			return nil, errors.New("provider down")
		},
	}

	svc := NewService(testSpecialist(), provider, nil, "gemini-2.0-flash", 0.3, 2048, logger.Get())
	_, err := svc.Analyze(context.Background(), "GOOGL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestServiceAnalyze_UnusableResponse(t *testing.T) {
	provider := &mockProvider{
		chatFunc: func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			return &ai.ChatResponse{Content: "the stock looks fine to me"}, nil
		},
	}

	svc := NewService(testSpecialist(), provider, nil, "gemini-2.0-flash", 0.3, 2048, logger.Get())
	_, err := svc.Analyze(context.Background(), "GOOGL")
	assert.ErrorIs(t, err, errors.ErrMalformedReport)
}

func TestServiceHandle(t *testing.T) {
	provider := &mockProvider{
		chatFunc: func(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
			return &ai.ChatResponse{
				Content: `{"directional_signal":0.1,"confidence_score":50,"summary":"Quiet week"}`,
			}, nil
		},
	}

	svc := NewService(testSpecialist(), provider, nil, "gemini-2.0-flash", 0.3, 2048, logger.Get())

	report, err := svc.Handle(context.Background(), "Analyze GOOGL stock for a 1-week prediction")
	require.NoError(t, err)
	assert.Contains(t, report, "Quiet week")

	_, err = svc.Handle(context.Background(), "hello there")
	assert.Error(t, err)
}

func TestSpecialistsRoster(t *testing.T) {
	roster := Specialists()
	require.Len(t, roster, 5)

	ports := map[int]bool{}
	for _, s := range roster {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Prompt)
		assert.False(t, ports[s.DefaultPort], "duplicate port %d", s.DefaultPort)
		ports[s.DefaultPort] = true
	}
	assert.Equal(t, 8001, roster[0].DefaultPort)
	assert.Equal(t, 8005, roster[4].DefaultPort)
}
