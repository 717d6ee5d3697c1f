package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

func testCard() Card {
	return Card{
		Name:        "technical_analyst",
		Description: "Technical analysis specialist",
		Version:     "1.0.0",
		Skills: []Skill{
			{ID: "analyze", Name: "Technical analysis"},
		},
	}
}

func newTestServer(t *testing.T, handler InvokeHandler) *httptest.Server {
	t.Helper()
	srv := NewServer(testCard(), handler, logger.Get())
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient() *Client {
	return NewClient(5*time.Second, 2*time.Second, 600)
}

func TestCardValidate(t *testing.T) {
	assert.NoError(t, testCard().Validate())

	missingName := testCard()
	missingName.Name = ""
	assert.ErrorIs(t, missingName.Validate(), errors.ErrInvalidAgentCard)

	missingSkills := testCard()
	missingSkills.Skills = nil
	assert.ErrorIs(t, missingSkills.Validate(), errors.ErrInvalidAgentCard)
}

func TestFetchCard(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, message string) (string, error) {
		return "", nil
	})

	card, err := newTestClient().FetchCard(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "technical_analyst", card.Name)
	assert.Len(t, card.Skills, 1)
}

func TestFetchCard_Unreachable(t *testing.T) {
	_, err := newTestClient().FetchCard(context.Background(), "http://127.0.0.1:1")
	assert.ErrorIs(t, err, errors.ErrAgentUnreachable)
}

func TestFetchCard_InvalidPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := newTestClient().FetchCard(context.Background(), ts.URL)
	assert.ErrorIs(t, err, errors.ErrInvalidAgentCard)
}

func TestInvoke_RoundTrip(t *testing.T) {
	var gotMessage string
	ts := newTestServer(t, func(ctx context.Context, message string) (string, error) {
		gotMessage = message
		return `{"directional_signal":0.4,"confidence_score":75}`, nil
	})

	response, err := newTestClient().Invoke(context.Background(), ts.URL, "Analyze GOOGL")
	require.NoError(t, err)
	assert.Equal(t, "Analyze GOOGL", gotMessage)
	assert.JSONEq(t, `{"directional_signal":0.4,"confidence_score":75}`, response)
}

func TestInvoke_HandlerError(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, message string) (string, error) {
		return "", errors.New("upstream data source down")
	})

	_, err := newTestClient().Invoke(context.Background(), ts.URL, "Analyze GOOGL")
	require.ErrorIs(t, err, errors.ErrAgentInvoke)
	assert.Contains(t, err.Error(), "upstream data source down")
}

func TestInvoke_MethodNotFound(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, message string) (string, error) {
		return "ok", nil
	})

	body, _ := json.Marshal(Request{JSONRPC: "2.0", Method: "agent/unknown", ID: 1})
	resp, err := http.Post(ts.URL+"/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var rpcResp Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp))
	require.NotNil(t, rpcResp.Error)
	assert.Equal(t, CodeMethodNotFound, rpcResp.Error.Code)
}

func TestInvoke_Timeout(t *testing.T) {
	ts := newTestServer(t, func(ctx context.Context, message string) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	client := NewClient(100*time.Millisecond, time.Second, 600)
	_, err := client.Invoke(context.Background(), ts.URL, "Analyze GOOGL")
	assert.Error(t, err)
}

func TestInvoke_UnwrappedResult(t *testing.T) {
	// Agents that respond with a bare JSON result instead of an
	// InvokeResult envelope still get their payload passed through.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(Response{
			JSONRPC: "2.0",
			Result:  json.RawMessage(`{"directional_signal":-0.2}`),
			ID:      req.ID,
		})
	}))
	defer ts.Close()

	response, err := newTestClient().Invoke(context.Background(), ts.URL, "Analyze")
	require.NoError(t, err)
	assert.JSONEq(t, `{"directional_signal":-0.2}`, response)
}
