package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"strategist/pkg/errors"
)

// Client talks to remote agents: card discovery and JSON-RPC invocation.
// A shared token-bucket limiter caps the outbound request rate across all
// endpoints. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	cardTimeout time.Duration
}

// NewClient creates a Client. callTimeout bounds a single invoke round trip,
// cardTimeout bounds card fetches, reqPerMinute caps outbound request rate
// (0 means unlimited).
func NewClient(callTimeout, cardTimeout time.Duration, reqPerMinute int) *Client {
	limit := rate.Inf
	burst := 1
	if reqPerMinute > 0 {
		limit = rate.Limit(float64(reqPerMinute) / 60.0)
		if burst = reqPerMinute / 10; burst < 1 {
			burst = 1
		}
	}

	return &Client{
		httpClient:  &http.Client{Timeout: callTimeout},
		limiter:     rate.NewLimiter(limit, burst),
		cardTimeout: cardTimeout,
	}
}

// FetchCard retrieves and validates the agent card at baseURL.
func (c *Client) FetchCard(ctx context.Context, baseURL string) (Card, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cardTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return Card{}, errors.Wrap(err, "rate limiter")
	}

	url := strings.TrimSuffix(baseURL, "/") + CardPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Card{}, errors.Wrap(err, "build card request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Card{}, errors.Wrapf(errors.ErrAgentUnreachable, "%s: %v", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Card{}, errors.Wrapf(errors.ErrAgentUnreachable, "%s: HTTP %d", baseURL, resp.StatusCode)
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return Card{}, errors.Wrapf(errors.ErrInvalidAgentCard, "%s: %v", baseURL, err)
	}

	if err := card.Validate(); err != nil {
		return Card{}, err
	}

	return card, nil
}

// Invoke sends an agent/invoke JSON-RPC request and returns the agent's
// response text. Transport failures and JSON-RPC error objects both come
// back as errors; callers decide how to degrade.
func (c *Client) Invoke(ctx context.Context, baseURL, message string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limiter")
	}

	params, err := json.Marshal(InvokeParams{
		Message:   message,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal invoke params")
	}

	rpcReq := Request{
		JSONRPC: "2.0",
		Method:  MethodInvoke,
		Params:  params,
		ID:      time.Now().UnixMilli(),
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return "", errors.Wrap(err, "marshal jsonrpc request")
	}

	url := strings.TrimSuffix(baseURL, "/") + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build invoke request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(errors.ErrAgentUnreachable, "%s: %v", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", errors.Wrapf(errors.ErrAgentInvoke, "%s: HTTP %d: %s", baseURL, resp.StatusCode, snippet)
	}

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", errors.Wrapf(errors.ErrAgentInvoke, "%s: decode response: %v", baseURL, err)
	}

	if rpcResp.Error != nil {
		return "", errors.Wrapf(errors.ErrAgentInvoke, "%s: [%d] %s", baseURL, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var result InvokeResult
	if err := json.Unmarshal(rpcResp.Result, &result); err == nil && result.Response != "" {
		return result.Response, nil
	}

	// Some agents return their payload directly instead of wrapping it in
	// an InvokeResult; pass the raw result through for the caller to parse.
	return string(rpcResp.Result), nil
}
