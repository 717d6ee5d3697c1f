package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategist/internal/a2a"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

type stubFetcher struct {
	cards map[string]a2a.Card
}

func (f *stubFetcher) FetchCard(ctx context.Context, baseURL string) (a2a.Card, error) {
	card, ok := f.cards[baseURL]
	if !ok {
		return a2a.Card{}, errors.Wrapf(errors.ErrAgentUnreachable, "%s", baseURL)
	}
	return card, nil
}

func newTestStore() *Store {
	return NewStore(&stubFetcher{cards: map[string]a2a.Card{
		"http://localhost:8002": {
			Name:        "technical_analyst",
			Description: "Technical analysis specialist",
			Skills:      []a2a.Skill{{ID: "analyze", Name: "Technical analysis"}},
		},
		"http://localhost:8003": {
			Name:        "sentiment_analyst",
			Description: "News and sentiment specialist",
			Skills:      []a2a.Skill{{ID: "analyze", Name: "Sentiment analysis"}},
		},
	}})
}

func TestStoreRegisterAndGet(t *testing.T) {
	store := newTestStore()

	entry, err := store.Register(context.Background(), Registration{
		ID:           "tech-1",
		AgentCardURL: "http://localhost:8002" + a2a.CardPath,
		Category:     "analysis",
		Tags:         []string{"momentum"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-1", entry.ID)
	assert.Equal(t, "technical_analyst", entry.Name, "name falls back to the card")
	assert.Equal(t, "active", entry.Status)
	assert.Len(t, entry.Skills, 1)
	assert.False(t, entry.RegisteredAt.IsZero())

	got, err := store.Get("tech-1")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
}

func TestStoreRegisterGeneratesID(t *testing.T) {
	store := newTestStore()

	entry, err := store.Register(context.Background(), Registration{
		AgentCardURL: "http://localhost:8002" + a2a.CardPath,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "general", entry.Category)
}

func TestStoreRegisterUnreachableCard(t *testing.T) {
	store := newTestStore()

	_, err := store.Register(context.Background(), Registration{
		AgentCardURL: "http://localhost:9999" + a2a.CardPath,
	})
	assert.ErrorIs(t, err, errors.ErrAgentUnreachable)
}

func TestStoreDiscover(t *testing.T) {
	store := newTestStore()

	entry, err := store.Discover(context.Background(), "http://localhost:8003"+a2a.CardPath, "")
	require.NoError(t, err)
	assert.Equal(t, "sentiment_analyst", entry.ID, "discovery keys the entry by card name")
	assert.Equal(t, "discovered", entry.Status)
}

func TestStoreListAndSearch(t *testing.T) {
	store := newTestStore()

	_, err := store.Register(context.Background(), Registration{
		ID: "tech-1", AgentCardURL: "http://localhost:8002" + a2a.CardPath, Category: "analysis",
	})
	require.NoError(t, err)
	_, err = store.Register(context.Background(), Registration{
		ID: "sent-1", AgentCardURL: "http://localhost:8003" + a2a.CardPath, Category: "news",
	})
	require.NoError(t, err)

	assert.Len(t, store.List(""), 2)
	assert.Len(t, store.List("news"), 1)

	results := store.Search("sentiment", "")
	require.Len(t, results, 1)
	assert.Equal(t, "sent-1", results[0].ID)

	assert.Empty(t, store.Search("sentiment", "analysis"))
}

func TestStoreUnregister(t *testing.T) {
	store := newTestStore()

	_, err := store.Register(context.Background(), Registration{
		ID: "tech-1", AgentCardURL: "http://localhost:8002" + a2a.CardPath,
	})
	require.NoError(t, err)

	require.NoError(t, store.Unregister("tech-1"))
	assert.ErrorIs(t, store.Unregister("tech-1"), errors.ErrNotFound)

	_, err = store.Get("tech-1")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestServerEndpoints(t *testing.T) {
	store := newTestStore()
	ts := httptest.NewServer(NewServer(store, logger.Get()).Routes())
	defer ts.Close()

	// Register through the API.
	body, _ := json.Marshal(Registration{
		ID:           "tech-1",
		AgentCardURL: "http://localhost:8002" + a2a.CardPath,
		Category:     "analysis",
	})
	resp, err := http.Post(ts.URL+"/agents/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// List.
	resp, err = http.Get(ts.URL + "/agents")
	require.NoError(t, err)
	var listBody struct {
		Count  int     `json:"count"`
		Agents []Entry `json:"agents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listBody))
	resp.Body.Close()
	assert.Equal(t, 1, listBody.Count)

	// Get by id.
	resp, err = http.Get(ts.URL + "/agents/tech-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Unknown id is a 404.
	resp, err = http.Get(ts.URL + "/agents/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Search.
	resp, err = http.Get(ts.URL + "/agents/search?query=technical")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listBody))
	resp.Body.Close()
	assert.Equal(t, 1, listBody.Count)

	// Unregister.
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/agents/tech-1", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Register with a bad card is a 400.
	body, _ = json.Marshal(Registration{AgentCardURL: "http://localhost:9999" + a2a.CardPath})
	resp, err = http.Post(ts.URL+"/agents/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
