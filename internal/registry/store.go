// Package registry implements the agent directory service. Agents
// register themselves (or are discovered from a card URL) and clients
// look them up by id, category or free-text search.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"strategist/internal/a2a"
	"strategist/pkg/errors"
)

// CardFetcher verifies an agent card before an entry is accepted.
type CardFetcher interface {
	FetchCard(ctx context.Context, baseURL string) (a2a.Card, error)
}

// Registration is the payload an agent submits to register itself.
type Registration struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	AgentCardURL string   `json:"agent_card_url"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags,omitempty"`
}

// Entry is a registered agent.
type Entry struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	AgentCardURL string      `json:"agent_card_url"`
	Category     string      `json:"category"`
	Tags         []string    `json:"tags,omitempty"`
	Skills       []a2a.Skill `json:"skills,omitempty"`
	Status       string      `json:"status"`
	RegisteredAt time.Time   `json:"registered_at"`
}

// Store is the mutex-guarded agent directory.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	fetcher CardFetcher
}

// NewStore creates an empty registry store.
func NewStore(fetcher CardFetcher) *Store {
	return &Store{
		entries: make(map[string]Entry),
		fetcher: fetcher,
	}
}

// Register verifies the agent's card and stores the entry. An empty ID
// gets a generated one.
func (s *Store) Register(ctx context.Context, reg Registration) (Entry, error) {
	if reg.AgentCardURL == "" {
		return Entry{}, errors.Wrap(errors.ErrInvalidAgentCard, "agent_card_url is required")
	}

	card, err := s.fetcher.FetchCard(ctx, baseURLFromCardURL(reg.AgentCardURL))
	if err != nil {
		return Entry{}, err
	}

	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.Name == "" {
		reg.Name = card.Name
	}
	if reg.Description == "" {
		reg.Description = card.Description
	}
	if reg.Category == "" {
		reg.Category = "general"
	}

	entry := Entry{
		ID:           reg.ID,
		Name:         reg.Name,
		Description:  reg.Description,
		AgentCardURL: reg.AgentCardURL,
		Category:     reg.Category,
		Tags:         reg.Tags,
		Skills:       card.Skills,
		Status:       "active",
		RegisteredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	return entry, nil
}

// Discover fetches an agent card and auto-registers the agent under its
// card name.
func (s *Store) Discover(ctx context.Context, cardURL, category string) (Entry, error) {
	card, err := s.fetcher.FetchCard(ctx, baseURLFromCardURL(cardURL))
	if err != nil {
		return Entry{}, err
	}

	if category == "" {
		category = "general"
	}

	entry := Entry{
		ID:           card.Name,
		Name:         card.Name,
		Description:  card.Description,
		AgentCardURL: cardURL,
		Category:     category,
		Skills:       card.Skills,
		Status:       "discovered",
		RegisteredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	return entry, nil
}

// Get returns an entry by id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	return entry, nil
}

// List returns all entries, optionally filtered by category, sorted by name.
func (s *Store) List(category string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if category != "" && entry.Category != category {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search matches the query against name, description and tags.
func (s *Store) Search(query, category string) []Entry {
	query = strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0)
	for _, entry := range s.entries {
		if category != "" && entry.Category != category {
			continue
		}
		haystack := strings.ToLower(entry.Name + " " + entry.Description + " " + strings.Join(entry.Tags, " "))
		if strings.Contains(haystack, query) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Unregister removes an entry by id.
func (s *Store) Unregister(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	delete(s.entries, id)
	return nil
}

// Count returns the number of registered agents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func baseURLFromCardURL(cardURL string) string {
	return strings.TrimSuffix(cardURL, a2a.CardPath)
}
