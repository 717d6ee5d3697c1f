package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

// Server exposes the store over HTTP.
type Server struct {
	store      *Store
	log        *logger.Logger
	httpServer *http.Server
}

// NewServer creates the registry HTTP server.
func NewServer(store *Store, log *logger.Logger) *Server {
	return &Server{store: store, log: log}
}

// Routes returns the registry's HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("POST /agents/register", s.handleRegister)
	mux.HandleFunc("POST /agents/discover", s.handleDiscover)
	mux.HandleFunc("GET /agents", s.handleList)
	mux.HandleFunc("GET /agents/search", s.handleSearch)
	mux.HandleFunc("GET /agents/{id}", s.handleGet)
	mux.HandleFunc("DELETE /agents/{id}", s.handleUnregister)
	return mux
}

// Run serves the registry until the context is cancelled.
func (s *Server) Run(ctx context.Context, port int) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("agent registry listening on :%d", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":      "agent-registry",
		"agents_count": s.store.Count(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.Register(r.Context(), reg)
	if err != nil {
		s.log.Errorf("register agent: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "registered",
		"agent_id": entry.ID,
	})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentCardURL string `json:"agent_card_url"`
		Category     string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.Discover(r.Context(), req.AgentCardURL, req.Category)
	if err != nil {
		s.log.Errorf("discover agent: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "discovered",
		"agent":  entry,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	agents := s.store.List(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": agents,
		"count":  len(agents),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	agents := s.store.Search(query, r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": agents,
		"count":  len(agents),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Unregister(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "unregistered",
		"agent_id": id,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidAgentCard), errors.Is(err, errors.ErrAgentUnreachable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
