package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"strategist/pkg/logger"
)

// InvokeHandler processes one agent/invoke message and returns the agent's
// response text.
type InvokeHandler func(ctx context.Context, message string) (string, error)

// Server hosts a single agent over HTTP: its card at CardPath, the JSON-RPC
// endpoint at /, and a liveness probe at /healthz.
type Server struct {
	card    Card
	handler InvokeHandler
	log     *logger.Logger

	httpServer *http.Server
}

// NewServer creates a Server for the given card and invoke handler.
func NewServer(card Card, handler InvokeHandler, log *logger.Logger) *Server {
	return &Server{
		card:    card,
		handler: handler,
		log:     log,
	}
}

// Routes returns the agent's HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(CardPath, s.handleCard)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/", s.handleRPC)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Agent %s listening on :%d", s.card.Name, port)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.card)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, 0, CodeParseError, "parse error")
		return
	}

	if req.Method != MethodInvoke {
		writeRPCError(w, req.ID, CodeMethodNotFound, "method not found: "+req.Method)
		return
	}

	var params InvokeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, req.ID, CodeInvalidRequest, "invalid params")
		return
	}

	response, err := s.handler(r.Context(), params.Message)
	if err != nil {
		s.log.Errorf("invoke failed for %s: %v", s.card.Name, err)
		writeRPCError(w, req.ID, CodeInternalError, err.Error())
		return
	}

	result, err := json.Marshal(InvokeResult{Response: response})
	if err != nil {
		writeRPCError(w, req.ID, CodeInternalError, "marshal result")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      req.ID,
	})
}

func writeRPCError(w http.ResponseWriter, id int64, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	})
}
