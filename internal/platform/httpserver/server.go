package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	proposalvoting "github.com/Na-Varte-5/house-management-sub001/contexts/community-governance/proposal-voting"
	_ "github.com/Na-Varte-5/house-management-sub001/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	governance proposalvoting.Module
	tokens     *TokenVerifier
	metrics    http.Handler
}

// New wires routes. metrics may be nil, in which case /metrics is not served.
func New(
	governance proposalvoting.Module,
	tokens *TokenVerifier,
	metrics http.Handler,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
		tokens:     tokens,
		metrics:    metrics,
	}
	s.registerRoutes()
	return s
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /api/v1/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/v1/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /api/v1/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /api/v1/proposals/{proposal_id}/vote", s.handleCastVote)
	s.mux.HandleFunc("POST /api/v1/proposals/{proposal_id}/tally", s.handleTallyProposal)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
