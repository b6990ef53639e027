// Package stub is a local stand-in for the answer service. It speaks the same
// wire contract as the real thing, answering from a canned set of answers or by
// echoing the query.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/baalimago/clask/internal/session"
	"github.com/baalimago/clask/internal/utils"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultAddr     = "localhost:5000"
	maxRequestBytes = 1 << 20
)

type request struct {
	Query string `json:"query"`
}

type Server struct {
	// Answers maps a trimmed query to its canned answer. Queries without a
	// canned answer are echoed.
	Answers        map[string]string
	MaxQueryLength int
	// Delay is waited before each answer, to give the client something to
	// animate.
	Delay time.Duration
	debug bool
}

func New(answers map[string]string) *Server {
	if answers == nil {
		answers = map[string]string{}
	}
	return &Server{
		Answers:        answers,
		MaxQueryLength: session.DefaultMaxQueryLength,
		debug:          misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_STUB")),
	}
}

// LoadAnswers reads a json object of query -> answer from path.
func LoadAnswers(path string) (map[string]string, error) {
	var answers map[string]string
	if err := utils.ReadJSONFile(path, &answers); err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	return answers, nil
}

// Router wires the routes of the stub.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleAsk)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %v not allowed", r.Method))
	})
	return r
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req request
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if utf8.RuneCountInString(query) > s.MaxQueryLength {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Query is too long, max is %v characters", s.MaxQueryLength))
		return
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("stub: request id: %v, query: '%v'\n", middleware.GetReqID(r.Context()), query))
	}
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-r.Context().Done():
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": s.answerTo(query)})
}

func (s *Server) answerTo(query string) string {
	if ans, ok := s.Answers[query]; ok {
		return ans
	}
	return "You asked: " + query
}

// Serve the stub on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	ancli.Okf("stub answer service listening on: http://%v/\n", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	}
}
