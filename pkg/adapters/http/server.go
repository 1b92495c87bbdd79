package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/internal/logging"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
	"github.com/aretw0/qtext/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Engine is the toolbar surface the HTTP API drives.
type Engine interface {
	ports.ToolbarEngine
	Editor() ports.DocumentEditor
}

// Server serves the toolbar API over stored document sessions.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer sets the registry exposed at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server. Metrics default to the global Prometheus registry.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for engine over sessions.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/catalog", s.GetCatalog)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/toolbar", s.GetToolbar)
			r.Post("/dispatch", s.Dispatch)
			r.Post("/select", s.Select)
			r.Post("/insert", s.Insert)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>qtext API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// BlockInput seeds one block of a new session.
type BlockInput struct {
	Key  string `json:"key,omitempty"`
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	ID     string       `json:"id,omitempty"`
	Blocks []BlockInput `json:"blocks,omitempty"`
}

// InsertRequest is the body of POST /sessions/{id}/insert.
type InsertRequest struct {
	Text string `json:"text"`
}

// SessionResponse pairs a document with its resolved toolbar.
type SessionResponse struct {
	Document *domain.Document   `json:"document"`
	Toolbar  []domain.Resolution `json:"toolbar"`
}

// DispatchResponse is the outcome of an action plus the toolbar after it.
type DispatchResponse struct {
	*domain.Outcome
	Toolbar []domain.Resolution `json:"toolbar"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("failed to load OpenAPI spec", "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "qtext-http",
		"version":     strings.TrimSpace(qtext.Version),
		"api_version": apiVersion,
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Catalog())
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if !s.decode(w, r, &body) {
			return
		}
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}

	blocks := make([]domain.Block, len(body.Blocks))
	keys := make(map[string]bool, len(body.Blocks))
	for i, b := range body.Blocks {
		if strings.ContainsAny(b.Text, "\r\n") {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "block text cannot contain line breaks"})
			return
		}
		if b.Key != "" {
			if keys[b.Key] {
				s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("duplicate block key %q", b.Key)})
				return
			}
			keys[b.Key] = true
		}
		blocks[i] = domain.Block{Key: b.Key, Type: b.Type, Text: b.Text}
	}
	doc := s.Engine.Editor().NewDocument(body.ID, blocks...)

	var exists bool
	err := s.Sessions.WithLock(r.Context(), body.ID, func(ctx context.Context) error {
		_, err := s.Sessions.Store().Load(ctx, body.ID)
		switch {
		case err == nil:
			exists = true
			return nil
		case !errors.Is(err, domain.ErrDocumentNotFound):
			return err
		}
		return s.Sessions.Store().Save(ctx, body.ID, doc)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if exists {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: fmt.Sprintf("session %q already exists", body.ID)})
		return
	}

	s.logger.Info("session created", "session_id", body.ID, "blocks", len(doc.Content.Blocks))
	s.writeJSON(w, http.StatusCreated, s.sessionResponse(doc))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionResponse(doc))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetToolbar handles GET /sessions/{id}/toolbar.
func (s *Server) GetToolbar(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Toolbar(doc))
}

// Dispatch handles POST /sessions/{id}/dispatch.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var cmd domain.Command
	if !s.decode(w, r, &cmd) {
		return
	}

	var (
		prev    *domain.Document
		outcome *domain.Outcome
	)
	next, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(doc *domain.Document) (*domain.Document, error) {
		prev = doc
		out, err := s.Engine.Dispatch(doc, cmd)
		if err != nil {
			return nil, err
		}
		outcome = out
		return out.Document, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.Streams.Publish(prev, next)
	s.writeJSON(w, http.StatusOK, DispatchResponse{Outcome: outcome, Toolbar: s.Engine.Toolbar(next)})
}

// Select handles POST /sessions/{id}/select.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	if !s.decode(w, r, &sel) {
		return
	}
	s.edit(w, r, func(doc *domain.Document) (*domain.Document, error) {
		return s.Engine.Editor().Select(doc, sel)
	})
}

// Insert handles POST /sessions/{id}/insert.
func (s *Server) Insert(w http.ResponseWriter, r *http.Request) {
	var body InsertRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.edit(w, r, func(doc *domain.Document) (*domain.Document, error) {
		return s.Engine.Editor().InsertText(doc, body.Text)
	})
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(*domain.Document) (*domain.Document, error)) {
	var prev *domain.Document
	next, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(doc *domain.Document) (*domain.Document, error) {
		prev = doc
		return fn(doc)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.Streams.Publish(prev, next)
	s.writeJSON(w, http.StatusOK, s.sessionResponse(next))
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SSE streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	filter := parseWatch(r.URL.Query().Get("watch"))
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	s.logger.Info("SSE client subscribed", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !filter.keep(msg) {
				continue
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) sessionResponse(doc *domain.Document) SessionResponse {
	return SessionResponse{Document: doc, Toolbar: s.Engine.Toolbar(doc)}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Reason: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var de *domain.DispatchError
	switch {
	case errors.As(err, &de):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: de.Reason})
	case errors.Is(err, domain.ErrDocumentNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownBlock),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrUnknownStyle):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
