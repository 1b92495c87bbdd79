package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/qtext/internal/logging"
	"github.com/aretw0/qtext/pkg/catalog"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
)

// Engine is the toolbar formatting core.
// It holds configuration only; documents are threaded through every call.
type Engine struct {
	catalog *catalog.Catalog
	model   ports.DocumentModel
	policy  domain.Policy
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithPolicy sets the host allow/deny policy.
func WithPolicy(p domain.Policy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over a catalog and a document model.
func NewEngine(cat *catalog.Catalog, model ports.DocumentModel, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: cat,
		model:   model,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

func (e *Engine) Policy() domain.Policy { return e.policy }

func (e *Engine) emitDispatch(doc *domain.Document, out *domain.Outcome) {
	if e.hooks.OnDispatch == nil {
		return
	}
	e.hooks.OnDispatch(&domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventDispatch, DocumentID: doc.ID},
		Action:    out.Action,
		Kind:      out.Kind,
		Changed:   out.Changed,
	})
}

func (e *Engine) emitRejected(doc *domain.Document, action string, kind domain.ActionKind, err error) {
	if e.hooks.OnRejected == nil {
		return
	}
	e.hooks.OnRejected(&domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventRejected, DocumentID: doc.ID},
		Action:    action,
		Kind:      kind,
		Err:       err,
	})
}

func (e *Engine) emitHistory(doc *domain.Document, op string, applied bool) {
	if e.hooks.OnHistory == nil {
		return
	}
	e.hooks.OnHistory(&domain.HistoryEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventHistory, DocumentID: doc.ID},
		Op:        op,
		Applied:   applied,
	})
}
