package runtime

import (
	"errors"

	"github.com/aretw0/qtext/pkg/domain"
)

func (e *Engine) CanUndo(doc *domain.Document) bool { return !e.model.IsUndoStackEmpty(doc) }

func (e *Engine) CanRedo(doc *domain.Document) bool { return !e.model.IsRedoStackEmpty(doc) }

// Undo reverts the last change. With an empty stack it returns doc unchanged.
func (e *Engine) Undo(doc *domain.Document) *domain.Document {
	return e.step(doc, "undo", e.CanUndo, e.model.Undo)
}

// Redo reapplies the last undone change. With an empty stack it returns doc unchanged.
func (e *Engine) Redo(doc *domain.Document) *domain.Document {
	return e.step(doc, "redo", e.CanRedo, e.model.Redo)
}

func (e *Engine) step(doc *domain.Document, op string, can func(*domain.Document) bool, apply func(*domain.Document) (*domain.Document, error)) *domain.Document {
	if !can(doc) {
		e.logger.Debug("history is empty", "op", op, "document_id", doc.ID)
		e.emitHistory(doc, op, false)
		return doc
	}
	next, err := apply(doc)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyHistory) {
			e.logger.Warn("history step failed", "op", op, "document_id", doc.ID, "error", err)
		} else {
			e.logger.Debug("history is empty", "op", op, "document_id", doc.ID)
		}
		e.emitHistory(doc, op, false)
		return doc
	}
	e.emitHistory(doc, op, true)
	return next
}
