package memory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/ports"
)

// DefaultHistoryLimit bounds the undo stack of documents built by Model.
const DefaultHistoryLimit = 100

var (
	_ ports.DocumentModel  = (*Model)(nil)
	_ ports.DocumentEditor = (*Model)(nil)
)

// Model is the reference document model: per-character style sets and
// whole-content undo snapshots. It is stateless and safe for concurrent use.
type Model struct {
	historyLimit int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithHistoryLimit bounds the undo stack. Zero or less means unbounded.
func WithHistoryLimit(n int) ModelOption {
	return func(m *Model) {
		m.historyLimit = n
	}
}

// NewModel creates a reference document model.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDocument builds a document from blocks, filling in missing keys, types
// and style slots. Without blocks the document holds one empty paragraph.
// Block keys are unique: a missing or repeated key is replaced by the first
// free "b<n>" key counting from the block index.
func (m *Model) NewDocument(id string, blocks ...domain.Block) *domain.Document {
	if len(blocks) == 0 {
		blocks = []domain.Block{{}}
	}
	explicit := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if b.Key != "" {
			explicit[b.Key] = true
		}
	}
	used := make(map[string]bool, len(blocks))
	out := make([]domain.Block, len(blocks))
	for i, b := range blocks {
		if b.Key == "" || used[b.Key] {
			b.Key = freeKey(i, explicit, used)
		}
		used[b.Key] = true
		if b.Type == "" {
			b.Type = domain.BlockUnstyled
		}
		b.Styles = normalizeStyles(b)
		out[i] = b
	}
	return &domain.Document{
		ID:        id,
		Content:   domain.Content{Blocks: out},
		Selection: domain.Caret(out[0].Key, 0),
	}
}

func freeKey(from int, explicit, used map[string]bool) string {
	for n := from; ; n++ {
		if key := fmt.Sprintf("b%d", n); !explicit[key] && !used[key] {
			return key
		}
	}
}

// Selection returns the document selection with Backward recomputed from
// document order.
func (m *Model) Selection(doc *domain.Document) domain.Selection {
	return doc.Content.Orient(doc.Selection)
}

func (m *Model) BlockType(doc *domain.Document, blockKey string) (string, bool) {
	i := doc.Content.IndexOf(blockKey)
	if i < 0 {
		return "", false
	}
	return doc.Content.Blocks[i].Type, true
}

func (m *Model) InlineStylesAt(doc *domain.Document, pos domain.Position) domain.StyleSet {
	i := doc.Content.IndexOf(pos.BlockKey)
	if i < 0 {
		return domain.StyleSet{}
	}
	b := doc.Content.Blocks[i]
	if pos.Offset >= 0 && pos.Offset < b.Len() {
		return b.StyleAt(pos.Offset)
	}
	if pos.Offset == b.Len() && i+1 < len(doc.Content.Blocks) {
		return doc.Content.Blocks[i+1].StyleAt(0)
	}
	return domain.StyleSet{}
}

func (m *Model) InheritedStylesAt(doc *domain.Document, pos domain.Position) domain.StyleSet {
	i := doc.Content.IndexOf(pos.BlockKey)
	if i < 0 {
		return domain.StyleSet{}
	}
	b := doc.Content.Blocks[i]
	if n := b.Len(); n > 0 {
		if pos.Offset > 0 {
			return b.StyleAt(min(pos.Offset, n) - 1)
		}
		return b.StyleAt(0)
	}
	for j := i - 1; j >= 0; j-- {
		if prev := doc.Content.Blocks[j]; prev.Len() > 0 {
			return prev.StyleAt(prev.Len() - 1)
		}
	}
	return domain.StyleSet{}
}

func (m *Model) InlineOverride(doc *domain.Document) (domain.StyleSet, bool) {
	if doc.InlineOverride == nil {
		return domain.StyleSet{}, false
	}
	return *doc.InlineOverride, true
}

func (m *Model) WithInlineOverride(doc *domain.Document, styles *domain.StyleSet) *domain.Document {
	out := *doc
	out.InlineOverride = nil
	if styles != nil {
		s := *styles
		out.InlineOverride = &s
	}
	return &out
}

func (m *Model) RemoveInlineStyle(doc *domain.Document, sel domain.Selection, key string) (*domain.Document, error) {
	return m.restyle(doc, sel, func(s domain.StyleSet) domain.StyleSet { return s.Remove(key) })
}

func (m *Model) ApplyInlineStyle(doc *domain.Document, sel domain.Selection, key string) (*domain.Document, error) {
	return m.restyle(doc, sel, func(s domain.StyleSet) domain.StyleSet { return s.Add(key) })
}

func (m *Model) ApplyBlockType(doc *domain.Document, sel domain.Selection, blockType string) (*domain.Document, error) {
	r, err := m.resolve(doc, sel)
	if err != nil {
		return nil, err
	}
	next := doc.Snapshot()
	for i := r.first; i <= r.last; i++ {
		next.Content.Blocks[i].Type = blockType
	}
	return next, nil
}

func (m *Model) PushHistory(prev, next *domain.Document, change domain.ChangeType) *domain.Document {
	if prev.Content.Equal(next.Content) {
		return next
	}
	out := *next
	undo := append(slices.Clone(prev.UndoStack), domain.HistoryEntry{
		Content:    prev.Content,
		Selection:  prev.Selection,
		ChangeType: change,
	})
	if m.historyLimit > 0 && len(undo) > m.historyLimit {
		undo = undo[len(undo)-m.historyLimit:]
	}
	out.UndoStack = undo
	out.RedoStack = nil
	out.LastChange = change
	return &out
}

func (m *Model) IsUndoStackEmpty(doc *domain.Document) bool { return len(doc.UndoStack) == 0 }

func (m *Model) IsRedoStackEmpty(doc *domain.Document) bool { return len(doc.RedoStack) == 0 }

func (m *Model) Undo(doc *domain.Document) (*domain.Document, error) {
	n := len(doc.UndoStack)
	if n == 0 {
		return nil, domain.ErrEmptyHistory
	}
	entry := doc.UndoStack[n-1]
	out := *doc
	out.Content = entry.Content
	out.Selection = entry.Selection
	out.InlineOverride = nil
	out.UndoStack = slices.Clone(doc.UndoStack[:n-1])
	out.RedoStack = append(slices.Clone(doc.RedoStack), domain.HistoryEntry{
		Content:    doc.Content,
		Selection:  doc.Selection,
		ChangeType: entry.ChangeType,
	})
	out.LastChange = domain.ChangeUndo
	return &out, nil
}

func (m *Model) Redo(doc *domain.Document) (*domain.Document, error) {
	n := len(doc.RedoStack)
	if n == 0 {
		return nil, domain.ErrEmptyHistory
	}
	entry := doc.RedoStack[n-1]
	out := *doc
	out.Content = entry.Content
	out.Selection = entry.Selection
	out.InlineOverride = nil
	out.RedoStack = slices.Clone(doc.RedoStack[:n-1])
	out.UndoStack = append(slices.Clone(doc.UndoStack), domain.HistoryEntry{
		Content:    doc.Content,
		Selection:  doc.Selection,
		ChangeType: entry.ChangeType,
	})
	out.LastChange = domain.ChangeRedo
	return &out, nil
}

// Select validates sel against the document and records its direction.
func (m *Model) Select(doc *domain.Document, sel domain.Selection) (*domain.Document, error) {
	r, err := m.resolve(doc, sel)
	if err != nil {
		return nil, err
	}
	out := *doc
	out.Selection = domain.Selection{Anchor: sel.Anchor, Focus: sel.Focus, Backward: r.backward}
	out.InlineOverride = nil
	return &out, nil
}

// InsertText replaces the selection with text. The inserted characters take
// the caret override when one is set, otherwise the styles at the selection.
func (m *Model) InsertText(doc *domain.Document, text string) (*domain.Document, error) {
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("insert text: line breaks are not supported")
	}
	r, err := m.resolve(doc, doc.Selection)
	if err != nil {
		return nil, err
	}

	styles, ok := m.InlineOverride(doc)
	if !ok {
		if r.start == r.end {
			styles = m.InheritedStylesAt(doc, r.start)
		} else {
			styles = m.InlineStylesAt(doc, r.start)
		}
	}

	first := doc.Content.Blocks[r.first]
	last := doc.Content.Blocks[r.last]
	inserted := []rune(text)
	insertedStyles := make([]domain.StyleSet, len(inserted))
	for i := range insertedStyles {
		insertedStyles[i] = styles
	}

	merged := domain.Block{
		Key:    first.Key,
		Type:   first.Type,
		Text:   string(slices.Concat([]rune(first.Text)[:r.start.Offset], inserted, []rune(last.Text)[r.end.Offset:])),
		Styles: slices.Concat(normalizeStyles(first)[:r.start.Offset], insertedStyles, normalizeStyles(last)[r.end.Offset:]),
	}

	next := *doc
	next.Content.Blocks = slices.Concat(doc.Content.Blocks[:r.first], []domain.Block{merged}, doc.Content.Blocks[r.last+1:])
	next.Selection = domain.Caret(first.Key, r.start.Offset+len(inserted))
	next.InlineOverride = nil
	return m.PushHistory(doc, &next, domain.ChangeInsertCharacters), nil
}

type resolvedRange struct {
	start, end  domain.Position
	first, last int
	backward    bool
}

func (m *Model) resolve(doc *domain.Document, sel domain.Selection) (resolvedRange, error) {
	ai, err := locate(doc, sel.Anchor)
	if err != nil {
		return resolvedRange{}, err
	}
	fi, err := locate(doc, sel.Focus)
	if err != nil {
		return resolvedRange{}, err
	}
	if fi < ai || (fi == ai && sel.Focus.Offset < sel.Anchor.Offset) {
		return resolvedRange{start: sel.Focus, end: sel.Anchor, first: fi, last: ai, backward: true}, nil
	}
	return resolvedRange{start: sel.Anchor, end: sel.Focus, first: ai, last: fi}, nil
}

func locate(doc *domain.Document, pos domain.Position) (int, error) {
	i := doc.Content.IndexOf(pos.BlockKey)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", domain.ErrUnknownBlock, pos.BlockKey)
	}
	if n := doc.Content.Blocks[i].Len(); pos.Offset < 0 || pos.Offset > n {
		return -1, fmt.Errorf("%w: offset %d outside block %q of length %d", domain.ErrInvalidSelection, pos.Offset, pos.BlockKey, n)
	}
	return i, nil
}

func (m *Model) restyle(doc *domain.Document, sel domain.Selection, fn func(domain.StyleSet) domain.StyleSet) (*domain.Document, error) {
	r, err := m.resolve(doc, sel)
	if err != nil {
		return nil, err
	}
	if r.start == r.end {
		return doc, nil
	}

	next := doc.Snapshot()
	for i := r.first; i <= r.last; i++ {
		b := next.Content.Blocks[i]
		from, to := 0, b.Len()
		if i == r.first {
			from = r.start.Offset
		}
		if i == r.last {
			to = r.end.Offset
		}
		if from >= to {
			continue
		}
		styles := normalizeStyles(b)
		for c := from; c < to; c++ {
			styles[c] = fn(styles[c])
		}
		b.Styles = styles
		next.Content.Blocks[i] = b
	}
	return next, nil
}

// normalizeStyles returns a fresh style slice with one entry per character.
func normalizeStyles(b domain.Block) []domain.StyleSet {
	out := make([]domain.StyleSet, b.Len())
	copy(out, b.Styles)
	return out
}
