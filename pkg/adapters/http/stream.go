package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/qtext/pkg/domain"
)

const subscriberBuffer = 10

// StreamManager fans document diffs out to SSE subscribers per session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for sessionID. The returned func unregisters
// and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, subscriberBuffer)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
		})
	}
}

// Subscribers reports how many streams listen on sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Broadcast sends msg to every subscriber of sessionID.
// Slow subscribers with a full buffer miss the message.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Publish broadcasts the diff between prev and next, if any.
func (sm *StreamManager) Publish(prev, next *domain.Document) {
	diff := domain.Diff(prev, next)
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("failed to encode document diff", "document_id", next.ID, "error", err)
		return
	}
	sm.Broadcast(next.ID, string(data))
}

// diffFilter keeps diffs that touch at least one watched field.
// An empty watch list keeps everything.
type diffFilter []string

func parseWatch(raw string) diffFilter {
	var out diffFilter
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

func (f diffFilter) keep(msg string) bool {
	if len(f) == 0 {
		return true
	}
	var diff domain.DocumentDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range f {
		switch field {
		case "content":
			if len(diff.Blocks) > 0 || len(diff.Removed) > 0 || len(diff.Order) > 0 {
				return true
			}
		case "selection":
			if diff.Selection != nil {
				return true
			}
		case "override":
			if diff.InlineOverride != nil || diff.OverrideCleared {
				return true
			}
		case "history":
			if diff.CanUndo != nil || diff.CanRedo != nil {
				return true
			}
		}
	}
	return false
}
