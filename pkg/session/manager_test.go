package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/adapters/redis"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke races if locking is missing.
type SlowStore struct {
	data  map[string]*domain.Document
	saves int
	mu    sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, id string, doc *domain.Document) error {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Document)
	}
	s.data[id] = doc.Snapshot()
	s.saves++
	return nil
}

func (s *SlowStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.data[id]; ok {
		return doc.Snapshot(), nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (s *SlowStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newDoc(id string) *domain.Document {
	return memory.NewModel().NewDocument(id, domain.Block{Text: ""})
}

func appendText(model *memory.Model, text string) func(*domain.Document) (*domain.Document, error) {
	return func(doc *domain.Document) (*domain.Document, error) {
		b := doc.Content.Blocks[len(doc.Content.Blocks)-1]
		doc, err := model.Select(doc, domain.Caret(b.Key, b.Len()))
		if err != nil {
			return nil, err
		}
		return model.InsertText(doc, text)
	}
}

func TestManager_UpdateSerializesWriters(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	model := memory.NewModel()
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, newDoc(id)))

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, appendText(model, "x"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "xxxxxxxxxx", doc.PlainText(), "no update may be lost")
}

func TestManager_LoadOrCreate(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := manager.LoadOrCreate(ctx, id, newDoc)
			assert.NoError(t, err)
			assert.NotNil(t, doc)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.saves, "only one caller creates the document")
	doc, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
}

func TestManager_Update(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, "missing", func(d *domain.Document) (*domain.Document, error) { return d, nil })
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	require.NoError(t, manager.Save(ctx, "doc", newDoc("doc")))

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "doc", func(d *domain.Document) (*domain.Document, error) {
		d.Content.Blocks[0].Text = "leaked"
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := manager.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Empty(t, doc.PlainText(), "a failed update saves nothing")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "qtext:")),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	doc, err := manager.LoadOrCreate(ctx, "shared", newDoc)
	require.NoError(t, err)
	assert.Equal(t, "shared", doc.ID)
	assert.False(t, mr.Exists("qtext:lock:shared"), "the lock is released after the call")

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, ids)
}
