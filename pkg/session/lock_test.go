package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/qtext/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, id string, doc *domain.Document) error { return nil }
func (nopStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	return &domain.Document{ID: id}, nil
}
func (nopStore) Delete(ctx context.Context, id string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)  { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("doc-%d", i)
		_ = mgr.Save(ctx, id, &domain.Document{})
		_, _ = mgr.Update(ctx, id, func(d *domain.Document) (*domain.Document, error) { return d, nil })
		_ = mgr.Delete(ctx, id)
	}

	if n := len(mgr.locks); n != 0 {
		t.Errorf("memory leak: %d locks remaining after %d documents", n, count)
	}
}
