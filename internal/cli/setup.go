package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/aretw0/qtext"
	"github.com/aretw0/qtext/internal/adapters/file"
	"github.com/aretw0/qtext/pkg/adapters/loam"
	"github.com/aretw0/qtext/pkg/adapters/memory"
	"github.com/aretw0/qtext/pkg/adapters/redis"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/persistence/middleware"
	"github.com/aretw0/qtext/pkg/ports"
	"github.com/aretw0/qtext/pkg/session"
)

// Options is the configuration shared by the qtext commands.
type Options struct {
	// CatalogPath is a YAML or JSON catalog file.
	CatalogPath string
	// CatalogDir is a Loam directory of catalog fragments. It wins over CatalogPath.
	CatalogDir string

	Disabled []string
	ReadOnly bool
	Debug    bool

	// RedisAddr selects the Redis store and distributed lock.
	RedisAddr string
	// SessionDir selects the file store when Redis is not configured.
	SessionDir string
	// HistoryLimit caps the undo history of the model and the undo and redo
	// stacks of stored documents. Zero keeps the model default.
	HistoryLimit int
	// EncryptionKey is a hex encoded 32 byte AES key for stored documents.
	EncryptionKey string
}

// NewToolbar builds the facade from the catalog and policy options.
func NewToolbar(opts Options, logger *slog.Logger, hooks domain.LifecycleHooks) (*qtext.Toolbar, error) {
	tbOpts := []qtext.Option{
		qtext.WithLogger(logger),
		qtext.WithDisabled(opts.Disabled...),
		qtext.WithReadOnly(opts.ReadOnly),
		qtext.WithLifecycleHooks(hooks),
	}
	if opts.HistoryLimit > 0 {
		tbOpts = append(tbOpts, qtext.WithModel(memory.NewModel(memory.WithHistoryLimit(opts.HistoryLimit))))
	}

	switch {
	case opts.CatalogDir != "":
		loader, err := loam.Open(opts.CatalogDir)
		if err != nil {
			return nil, err
		}
		tbOpts = append(tbOpts, qtext.WithCatalogLoader(loader))
	case opts.CatalogPath != "":
		tbOpts = append(tbOpts, qtext.WithCatalogFile(opts.CatalogPath))
	}

	tb, err := qtext.New(tbOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing toolbar: %w", err)
	}
	return tb, nil
}

// NewSessions builds the document store stack and its session manager.
// The returned close func releases the backend connection.
func NewSessions(opts Options, logger *slog.Logger) (*session.Manager, func() error, error) {
	var (
		store     ports.DocumentStore
		closeFn   = func() error { return nil }
		sessOpts  = []session.Option{session.WithLogger(logger)}
		mws       []middleware.Middleware
		backendID string
	)

	switch {
	case opts.RedisAddr != "":
		rs := redis.New(opts.RedisAddr, "", 0)
		store = rs
		closeFn = rs.Close
		sessOpts = append(sessOpts, session.WithLocker(redis.NewLocker(rs.Client(), "qtext:")))
		backendID = "redis"
	case opts.SessionDir != "":
		store = file.New(opts.SessionDir)
		backendID = "file"
	default:
		store = memory.NewStore()
		backendID = "memory"
	}

	if opts.HistoryLimit > 0 {
		mws = append(mws, middleware.NewHistoryLimitMiddleware(opts.HistoryLimit))
	}
	if opts.EncryptionKey != "" {
		key, err := hex.DecodeString(opts.EncryptionKey)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(key) != 32 {
			_ = closeFn()
			return nil, nil, fmt.Errorf("invalid encryption key: want 32 bytes, got %d", len(key))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	logger.Debug("Session store ready", "backend", backendID, "middlewares", len(mws))
	return session.NewManager(middleware.Chain(store, mws...), sessOpts...), closeFn, nil
}
