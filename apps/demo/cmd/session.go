package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/apps/demo/internal/config"
	"github.com/slush-dev/minisdk/sqlitestore"
)

// drainTimeout bounds how long Close waits for queued SDK work.
const drainTimeout = 5 * time.Second

// session is an initialized SDK built from the session directory's config.
type session struct {
	cfg   *config.Config
	sdk   *minisdk.SDK
	store minisdk.TokenStore

	closeStore func() error
}

// openStore opens the token store backend named by cfg.
func openStore(cfg *config.Config) (minisdk.TokenStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return minisdk.NewMemoryTokenStore(), noop, nil
	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.SessionDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating session dir: %w", err)
		}
		st, err := sqlitestore.Open(filepath.Join(cfg.SessionDir, "minisdk.db"), sqlitestore.WithLogger(slog.Default()))
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return minisdk.NewFileTokenStore(cfg.SessionDir, minisdk.WithStoreLogger(slog.Default())), noop, nil
	}
}

// openSession loads the config, opens its store and initializes an SDK
// delivering to sink. The caller must Close the session.
func openSession(sink minisdk.Logger) (*session, error) {
	cfg, err := config.Load(sessionDir)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened token store", "backend", cfg.Store, "session_dir", cfg.SessionDir)

	sdk := minisdk.New(sink, store, minisdk.WithSlog(slog.Default()))
	sdk.Initialize(cfg.APIKey, cfg.Base64Encoding)
	return &session{cfg: cfg, sdk: sdk, store: store, closeStore: closeStore}, nil
}

// Close drains the SDK and releases the store. Draining continues after ctx
// is cancelled, up to drainTimeout.
func (s *session) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	sdkErr := s.sdk.Close(ctx)
	if err := s.closeStore(); err != nil {
		return fmt.Errorf("closing token store: %w", err)
	}
	return sdkErr
}

// closeLogged closes the session, reporting a failure through logger.
func (s *session) closeLogged(ctx context.Context, logger *slog.Logger) {
	if err := s.Close(ctx); err != nil {
		logger.Warn("closing sdk session", "error", err)
	}
}

// startLifecycle begins lifecycle tracking from src. If that fails the
// session is closed and both errors are returned.
func (s *session) startLifecycle(ctx context.Context, src minisdk.LifecycleSource) error {
	if err := s.sdk.Start(src); err != nil {
		return errors.Join(err, s.Close(ctx))
	}
	return nil
}
