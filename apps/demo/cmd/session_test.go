package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/apps/demo/internal/config"
)

func newTestSession(t *testing.T, closeStore func() error) *session {
	t.Helper()
	sdk := minisdk.New(&minisdk.RecordingLogger{}, nil)
	t.Cleanup(func() { _ = sdk.Close(context.Background()) })
	return &session{
		cfg:        &config.Config{Store: config.StoreMemory},
		sdk:        sdk,
		store:      minisdk.NewMemoryTokenStore(),
		closeStore: closeStore,
	}
}

func TestStartLifecycleFailureClosesSession(t *testing.T) {
	storeClosed := false
	s := newTestSession(t, func() error {
		storeClosed = true
		return nil
	})

	err := s.startLifecycle(context.Background(), nil)
	if !errors.Is(err, minisdk.ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if !storeClosed {
		t.Error("expected token store to be closed")
	}
	if _, err := s.sdk.Config(context.Background()); !errors.Is(err, minisdk.ErrClosed) {
		t.Errorf("expected sdk to be closed, got %v", err)
	}
}

func TestStartLifecycleJoinsCloseError(t *testing.T) {
	s := newTestSession(t, func() error { return errors.New("disk gone") })

	err := s.startLifecycle(context.Background(), nil)
	if !errors.Is(err, minisdk.ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if !strings.Contains(err.Error(), "closing token store: disk gone") {
		t.Errorf("expected close error in %q", err)
	}
}

func TestStartLifecycleSucceeds(t *testing.T) {
	s := newTestSession(t, func() error { return nil })
	notifier := minisdk.NewLifecycleNotifier()

	if err := s.startLifecycle(context.Background(), notifier); err != nil {
		t.Fatalf("startLifecycle: %v", err)
	}
	if got := notifier.Subscribers(); got != 1 {
		t.Errorf("expected 1 subscriber, got %d", got)
	}
}

func TestCloseLoggedReportsFailure(t *testing.T) {
	s := newTestSession(t, func() error { return errors.New("disk gone") })
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s.closeLogged(context.Background(), logger)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "closing sdk session") {
		t.Errorf("expected warning, got %q", out)
	}
	if !strings.Contains(out, "disk gone") {
		t.Errorf("expected close error in %q", out)
	}
}

func TestCloseLoggedQuietOnSuccess(t *testing.T) {
	s := newTestSession(t, func() error { return nil })
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s.closeLogged(context.Background(), logger)

	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %q", buf.String())
	}
}
