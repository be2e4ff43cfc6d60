package minisdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// PushTokenKey is the settings key the push token is stored under.
const PushTokenKey = "miniSDK_pushToken"

// TokenStore persists the current push token in a single slot.
type TokenStore interface {
	// StoreToken overwrites the stored token.
	StoreToken(token string) error
	// Token returns the stored token, if any.
	Token() (string, bool)
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) StoreToken(token string) error {
	s.mu.Lock()
	s.token, s.set = token, true
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

// errCorruptSettings marks a settings file that exists but is not a JSON
// object.
var errCorruptSettings = errors.New("corrupt settings file")

// FileStoreOption configures FileTokenStore.
type FileStoreOption func(*FileTokenStore)

// WithStoreLogger sets a custom logger for FileTokenStore.
func WithStoreLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileTokenStore) {
		s.logger = logger
	}
}

// FileTokenStore is a simple key-value settings file: a flat JSON object in
// <dir>/settings.json. Only PushTokenKey is written; other keys are kept. A
// file that does not parse is replaced on the next StoreToken.
type FileTokenStore struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileTokenStore creates a FileTokenStore rooted at dir.
func NewFileTokenStore(dir string, opts ...FileStoreOption) *FileTokenStore {
	s := &FileTokenStore{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the settings file location.
func (s *FileTokenStore) Path() string {
	return filepath.Join(s.dir, "settings.json")
}

func (s *FileTokenStore) StoreToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	switch {
	case errors.Is(err, errCorruptSettings):
		// Unrelated keys in the unparseable file are lost.
		s.logger.Warn("replacing corrupt settings file", "path", s.Path(), "error", err)
		settings = nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return err
	}
	if settings == nil {
		settings = make(map[string]json.RawMessage, 1)
	}
	value, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("serializing push token: %w", err)
	}
	settings[PushTokenKey] = value
	return s.save(settings)
}

func (s *FileTokenStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to read settings", "path", s.Path(), "error", err)
		}
		return "", false
	}
	raw, ok := settings[PushTokenKey]
	if !ok {
		return "", false
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		s.logger.Warn("stored push token is not a string", "path", s.Path(), "error", err)
		return "", false
	}
	return token, true
}

// load reads the settings file.
func (s *FileTokenStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}
	var settings map[string]json.RawMessage
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptSettings, err)
	}
	return settings, nil
}

// save writes the settings file.
func (s *FileTokenStore) save(settings map[string]json.RawMessage) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	s.logger.Debug("saved settings", "path", s.Path())
	return nil
}
