package minisdk

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.StoreToken("one"))
	require.NoError(t, store.StoreToken("two"))
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "two", token)
}

func TestFileTokenStorePersistence(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileTokenStore(dir)

	_, ok := writer.Token()
	assert.False(t, ok)

	require.NoError(t, writer.StoreToken("persisted-token"))

	reader := NewFileTokenStore(dir)
	token, ok := reader.Token()
	assert.True(t, ok)
	assert.Equal(t, "persisted-token", token)

	info, err := os.Stat(reader.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreKeepsOtherKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","launches":3}`), 0o600))

	store := NewFileTokenStore(dir)
	require.NoError(t, store.StoreToken("tok"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, float64(3), settings["launches"])
	assert.Equal(t, "tok", settings[PushTokenKey])
}

func TestFileTokenStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileTokenStore(dir)

	require.NoError(t, store.StoreToken("tok"))
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("not json"), 0o600))

	store := NewFileTokenStore(dir)
	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.StoreToken("tok"))
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var settings map[string]string
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, map[string]string{PushTokenKey: "tok"}, settings)
}

func TestFileTokenStoreNonObjectFileIsReplaced(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`["a"]`), 0o600))

	store := NewFileTokenStore(dir)
	require.NoError(t, store.StoreToken("tok"))
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestFileTokenStoreUnreadableFileFails(t *testing.T) {
	dir := t.TempDir()
	// A directory where the settings file should be cannot be read or replaced.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "settings.json"), 0o755))

	store := NewFileTokenStore(dir)
	assert.Error(t, store.StoreToken("tok"))
}

func TestFileTokenStoreNonStringValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"miniSDK_pushToken":12}`), 0o600))

	_, ok := NewFileTokenStore(dir).Token()
	assert.False(t, ok)
}

func TestSDKWithFileTokenStore(t *testing.T) {
	dir := t.TempDir()
	sdk := New(&RecordingLogger{}, NewFileTokenStore(dir))

	require.NoError(t, sdk.SendPushToken("file-token").Wait(waitCtx(t)))
	require.NoError(t, sdk.Close(waitCtx(t)))

	token, ok := NewFileTokenStore(dir).Token()
	assert.True(t, ok)
	assert.Equal(t, "file-token", token)
}
