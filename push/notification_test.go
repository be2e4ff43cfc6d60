package push

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataMessagePayload(t *testing.T) {
	n, err := ParseDataMessage([]byte(`{"google.message_id":"0:123","title":"Hi","badge":3}`), nil)
	require.NoError(t, err)

	assert.Equal(t, "0:123", n.ID)
	assert.Equal(t, "Hi", n.Data["title"])
	assert.Equal(t, json.Number("3"), n.Data["badge"])
}

func TestParseDataMessageAppData(t *testing.T) {
	n, err := ParseDataMessage(nil, []KeyValue{
		{Key: "gcm.message_id", Value: "m-1"},
		{Key: "title", Value: "Test Push"},
		{Key: "aps", Value: `{"badge":1}`},
		{Key: "count", Value: "7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "m-1", n.ID)
	assert.Equal(t, "Test Push", n.Data["title"])
	assert.Equal(t, map[string]any{"badge": json.Number("1")}, n.Data["aps"])
	assert.Equal(t, json.Number("7"), n.Data["count"])
}

func TestParseDataMessageErrors(t *testing.T) {
	_, err := ParseDataMessage([]byte(`not json`), nil)
	assert.Error(t, err)

	_, err = ParseDataMessage([]byte(`null`), nil)
	assert.Error(t, err)

	_, err = ParseDataMessage([]byte(`[1,2]`), nil)
	assert.Error(t, err)
}

func TestNewNotificationAssignsUUID(t *testing.T) {
	n := NewNotification(map[string]any{"title": "x"})

	_, err := uuid.Parse(n.ID)
	assert.NoError(t, err)
}

func TestNewNotificationIDLookupOrder(t *testing.T) {
	n := NewNotification(map[string]any{"message_id": "c", "gcm.message_id": "b"})
	assert.Equal(t, "b", n.ID)

	n = NewNotification(map[string]any{"google.message_id": ""})
	assert.NotEmpty(t, n.ID)
}

func TestStringKeyed(t *testing.T) {
	got := StringKeyed(map[any]any{"title": "x", 42: "dropped", "body": 1})

	assert.Equal(t, map[string]any{"title": "x", "body": 1}, got)
}
