package push

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// messageIDKeys are the data keys providers use for the message identifier,
// in lookup order.
var messageIDKeys = []string{"google.message_id", "gcm.message_id", "message_id"}

// KeyValue is one entry of a data message delivered as key/value pairs.
type KeyValue struct {
	Key   string
	Value string
}

// Notification is a received push notification.
type Notification struct {
	// ID identifies the message. It comes from the payload when the provider
	// supplies one and is a random UUID otherwise.
	ID   string
	Data map[string]any
}

// NewNotification wraps data, taking the ID from the provider's message ID
// key when present.
func NewNotification(data map[string]any) Notification {
	for _, k := range messageIDKeys {
		if id, ok := data[k].(string); ok && id != "" {
			return Notification{ID: id, Data: data}
		}
	}
	return Notification{ID: uuid.NewString(), Data: data}
}

// ParseDataMessage decodes a push data message. If payload is non-empty it
// must be a JSON object and is used directly. Otherwise an object is built
// from appData, embedding values that are themselves valid JSON and quoting
// the rest. Numbers are kept as json.Number.
func ParseDataMessage(payload []byte, appData []KeyValue) (Notification, error) {
	data := payload
	if len(data) == 0 {
		m := make(map[string]json.RawMessage, len(appData))
		for _, kv := range appData {
			if json.Valid([]byte(kv.Value)) {
				m[kv.Key] = json.RawMessage(kv.Value)
			} else {
				quoted, _ := json.Marshal(kv.Value)
				m[kv.Key] = json.RawMessage(quoted)
			}
		}
		encoded, err := json.Marshal(m)
		if err != nil {
			return Notification{}, fmt.Errorf("assembling push payload: %w", err)
		}
		data = encoded
	}

	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return Notification{}, fmt.Errorf("parsing push payload: %w", err)
	}
	if fields == nil {
		return Notification{}, fmt.Errorf("parsing push payload: not a JSON object")
	}
	return NewNotification(fields), nil
}

// StringKeyed returns the entries of m whose keys are strings. Notification
// user info dictionaries may carry non-string keys; those are dropped.
func StringKeyed(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := k.(string); ok {
			out[s] = v
		}
	}
	return out
}
