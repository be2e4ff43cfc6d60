package minisdk

import "fmt"

// Fixed event names emitted by the SDK's convenience operations.
const (
	EventPushReceived    = "push_received"
	EventPushOpened      = "push_opened"
	EventAppForegrounded = "app_foregrounded"
	EventAppBackgrounded = "app_backgrounded"
)

// SdkConfig is the SDK's configuration. It is owned by an SDK and only
// changed by Initialize.
type SdkConfig struct {
	APIKey         string `json:"api_key" yaml:"api_key"`
	Base64Encoding bool   `json:"base64_encoding" yaml:"base64_encoding"`
	Initialized    bool   `json:"initialized" yaml:"initialized"`
}

// EventRecord is a single tracked event. A nil Payload means the event has
// no payload; an empty map is rendered as "{}".
type EventRecord struct {
	Name    string
	Payload map[string]any
}

// Message renders the record as a log line.
func (r EventRecord) Message() string {
	if r.Payload == nil {
		return "Event: " + r.Name
	}
	return fmt.Sprintf("Event: %s, Payload: %s", r.Name, EncodePayload(r.Payload))
}
