package models

// Record is the storage schema persisted through the log port.
// Field names match the wire format the agent APK reads and writes,
// so they must not change.
//
// Timestamp is a legacy field: early agent builds wrote a single
// "timestamp" instead of commandTimestamp. It is read as an ordering
// fallback and never written by current code.
type Record struct {
	Key               string         `json:"key"`
	Command           Command        `json:"command"`
	CommandTimestamp  int64          `json:"commandTimestamp"`
	Status            DeliveryStatus `json:"status"`
	Response          *string        `json:"response,omitempty"`
	ResponseTimestamp *int64         `json:"responseTimestamp,omitempty"`
	Timestamp         int64          `json:"timestamp,omitempty"`
}

// Message is the in-memory projection of a Record. It is derived fresh
// from the log port on every notification and never persisted by the
// console itself.
type Message struct {
	ID          string         `json:"id"`
	Command     Command        `json:"command"`
	IssuedAt    int64          `json:"issuedAt"`
	Status      DeliveryStatus `json:"status"`
	Response    *string        `json:"response,omitempty"`
	RespondedAt *int64         `json:"respondedAt,omitempty"`
}

// HasResponse reports whether the remote agent has replied.
// The response and respondedAt fields are always paired.
func (m *Message) HasResponse() bool {
	return m.Response != nil && m.RespondedAt != nil
}

// ToRecord converts the message back to its storage shape.
func (m *Message) ToRecord() Record {
	return Record{
		Key:               m.ID,
		Command:           m.Command,
		CommandTimestamp:  m.IssuedAt,
		Status:            m.Status,
		Response:          m.Response,
		ResponseTimestamp: m.RespondedAt,
	}
}
