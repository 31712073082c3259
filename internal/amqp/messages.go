package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// SnapshotEventMessage tells the mirror worker that one date's rows
// changed in the local backend. The worker reloads that date from the
// local store, so the message only needs to carry the date.
type SnapshotEventMessage struct {
	Op        string    `json:"op"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotEventMessage(op, date string) *SnapshotEventMessage {
	return &SnapshotEventMessage{Op: op, Date: date, Timestamp: time.Now()}
}

func (m *SnapshotEventMessage) Validate() error {
	if m.Op != OpUpsert && m.Op != OpDelete {
		return fmt.Errorf("unknown snapshot op %q", m.Op)
	}
	if m.Date == "" {
		return fmt.Errorf("snapshot event without date")
	}
	return nil
}

func (m *SnapshotEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotEventMessageFromJSON(data []byte) (*SnapshotEventMessage, error) {
	var msg SnapshotEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
