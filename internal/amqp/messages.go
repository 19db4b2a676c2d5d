package amqp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
)

// RawMessage carries an unparsed SMS or email body to the ingestion worker.
type RawMessage struct {
	ID         string    `json:"id"`
	Kind       core.Kind `json:"kind"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

func NewRawMessage(kind core.Kind, text string) *RawMessage {
	return &RawMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}
}

func (m *RawMessage) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("message kind %q: %w", m.Kind, core.ErrInvalidKind)
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("message %s has empty text", m.ID)
	}
	return nil
}

func (m *RawMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RawMessageFromJSON(data []byte) (*RawMessage, error) {
	var msg RawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
