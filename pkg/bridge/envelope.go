package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownMessage is returned when decoding an envelope of an unknown type
var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the wire form of a Message
type Envelope struct {
	ID      string          `json:"id"`
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode wraps m in an envelope with a fresh ID
func Encode(m Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Type(), err)
	}
	return json.Marshal(Envelope{
		ID:      uuid.NewString(),
		Type:    m.Type(),
		Payload: payload,
	})
}

// Decode unwraps an envelope into its typed message
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var m Message
	switch env.Type {
	case TypeUpdateSettings:
		m = &UpdateSettings{}
	case TypeCheckNow:
		return CheckNow{}, nil
	case TypeTriggerAlarm:
		m = &TriggerAlarm{}
	case TypeShowNotification:
		m = &ShowNotification{}
	case TypeRequestAlarmData:
		return RequestAlarmData{}, nil
	case TypeCheckAlarms:
		return CheckAlarms{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, m); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}

	switch v := m.(type) {
	case *UpdateSettings:
		return *v, nil
	case *TriggerAlarm:
		return *v, nil
	case *ShowNotification:
		return *v, nil
	}
	return m, nil
}
