package types

import (
	"encoding/json"
	"fmt"
)

// EventKind distinguishes the payloads sent on the event stream.
type EventKind int

const (
	EventToken EventKind = iota
	EventComplete
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventToken:
		return "token"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one item on the event stream. Tokens encode as a bare JSON
// string; terminal events encode as {"type":...} objects.
type Event struct {
	Kind    EventKind
	Token   string
	Message string
}

// TokenEvent wraps a chunk of generated text.
func TokenEvent(s string) Event { return Event{Kind: EventToken, Token: s} }

// CompleteEvent marks the normal end of a generation session.
func CompleteEvent() Event { return Event{Kind: EventComplete} }

// ErrorEvent marks the abnormal end of a generation session.
func ErrorEvent(msg string) Event { return Event{Kind: EventError, Message: msg} }

// Terminal reports whether the event ends a session.
func (e Event) Terminal() bool { return e.Kind != EventToken }

func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventToken:
		return json.Marshal(e.Token)
	case EventComplete:
		return json.Marshal(map[string]string{"type": "complete"})
	case EventError:
		return json.Marshal(map[string]string{"type": "error", "message": e.Message})
	default:
		return nil, fmt.Errorf("unknown event kind %d", int(e.Kind))
	}
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = TokenEvent(s)
		return nil
	}
	var obj struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	switch obj.Type {
	case "complete":
		*e = CompleteEvent()
	case "error":
		*e = ErrorEvent(obj.Message)
	default:
		return fmt.Errorf("unknown event type %q", obj.Type)
	}
	return nil
}
