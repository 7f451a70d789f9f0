package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lucamoroni/kaiwa/internal/chat"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientStartLesson MessageType = "client_start_lesson"
	TypeClientMessage     MessageType = "client_message"
	TypeClientSummary     MessageType = "client_summary"

	TypeChatAppend         MessageType = "chat_append"
	TypeChatReplace        MessageType = "chat_replace"
	TypeChatRemove         MessageType = "chat_remove"
	TypeSuggestions        MessageType = "suggestions"
	TypeInputState         MessageType = "input_state"
	TypeCredentialRequired MessageType = "credential_required"
	TypeTurnEnd            MessageType = "turn_end"
	TypeErrorEvent         MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientStartLesson begins a lesson in the session. Either LessonID refers
// to a catalog entry or CustomTopic opens a free-exploration lesson.
type ClientStartLesson struct {
	Type        MessageType `json:"type"`
	SessionID   string      `json:"session_id"`
	LessonID    string      `json:"lesson_id,omitempty"`
	CustomTopic string      `json:"custom_topic,omitempty"`
}

// ClientMessage is one typed or suggestion-picked learner turn.
type ClientMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Text      string      `json:"text"`
}

// ClientSummary requests a lesson summary bubble.
type ClientSummary struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
}

// ChatAppend adds a message at the end of the client's conversation view.
type ChatAppend struct {
	Type      MessageType  `json:"type"`
	SessionID string       `json:"session_id"`
	Message   chat.Message `json:"message"`
}

// ChatReplace swaps the message with TargetID for Message, in place.
type ChatReplace struct {
	Type      MessageType  `json:"type"`
	SessionID string       `json:"session_id"`
	TargetID  string       `json:"target_id"`
	Message   chat.Message `json:"message"`
}

// ChatRemove drops the message with TargetID from the conversation view.
type ChatRemove struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TargetID  string      `json:"target_id"`
}

// Suggestions replaces the quick-reply chips under the input box.
type Suggestions struct {
	Type        MessageType       `json:"type"`
	SessionID   string            `json:"session_id"`
	Suggestions []chat.Suggestion `json:"suggestions"`
}

// InputState locks or unlocks the client's input box.
type InputState struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Enabled   bool        `json:"enabled"`
}

// CredentialRequired tells the client to prompt for a provider API key.
type CredentialRequired struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Reason    string      `json:"reason,omitempty"`
}

// TurnEnd marks a completed model turn.
type TurnEnd struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TurnID    string      `json:"turn_id"`
	Reason    string      `json:"reason,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientStartLesson:
		var msg ClientStartLesson
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || (msg.LessonID == "" && msg.CustomTopic == "") {
			return nil, errors.New("invalid client_start_lesson")
		}
		return msg, nil
	case TypeClientMessage:
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.Text == "" {
			return nil, errors.New("invalid client_message")
		}
		return msg, nil
	case TypeClientSummary:
		var msg ClientSummary
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid client_summary")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
