package ws

import (
	"encoding/json"

	"github.com/Uni298/Outdraw/game"
)

// Envelope is the JSON frame both directions use: {"type": ..., "data": ...}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads.

type createRoomData struct {
	PlayerName string `json:"playerName"`
}

type joinRoomData struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type selectCategoryData struct {
	Category string `json:"category"`
}

type strokeData struct {
	Stroke game.Stroke `json:"stroke"`
}

type guessData struct {
	Guess string `json:"guess"`
}

type chatData struct {
	Message string `json:"message"`
}

type reactionData struct {
	Emoji string `json:"emoji"`
}

// event marshals an outbound frame. Marshal errors are programming errors
// (all payloads are plain structs), so they surface as an empty frame.
func event(typ string, payload any) []byte {
	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	frame, _ := json.Marshal(Envelope{Type: typ, Data: data})
	return frame
}

func errorEvent(err error) []byte {
	return event("error", map[string]string{"message": err.Error()})
}
