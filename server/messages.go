package server

import (
	"encoding/json"
	"fmt"

	"github.com/plus3/tetracube/game"
	"github.com/plus3/tetracube/leaderboard"
	"github.com/plus3/tetracube/shape"
)

// MessageType names a message on the socket.
type MessageType string

const (
	// client to server
	MessageTypeJoin    MessageType = "join"
	MessageTypeStart   MessageType = "start"
	MessageTypeAction  MessageType = "action"
	MessageTypeRestart MessageType = "restart"

	// server to client
	MessageTypeState       MessageType = "state"
	MessageTypeScore       MessageType = "score"
	MessageTypeNext        MessageType = "next"
	MessageTypeRows        MessageType = "rows"
	MessageTypeGameOver    MessageType = "game_over"
	MessageTypeLeaderboard MessageType = "leaderboard"
	MessageTypeBest        MessageType = "best"
	MessageTypeError       MessageType = "error"
)

// BaseMessage is the envelope of every incoming message.
type BaseMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutgoingMessage is the envelope of every message the server sends.
type OutgoingMessage struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type JoinMessage struct {
	Player string `json:"player"`
}

type ActionMessage struct {
	Action string `json:"action"`
}

type ScoreMessage struct {
	Score int `json:"score"`
}

type NextMessage struct {
	Next string `json:"next"`
}

type RowsMessage struct {
	Rows int `json:"rows"`
}

type GameOverMessage struct {
	Score     int  `json:"score"`
	Highscore bool `json:"highscore"`
	Rank      int  `json:"rank,omitempty"`
}

type LeaderboardMessage struct {
	Records []leaderboard.Record `json:"records"`
}

// BestMessage carries the joining player's best kept record.
type BestMessage struct {
	Record leaderboard.Record `json:"record"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// ClientMessage is a decoded request from a client.
type ClientMessage struct {
	Type   MessageType
	Action game.Action
	Player string
}

// ParseMessage decodes one client message.
func ParseMessage(data []byte) (ClientMessage, error) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return ClientMessage{}, fmt.Errorf("decode message: %w", err)
	}

	msg := ClientMessage{Type: base.Type}
	switch base.Type {
	case MessageTypeStart, MessageTypeRestart, MessageTypeLeaderboard:
	case MessageTypeJoin:
		var join JoinMessage
		if err := json.Unmarshal(base.Payload, &join); err != nil {
			return ClientMessage{}, fmt.Errorf("decode join: %w", err)
		}
		if join.Player == "" {
			return ClientMessage{}, fmt.Errorf("join: player is required")
		}
		msg.Player = join.Player
	case MessageTypeAction:
		var action ActionMessage
		if err := json.Unmarshal(base.Payload, &action); err != nil {
			return ClientMessage{}, fmt.Errorf("decode action: %w", err)
		}
		a, err := game.ParseAction(action.Action)
		if err != nil {
			return ClientMessage{}, err
		}
		msg.Action = a
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type %q", base.Type)
	}
	return msg, nil
}

func nextMessage(next shape.Type) OutgoingMessage {
	return OutgoingMessage{Type: MessageTypeNext, Payload: NextMessage{Next: next.String()}}
}
