package botserver

import (
	"github.com/google/uuid"

	engine "github.com/schnapsen-lab/mlbot/engine"
)

// MessageType identifies a frame on the /ws connection.
type MessageType string

const (
	// Client to server.
	TypeDecide MessageType = "decide"
	TypeResult MessageType = "result"
	TypeTally  MessageType = "tally"

	// Server to client.
	TypeMove  MessageType = "move"
	TypeAck   MessageType = "ack"
	TypeError MessageType = "error"
)

// Request is any client frame. Fields not used by Type are ignored.
type Request struct {
	Type MessageType `json:"type"`
	ID   string      `json:"id,omitempty"` // echoed in the reply

	// decide
	State *engine.Snapshot `json:"state,omitempty"`

	// result
	Opponent   string `json:"opponent,omitempty"`
	Won        *bool  `json:"won,omitempty"`
	GamePoints int    `json:"gamePoints,omitempty"`
}

// MoveReply answers decide.
type MoveReply struct {
	Type       MessageType `json:"type"`
	ID         string      `json:"id,omitempty"`
	Decision   uuid.UUID   `json:"decision"`
	Move       engine.Move `json:"move"`
	Value      float64     `json:"value"`
	Candidates int         `json:"candidates"`
}

// AckReply answers result.
type AckReply struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id,omitempty"`
	Outcome uuid.UUID   `json:"outcome"`
}

// TallyReply answers tally. PValue is P(X >= won) for a fair coin over games.
type TallyReply struct {
	Type   MessageType `json:"type"`
	ID     string      `json:"id,omitempty"`
	Bot    string      `json:"bot"`
	Games  int         `json:"games"`
	Won    int         `json:"won"`
	PValue float64     `json:"pValue"`
}

// ErrorReply reports a rejected frame; the connection stays open.
type ErrorReply struct {
	Type  MessageType `json:"type"`
	ID    string      `json:"id,omitempty"`
	Error string      `json:"error"`
}
