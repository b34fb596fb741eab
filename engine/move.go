package engine

import (
	"encoding/json"
	"fmt"
)

// MoveKind distinguishes plain card plays from compound declarations.
type MoveKind uint8

const (
	MovePlay          MoveKind = iota // 0: play Card
	MoveMarriage                      // 1: play Card (queen), declaring it with Partner (king)
	MoveTrumpExchange                 // 2: swap Partner (trump jack) for the face-up trump
)

var moveKindNames = [...]string{"play", "marriage", "trump_exchange"}

func (k MoveKind) String() string {
	if int(k) >= len(moveKindNames) {
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
	return moveKindNames[k]
}

// MarshalText encodes the kind by name.
func (k MoveKind) MarshalText() ([]byte, error) {
	if int(k) >= len(moveKindNames) {
		return nil, fmt.Errorf("invalid move kind %d", uint8(k))
	}
	return []byte(moveKindNames[k]), nil
}

// UnmarshalText accepts "play", "marriage" or "trump_exchange".
func (k *MoveKind) UnmarshalText(b []byte) error {
	for i, n := range moveKindNames {
		if string(b) == n {
			*k = MoveKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown move kind %q", string(b))
}

// Move is a single legal action. Partner is NoCard for plain plays and
// Card is NoCard for trump exchanges.
type Move struct {
	Kind    MoveKind
	Card    Card
	Partner Card
}

// Play returns a plain card play.
func Play(c Card) Move { return Move{Kind: MovePlay, Card: c, Partner: NoCard} }

// Marriage returns a marriage declaration playing queen and showing king.
func Marriage(queen, king Card) Move { return Move{Kind: MoveMarriage, Card: queen, Partner: king} }

// TrumpExchange returns the exchange of the trump jack for the face-up trump.
func TrumpExchange(jack Card) Move { return Move{Kind: MoveTrumpExchange, Card: NoCard, Partner: jack} }

// IsCompound reports whether the move names two card slots.
func (m Move) IsCompound() bool { return m.Kind != MovePlay }

// Validate checks that the card slots fit the move kind.
func (m Move) Validate() error {
	switch m.Kind {
	case MovePlay:
		if !m.Card.Valid() || m.Partner != NoCard {
			return fmt.Errorf("play move needs exactly one card (card=%d partner=%d)", m.Card, m.Partner)
		}
	case MoveMarriage:
		if !m.Card.Valid() || !m.Partner.Valid() {
			return fmt.Errorf("marriage move needs two cards (card=%d partner=%d)", m.Card, m.Partner)
		}
		if m.Card.Suit() != m.Partner.Suit() {
			return fmt.Errorf("marriage cards %s and %s differ in suit", m.Card, m.Partner)
		}
	case MoveTrumpExchange:
		if m.Card != NoCard || !m.Partner.Valid() {
			return fmt.Errorf("trump exchange needs only the jack (card=%d partner=%d)", m.Card, m.Partner)
		}
	default:
		return fmt.Errorf("invalid move kind %d", uint8(m.Kind))
	}
	return nil
}

func (m Move) String() string {
	switch m.Kind {
	case MovePlay:
		return m.Card.String()
	case MoveMarriage:
		return m.Card.String() + "+" + m.Partner.String()
	case MoveTrumpExchange:
		return "x" + m.Partner.String()
	}
	return m.Kind.String()
}

// moveJSON is the wire form of Move; absent cards are omitted.
type moveJSON struct {
	Kind    MoveKind `json:"kind"`
	Card    *Card    `json:"card,omitempty"`
	Partner *Card    `json:"partner,omitempty"`
}

// MarshalJSON emits {"kind":..., "card":..., "partner":...}.
func (m Move) MarshalJSON() ([]byte, error) {
	w := moveJSON{Kind: m.Kind}
	if m.Card != NoCard {
		c := m.Card
		w.Card = &c
	}
	if m.Partner != NoCard {
		p := m.Partner
		w.Partner = &p
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON. It does not validate.
func (m *Move) UnmarshalJSON(b []byte) error {
	var w moveJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*m = Move{Kind: w.Kind, Card: NoCard, Partner: NoCard}
	if w.Card != nil {
		m.Card = *w.Card
	}
	if w.Partner != nil {
		m.Partner = *w.Partner
	}
	return nil
}
