package engine

import "fmt"

// Tag is the location of a card as seen by the acting player.
type Tag uint8

const (
	TagUnknown  Tag = iota // 0: U
	TagStock               // 1: S
	TagP1Hand              // 2: P1H
	TagP2Hand              // 3: P2H
	TagP1Won               // 4: P1W
	TagP2Won               // 5: P2W

	NumTags = 6
)

var tagNames = [NumTags]string{"U", "S", "P1H", "P2H", "P1W", "P2W"}

// Valid reports whether t is one of the six location tags.
func (t Tag) Valid() bool { return t < NumTags }

func (t Tag) String() string {
	if !t.Valid() {
		return "?"
	}
	return tagNames[t]
}

// MarshalText encodes the tag by its short name.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid perspective tag %d", uint8(t))
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText accepts the short names U, S, P1H, P2H, P1W and P2W.
func (t *Tag) UnmarshalText(b []byte) error {
	for i, n := range tagNames {
		if string(b) == n {
			*t = Tag(i)
			return nil
		}
	}
	return fmt.Errorf("unknown perspective tag %q", string(b))
}

// HandTag returns the tag for cards held by p.
func HandTag(p Player) Tag {
	if p == Player1 {
		return TagP1Hand
	}
	return TagP2Hand
}

// WonTag returns the tag for cards captured by p.
func WonTag(p Player) Tag {
	if p == Player1 {
		return TagP1Won
	}
	return TagP2Won
}
