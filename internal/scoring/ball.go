package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Ball.
type Kind uint8

// Ball kinds.
const (
	KindEmpty Kind = iota
	KindPins
	KindStrike
	KindSpare
	KindAce
	KindHeadpin
	KindMiss
)

// Ball is the result recorded in one ball slot of a frame.
type Ball struct {
	kind Kind
	pins int
}

// Symbolic results.
var (
	Empty   = Ball{kind: KindEmpty}
	Strike  = Ball{kind: KindStrike}
	Spare   = Ball{kind: KindSpare}
	Ace     = Ball{kind: KindAce}
	Headpin = Ball{kind: KindHeadpin}
	Miss    = Ball{kind: KindMiss}
)

// Pins returns a numeric result worth n points. Zero is a miss.
func Pins(n int) Ball {
	if n < 0 || n > RackValue {
		panic(fmt.Sprintf("scoring: pin count %d out of range [0,%d]", n, RackValue))
	}
	if n == 0 {
		return Miss
	}
	return Ball{kind: KindPins, pins: n}
}

// Kind returns the variant tag.
func (b Ball) Kind() Kind {
	return b.kind
}

// IsEmpty reports whether the slot has not been thrown.
func (b Ball) IsEmpty() bool {
	return b.kind == KindEmpty
}

// ClearsRack reports whether the result leaves no pins standing.
func (b Ball) ClearsRack() bool {
	return b.kind == KindStrike || b.kind == KindSpare
}

// Value maps the result to points.
func (b Ball) Value() int {
	switch b.kind {
	case KindStrike, KindSpare:
		return RackValue
	case KindAce:
		return aceSet.Value()
	case KindHeadpin:
		return headpinSet.Value()
	case KindPins:
		return b.pins
	default:
		return 0
	}
}

// String returns the scorecard symbol.
func (b Ball) String() string {
	switch b.kind {
	case KindStrike:
		return "X"
	case KindSpare:
		return "/"
	case KindAce:
		return "A"
	case KindHeadpin:
		return "H"
	case KindMiss:
		return "-"
	case KindPins:
		return strconv.Itoa(b.pins)
	default:
		return ""
	}
}

// ParseBall parses a scorecard symbol produced by String.
func ParseBall(s string) (Ball, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return Empty, nil
	case "X":
		return Strike, nil
	case "/":
		return Spare, nil
	case "A":
		return Ace, nil
	case "H":
		return Headpin, nil
	case "-", "0":
		return Miss, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > RackValue {
		return Empty, fmt.Errorf("invalid ball symbol %q", s)
	}
	return Pins(n), nil
}
