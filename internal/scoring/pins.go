// Package scoring implements the 5-pin frame-by-frame scoring model.
package scoring

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	// PinCount is the number of pins in a 5-pin rack.
	PinCount = 5
	// FrameCount is the number of frames in a game.
	FrameCount = 10
	// MaxBalls is the number of ball slots per frame.
	MaxBalls = 3
	// RackValue is the point value of a full rack.
	RackValue = 15
	// LastFrame is the index of the final frame.
	LastFrame = FrameCount - 1
	// MaxScore is the best possible game under flat per-ball scoring.
	MaxScore = LastFrame*RackValue + MaxBalls*RackValue
)

// Pin is a rack position, left to right.
type Pin int

// Rack positions.
const (
	PinL2 Pin = iota
	PinL3
	PinC5
	PinR3
	PinR2
)

var (
	pinValues = [PinCount]int{2, 3, 5, 3, 2}
	pinLabels = [PinCount]string{"L2", "L3", "C5", "R3", "R2"}
)

// Valid reports whether p is a rack position.
func (p Pin) Valid() bool {
	return p >= 0 && p < PinCount
}

// Value returns the point value of the pin.
func (p Pin) Value() int {
	p.mustValid()
	return pinValues[p]
}

// String returns the pin label (L2, L3, C5, R3, R2).
func (p Pin) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pin(%d)", int(p))
	}
	return pinLabels[p]
}

func (p Pin) mustValid() {
	if !p.Valid() {
		panic(fmt.Sprintf("scoring: pin position %d out of range [0,%d]", int(p), PinCount-1))
	}
}

// ParsePin accepts a pin label (case-insensitive) or a 1-based position.
func ParsePin(s string) (Pin, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, label := range pinLabels {
		if s == label {
			return Pin(i), true
		}
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '0'+PinCount {
		return Pin(s[0] - '1'), true
	}
	return 0, false
}

// PinSet is a set of rack positions. The zero value is empty.
type PinSet uint8

// AllPins is the full rack.
const AllPins PinSet = 1<<PinCount - 1

var (
	aceSet     = NewPinSet(PinL3, PinC5, PinR3)
	headpinSet = NewPinSet(PinC5)
)

// NewPinSet builds a set from positions.
func NewPinSet(pins ...Pin) PinSet {
	var s PinSet
	for _, p := range pins {
		s = s.Add(p)
	}
	return s
}

// Add returns s with p added.
func (s PinSet) Add(p Pin) PinSet {
	p.mustValid()
	return s | 1<<uint(p)
}

// Has reports whether p is in the set.
func (s PinSet) Has(p Pin) bool {
	if !p.Valid() {
		return false
	}
	return s&(1<<uint(p)) != 0
}

// Union returns s ∪ o.
func (s PinSet) Union(o PinSet) PinSet {
	return (s | o) & AllPins
}

// Len returns the number of pins in the set.
func (s PinSet) Len() int {
	return bits.OnesCount8(uint8(s & AllPins))
}

// IsEmpty reports whether the set has no pins.
func (s PinSet) IsEmpty() bool {
	return s&AllPins == 0
}

// Full reports whether every pin of the rack is in the set.
func (s PinSet) Full() bool {
	return s&AllPins == AllPins
}

// Standing returns the pins not in s.
func (s PinSet) Standing() PinSet {
	return AllPins &^ s
}

// Value sums the point values of the pins in the set.
func (s PinSet) Value() int {
	total := 0
	for i := 0; i < PinCount; i++ {
		if s.Has(Pin(i)) {
			total += pinValues[i]
		}
	}
	return total
}

// Pins lists the set's positions in rack order.
func (s PinSet) Pins() []Pin {
	out := make([]Pin, 0, s.Len())
	for i := 0; i < PinCount; i++ {
		if s.Has(Pin(i)) {
			out = append(out, Pin(i))
		}
	}
	return out
}

// String renders the set as space-separated pin labels.
func (s PinSet) String() string {
	pins := s.Pins()
	labels := make([]string, len(pins))
	for i, p := range pins {
		labels[i] = p.String()
	}
	return "{" + strings.Join(labels, " ") + "}"
}
