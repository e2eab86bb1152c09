// Package sim plays randomized games against a scoring session.
package sim

import (
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/pinscore/internal/scoring"
	"github.com/verte-zerg/pinscore/internal/throws"
)

// maxThrows bounds a single game so a bad profile cannot loop forever.
const maxThrows = 500

// ErrTooManyThrows is returned when a game does not finish within maxThrows.
var ErrTooManyThrows = errors.New("game did not complete")

// Profile sets the odds of each kind of throw.
type Profile struct {
	StrikePct float64
	GutterPct float64
	UndoPct   float64
	// PinPct is the chance a standing pin falls on a regular ball. The
	// headpin uses HeadpinPct instead.
	PinPct     float64
	HeadpinPct float64
}

// DefaultProfile resembles a league bowler.
var DefaultProfile = Profile{
	StrikePct:  0.15,
	GutterPct:  0.05,
	UndoPct:    0.02,
	PinPct:     0.55,
	HeadpinPct: 0.7,
}

// Bowler produces randomized throws.
type Bowler struct {
	rnd     *rand.Rand
	profile Profile
}

// New returns a Bowler seeded with the current time.
func New(profile Profile) *Bowler {
	return NewWithSeed(time.Now().UnixNano(), profile)
}

// NewWithSeed returns a deterministic Bowler.
func NewWithSeed(seed int64, profile Profile) *Bowler {
	return &Bowler{rnd: rand.New(rand.NewSource(seed)), profile: profile}
}

// Next picks a throw for the session's current rack.
func (b *Bowler) Next(s *scoring.Session) throws.Throw {
	roll := b.rnd.Float64()
	switch {
	case s.CanUndo() && roll < b.profile.UndoPct:
		return throws.Throw{Kind: throws.KindUndo}
	case s.CanStrike() && roll < b.profile.UndoPct+b.profile.StrikePct:
		return throws.Throw{Kind: throws.KindStrike}
	case roll < b.profile.UndoPct+b.profile.StrikePct+b.profile.GutterPct:
		return throws.Throw{Kind: throws.KindGutter}
	}

	var pins scoring.PinSet
	for _, p := range s.Knockdown().Standing().Pins() {
		pct := b.profile.PinPct
		if p == scoring.PinC5 {
			pct = b.profile.HeadpinPct
		}
		if b.rnd.Float64() < pct {
			pins = pins.Add(p)
		}
	}
	if pins.IsEmpty() {
		return throws.Throw{Kind: throws.KindGutter}
	}
	return throws.Throw{Kind: throws.KindPins, Pins: pins}
}

// Play throws until the game is complete and returns the applied throws.
func (b *Bowler) Play(s *scoring.Session) ([]throws.Throw, error) {
	var played []throws.Throw
	for attempts := 0; !s.Complete(); attempts++ {
		if attempts >= maxThrows {
			return played, ErrTooManyThrows
		}
		t := b.Next(s)
		if !throws.Apply(s, t) {
			continue
		}
		t.Line = len(played) + 1
		played = append(played, t)
	}
	return played, nil
}

// PlayGame starts a session under rules and plays it to completion.
func (b *Bowler) PlayGame(rules scoring.Rules) (*scoring.Session, []throws.Throw, error) {
	s, err := scoring.NewSession(rules)
	if err != nil {
		return nil, nil, err
	}
	played, err := b.Play(s)
	if err != nil {
		return nil, nil, err
	}
	return s, played, nil
}
