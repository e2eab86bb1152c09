package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// GameType identifies the bowling discipline.
type GameType string

// Supported and recognized game types.
const (
	FivePin GameType = "5-pin"
	TenPin  GameType = "10-pin"
)

// DefaultBallsPerFrame is the 5-pin ball allowance for frames 1-9.
const DefaultBallsPerFrame = 3

var (
	// ErrUnsupportedGameType is returned for game types without a scoring model.
	ErrUnsupportedGameType = errors.New("unsupported game type")
	// ErrInvalidBallsPerFrame is returned when the ball allowance is not 2 or 3.
	ErrInvalidBallsPerFrame = errors.New("balls per frame must be 2 or 3")
)

// Rules configures a scoring session. It is fixed at session creation.
type Rules struct {
	GameType GameType
	// BallsPerFrame applies to frames 1-9; the final frame always allows three.
	BallsPerFrame int
}

// DefaultRules returns standard 5-pin rules.
func DefaultRules() Rules {
	return Rules{GameType: FivePin, BallsPerFrame: DefaultBallsPerFrame}
}

// ParseGameType normalizes a game type name.
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "5-pin", "5pin", "5", "five-pin":
		return FivePin, nil
	case "10-pin", "10pin", "10", "ten-pin":
		return TenPin, nil
	default:
		return "", fmt.Errorf("unknown game type %q (use 5-pin or 10-pin)", s)
	}
}

// Validate checks that the rules describe a playable game.
func (r Rules) Validate() error {
	switch r.GameType {
	case FivePin:
	case TenPin:
		// 10-pin carries strike/spare bonuses into later balls; it needs its own model.
		return fmt.Errorf("%w: %s", ErrUnsupportedGameType, r.GameType)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedGameType, r.GameType)
	}
	if r.BallsPerFrame < 2 || r.BallsPerFrame > MaxBalls {
		return fmt.Errorf("%w (got %d)", ErrInvalidBallsPerFrame, r.BallsPerFrame)
	}
	return nil
}
