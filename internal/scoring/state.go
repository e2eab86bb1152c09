package scoring

import "fmt"

// Frame holds the balls thrown in one turn.
type Frame struct {
	Balls [MaxBalls]Ball
}

// Score sums the point values of the frame's balls.
func (f Frame) Score() int {
	total := 0
	for _, b := range f.Balls {
		total += b.Value()
	}
	return total
}

// Thrown returns the number of filled ball slots.
func (f Frame) Thrown() int {
	n := 0
	for _, b := range f.Balls {
		if !b.IsEmpty() {
			n++
		}
	}
	return n
}

// Started reports whether any ball has been recorded.
func (f Frame) Started() bool {
	return f.Thrown() > 0
}

// GameState is an immutable snapshot of a game. Copying the value copies the
// whole ledger, so a GameState can be kept as history without cloning.
type GameState struct {
	frames    [FrameCount]Frame
	frameIdx  int
	ballIdx   int
	knockdown PinSet
	rules     Rules
}

// NewGame returns the initial state: ten empty frames, frame 0, ball 0.
func NewGame(rules Rules) GameState {
	return GameState{rules: rules}
}

// Frames returns a copy of the frame ledger.
func (s GameState) Frames() [FrameCount]Frame {
	return s.frames
}

// Frame returns the frame at index i.
func (s GameState) Frame(i int) Frame {
	return s.frames[i]
}

// FrameIndex returns the active frame.
func (s GameState) FrameIndex() int {
	return s.frameIdx
}

// BallIndex returns the active ball slot within the frame.
func (s GameState) BallIndex() int {
	return s.ballIdx
}

// Knockdown returns the pins already down in the current rack.
func (s GameState) Knockdown() PinSet {
	return s.knockdown
}

// Rules returns the rules the game was created with.
func (s GameState) Rules() Rules {
	return s.rules
}

// Complete reports whether the final frame's third ball has been recorded.
func (s GameState) Complete() bool {
	return !s.frames[LastFrame].Balls[MaxBalls-1].IsEmpty()
}

// Cumulative returns the running total through each frame.
func (s GameState) Cumulative() [FrameCount]int {
	var out [FrameCount]int
	running := 0
	for i, f := range s.frames {
		running += f.Score()
		out[i] = running
	}
	return out
}

// Total returns the game total.
func (s GameState) Total() int {
	return s.Cumulative()[LastFrame]
}

// Commit records ball as the result of the active ball and returns the next
// state. pending is the set of pins knocked down by that ball. Committing an
// Empty ball or committing to a complete game returns s unchanged.
func Commit(s GameState, pending PinSet, ball Ball) GameState {
	s.mustValid()
	if s.Complete() || ball.IsEmpty() {
		return s
	}
	next := s
	next.frames[s.frameIdx].Balls[s.ballIdx] = ball

	downed := s.knockdown.Union(pending)
	rackCleared := downed.Full() || ball.ClearsRack()

	if s.frameIdx < LastFrame {
		if rackCleared || s.ballIdx >= s.ballsPerFrame()-1 {
			next.frameIdx++
			next.ballIdx = 0
			next.knockdown = 0
			return next
		}
		next.ballIdx++
		next.knockdown = downed
		return next
	}

	// Final frame: the rack is reset after a clearance, and the third ball ends the game.
	if s.ballIdx < MaxBalls-1 {
		next.ballIdx++
		if rackCleared {
			next.knockdown = 0
		} else {
			next.knockdown = downed
		}
	}
	return next
}

func (s GameState) ballsPerFrame() int {
	if s.rules.BallsPerFrame == 0 {
		return DefaultBallsPerFrame
	}
	return s.rules.BallsPerFrame
}

func (s GameState) mustValid() {
	if s.frameIdx < 0 || s.frameIdx > LastFrame || s.ballIdx < 0 || s.ballIdx >= MaxBalls {
		panic(fmt.Sprintf("scoring: position (frame %d, ball %d) out of range", s.frameIdx, s.ballIdx))
	}
}
