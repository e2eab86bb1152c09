package scoring

// Session is one interactive scoring game: the committed state, the pins
// selected for the ball in progress, and an undo stack of prior states.
//
// Invalid interactions are no-ops; mutating methods report whether anything
// changed. A Session is not safe for concurrent use.
type Session struct {
	state   GameState
	pending PinSet
	history []GameState
}

// NewSession starts a game under the given rules.
func NewSession(rules Rules) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Session{state: NewGame(rules)}, nil
}

// TapPin marks p as knocked down by the ball in progress. Pins already down
// this rack or already selected are ignored. p must be a rack position.
func (s *Session) TapPin(p Pin) bool {
	p.mustValid()
	if s.state.Complete() {
		return false
	}
	if s.state.knockdown.Has(p) || s.pending.Has(p) {
		return false
	}
	s.pending = s.pending.Add(p)
	return true
}

// ClearSelection drops the pending selection without touching the ledger.
func (s *Session) ClearSelection() bool {
	if s.pending.IsEmpty() {
		return false
	}
	s.pending = 0
	return true
}

// ConfirmBall commits the pending selection using its classified symbol.
func (s *Session) ConfirmBall() bool {
	if s.pending.IsEmpty() || s.state.Complete() {
		return false
	}
	s.commit(s.PendingBall())
	return true
}

// StrikeShortcut knocks down every standing pin and commits the ball. On a
// fresh rack this is a strike; mid-frame it completes the rack.
func (s *Session) StrikeShortcut() bool {
	if s.state.Complete() {
		return false
	}
	if s.state.knockdown.IsEmpty() {
		s.pending = AllPins
		s.commit(Strike)
		return true
	}
	s.pending = s.state.knockdown.Standing()
	s.commit(s.PendingBall())
	return true
}

// GutterShortcut discards the pending selection and commits a miss.
func (s *Session) GutterShortcut() bool {
	if s.state.Complete() {
		return false
	}
	s.pending = 0
	s.commit(Miss)
	return true
}

// ResetOrUndo clears the pending selection if there is one, otherwise it
// restores the state from before the last committed ball.
func (s *Session) ResetOrUndo() bool {
	if s.ClearSelection() {
		return true
	}
	return s.Undo()
}

// Undo restores the state from before the last committed ball. The pending
// selection is discarded. There is no redo.
func (s *Session) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	last := len(s.history) - 1
	s.state = s.history[last]
	s.history = s.history[:last]
	s.pending = 0
	return true
}

func (s *Session) commit(ball Ball) {
	s.history = append(s.history, s.state)
	s.state = Commit(s.state, s.pending, ball)
	s.pending = 0
}

// State returns the committed game state.
func (s *Session) State() GameState {
	return s.state
}

// Rules returns the session rules.
func (s *Session) Rules() Rules {
	return s.state.rules
}

// CurrentFrameIndex returns the active frame.
func (s *Session) CurrentFrameIndex() int {
	return s.state.frameIdx
}

// CurrentBallIndex returns the active ball slot.
func (s *Session) CurrentBallIndex() int {
	return s.state.ballIdx
}

// Frames returns a copy of the frame ledger.
func (s *Session) Frames() [FrameCount]Frame {
	return s.state.frames
}

// Knockdown returns the pins already down in the current rack.
func (s *Session) Knockdown() PinSet {
	return s.state.knockdown
}

// Pending returns the pins selected for the ball in progress.
func (s *Session) Pending() PinSet {
	return s.pending
}

// PendingBall classifies the pending selection; Empty when nothing is selected.
func (s *Session) PendingBall() Ball {
	return Classify(s.pending, s.state.knockdown, s.state.ballIdx)
}

// PendingDisplay returns the live symbol for the ball in progress.
func (s *Session) PendingDisplay() string {
	return s.PendingBall().String()
}

// CurrentBallPendingTotal sums the values of the selected pins.
func (s *Session) CurrentBallPendingTotal() int {
	return s.pending.Value()
}

// GameTotal returns the committed game total.
func (s *Session) GameTotal() int {
	return s.state.Total()
}

// Complete reports whether the game is over.
func (s *Session) Complete() bool {
	return s.state.Complete()
}

// CanConfirm reports whether ConfirmBall would commit.
func (s *Session) CanConfirm() bool {
	return !s.pending.IsEmpty() && !s.state.Complete()
}

// CanStrike reports whether the strike shortcut is offered: always in the
// final frame, otherwise only for the first ball of a frame.
func (s *Session) CanStrike() bool {
	if s.state.Complete() {
		return false
	}
	return s.state.frameIdx == LastFrame || s.state.ballIdx == 0
}

// CanUndo reports whether a committed ball can be undone.
func (s *Session) CanUndo() bool {
	return len(s.history) > 0
}

// HistoryLen returns the number of undoable commits.
func (s *Session) HistoryLen() int {
	return len(s.history)
}
