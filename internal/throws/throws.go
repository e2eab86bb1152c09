// Package throws loads and replays line-based throw files.
package throws

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/pinscore/internal/scoring"
)

// Kind identifies what a line of a throws file does.
type Kind int

// Throw kinds.
const (
	KindPins Kind = iota
	KindStrike
	KindGutter
	KindUndo
)

// Throw is one parsed line.
type Throw struct {
	Kind Kind
	Pins scoring.PinSet
	Line int
}

// String renders the throw in file syntax.
func (t Throw) String() string {
	switch t.Kind {
	case KindStrike:
		return "X"
	case KindGutter:
		return "-"
	case KindUndo:
		return "U"
	}
	labels := make([]string, 0, t.Pins.Len())
	for _, p := range t.Pins.Pins() {
		labels = append(labels, p.String())
	}
	return strings.Join(labels, " ")
}

var (
	// ErrUnknownToken is returned for tokens that are neither pins nor commands.
	ErrUnknownToken = errors.New("unknown token")
	// ErrMixedTokens is returned when a command shares a line with other tokens.
	ErrMixedTokens = errors.New("command must be alone on its line")
	// ErrNoEffect is returned by Replay when a throw does not change the game.
	ErrNoEffect = errors.New("throw has no effect")
	// ErrEmpty is returned when a file holds no throws.
	ErrEmpty = errors.New("throws file is empty")
)

// ParseError reports the line and token that failed.
type ParseError struct {
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v %q", e.Line, e.Err, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads throws from the provided file path.
func Load(path string) ([]Throw, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only throws file.
			_ = cerr
		}
	}()
	return Parse(file)
}

// Parse reads one throw per line. Blank lines and # comments are skipped.
func Parse(r io.Reader) ([]Throw, error) {
	var out []Throw
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		t, ok, err := ParseLine(scanner.Text())
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
			}
			return nil, err
		}
		if !ok {
			continue
		}
		t.Line = lineNo
		out = append(out, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// ParseLine parses a single line. ok is false for blank or comment lines.
func ParseLine(line string) (Throw, bool, error) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(tokens) == 0 {
		return Throw{}, false, nil
	}
	if kind, ok := command(tokens[0]); ok {
		if len(tokens) > 1 {
			return Throw{}, false, &ParseError{Token: tokens[1], Err: ErrMixedTokens}
		}
		return Throw{Kind: kind}, true, nil
	}
	var pins scoring.PinSet
	for _, tok := range tokens {
		if _, ok := command(tok); ok {
			return Throw{}, false, &ParseError{Token: tok, Err: ErrMixedTokens}
		}
		p, ok := scoring.ParsePin(tok)
		if !ok {
			return Throw{}, false, &ParseError{Token: tok, Err: ErrUnknownToken}
		}
		pins = pins.Add(p)
	}
	return Throw{Kind: KindPins, Pins: pins}, true, nil
}

func command(tok string) (Kind, bool) {
	switch strings.ToUpper(tok) {
	case "X":
		return KindStrike, true
	case "-", "0":
		return KindGutter, true
	case "U":
		return KindUndo, true
	}
	return 0, false
}

// Apply plays one throw against the session and reports whether it changed
// the game. A pins throw taps each pin, then confirms the ball.
func Apply(s *scoring.Session, t Throw) bool {
	switch t.Kind {
	case KindStrike:
		return s.StrikeShortcut()
	case KindGutter:
		return s.GutterShortcut()
	case KindUndo:
		return s.Undo()
	}
	s.ClearSelection()
	for _, p := range t.Pins.Pins() {
		s.TapPin(p)
	}
	return s.ConfirmBall()
}

// Replay applies throws in order. It stops at the first throw that changes
// nothing, such as pins already down or input after the game is complete.
func Replay(s *scoring.Session, throws []Throw) error {
	for _, t := range throws {
		if !Apply(s, t) {
			return &ParseError{Line: t.Line, Token: t.String(), Err: ErrNoEffect}
		}
	}
	return nil
}

// Write renders throws in file syntax, one per line.
func Write(w io.Writer, throws []Throw) error {
	bw := bufio.NewWriter(w)
	for _, t := range throws {
		if _, err := fmt.Fprintln(bw, t.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
