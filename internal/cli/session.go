package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/yosoku/internal/logger"
	"github.com/bastiangx/yosoku/pkg/editor"
	"github.com/charmbracelet/log"
)

// Learner takes committed lines when online learning is on.
type Learner interface {
	Learn(text string) int
}

// LineWriter is a renderer that can also end a line.
type LineWriter interface {
	editor.Renderer
	Newline() error
}

// Session runs interactive lines one after another until one is cancelled or input ends.
type Session struct {
	predictor    editor.Predictor
	learner      Learner
	cancelResult string
	committed    []string
	final        editor.Outcome
	cancelled    bool
	log          *log.Logger
}

// NewSession creates a session. A nil learner keeps the chain read only.
func NewSession(p editor.Predictor, learner Learner, cancelResult string) *Session {
	return &Session{
		predictor:    p,
		learner:      learner,
		cancelResult: cancelResult,
		log:          logger.New("session"),
	}
}

// RunLine edits one line to completion.
func (s *Session) RunLine(src editor.KeySource, r editor.Renderer) (editor.Outcome, error) {
	ed := editor.New(s.predictor, editor.WithCancelResult(s.cancelResult))
	return ed.Run(src, r)
}

// Run repeats lines. Confirmed lines are learned after the line is done, never while a
// lookup is running. End of input finishes the session without error.
func (s *Session) Run(src editor.KeySource, w LineWriter) ([]string, error) {
	for {
		out, err := s.RunLine(src, w)
		if errors.Is(err, io.EOF) {
			if out.Text != "" {
				s.log.Debug("Discarding unconfirmed line at end of input", "text", out.Text)
			}
			return s.committed, w.Newline()
		}
		if err != nil {
			return s.committed, err
		}
		if err := w.Newline(); err != nil {
			return s.committed, err
		}

		if out.Cancelled {
			s.log.Debug("Line cancelled", "result", out.Text)
			s.final, s.cancelled = out, true
			return s.committed, nil
		}
		s.commit(out.Text)
	}
}

// Outcome returns the cancelled line that ended the session. It is false when the session
// ended at end of input.
func (s *Session) Outcome() (editor.Outcome, bool) {
	return s.final, s.cancelled
}

// WriteResult prints every committed line followed by the cancel result, when the session
// was cancelled with a non-empty one. Call it after the terminal has been restored.
func (s *Session) WriteResult(w io.Writer) error {
	for _, line := range s.committed {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if s.cancelled && s.final.Text != "" {
		if _, err := fmt.Fprintln(w, s.final.Text); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) commit(text string) {
	s.committed = append(s.committed, text)
	s.log.Info("Line committed", "text", text)
	if s.learner == nil {
		return
	}
	n := s.learner.Learn(text)
	s.log.Debugf("Learned %d words", n)
}
