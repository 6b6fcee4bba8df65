// Package editor is the interactive line state machine. It owns the typed buffer and the
// prediction currently shown as ghost text, and answers every key with render operations.
// It performs no terminal I/O of its own.
package editor

import (
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/charmbracelet/log"
)

// State of a LineEditor.
type State int

const (
	// Editing means no prediction is shown.
	Editing State = iota
	// Suggesting means a prediction is shown as ghost text but is not part of the buffer.
	Suggesting
	// Done is terminal: the line was confirmed or cancelled.
	Done
)

func (s State) String() string {
	switch s {
	case Editing:
		return "Editing"
	case Suggesting:
		return "Suggesting"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Predictor is anything that can suggest a continuation of the typed text.
type Predictor interface {
	Predict(input string) (predict.Prediction, bool)
}

// KeySource yields one key event per call, blocking until one is available.
type KeySource interface {
	ReadKey() (Key, error)
}

// Renderer draws the operations produced for one key.
type Renderer interface {
	Render(ops []RenderOp) error
}

// Outcome is the terminal result of a line.
type Outcome struct {
	Text      string
	Cancelled bool
}

// Option configures a LineEditor.
type Option func(*LineEditor)

// WithCancelResult sets the text returned when the line is cancelled.
func WithCancelResult(text string) Option {
	return func(e *LineEditor) {
		e.cancelResult = text
	}
}

// WithInitialText starts the line with text already typed.
func WithInitialText(text string) Option {
	return func(e *LineEditor) {
		e.buf = NewBufferWithText(text)
	}
}

// LineEditor consumes key events one at a time. It is not safe for concurrent use.
type LineEditor struct {
	predictor Predictor
	buf       *Buffer
	state     State

	pending    predict.Prediction
	pendingLen int

	cancelResult string
	outcome      Outcome
}

// New creates an editor in the Editing state. A nil predictor never suggests anything.
func New(p Predictor, opts ...Option) *LineEditor {
	e := &LineEditor{predictor: p, buf: NewBuffer()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *LineEditor) State() State {
	return e.state
}

// Buffer returns the line being edited. Callers must not modify it.
func (e *LineEditor) Buffer() *Buffer {
	return e.buf
}

// Pending returns the prediction currently shown, if any.
func (e *LineEditor) Pending() (predict.Prediction, bool) {
	if e.state != Suggesting {
		return predict.Prediction{}, false
	}
	return e.pending, true
}

// Outcome returns the result once the editor is Done.
func (e *LineEditor) Outcome() (Outcome, bool) {
	return e.outcome, e.state == Done
}

// Start returns the operations that draw the initial line and its first suggestion.
func (e *LineEditor) Start() []RenderOp {
	if e.state == Done {
		return nil
	}
	return e.refresh(nil)
}

// Handle applies one key and returns what must be redrawn.
func (e *LineEditor) Handle(k Key) []RenderOp {
	if e.state == Done {
		return nil
	}

	switch k.Kind {
	case KeyChar:
		if k.Grapheme == "" {
			return nil
		}
		e.buf.Insert(k.Grapheme)
		return e.refresh(nil)

	case KeyBackspace:
		if !e.buf.DeleteBackward() {
			return nil
		}
		return e.refresh(nil)

	case KeyAccept:
		return e.accept()

	case KeyConfirm:
		ops := e.clearGhost(nil)
		e.finish(Outcome{Text: e.buf.Text()})
		return ops

	case KeyCancel:
		ops := e.clearGhost(nil)
		e.finish(Outcome{Text: e.cancelResult, Cancelled: true})
		return ops

	default:
		return nil
	}
}

// accept splices the pending prediction into the buffer and asks for the next one.
func (e *LineEditor) accept() []RenderOp {
	if e.state != Suggesting || e.buf.Len() != e.pendingLen {
		return nil
	}

	insert := e.pending.Text
	if e.pending.Kind == predict.KindWord && e.buf.Pos() > 0 && !e.buf.EndsWithSpace() {
		insert = " " + insert
	}
	insert += " "

	log.Debugf("accepting %s", e.pending)
	e.buf.Insert(insert)
	return e.refresh(nil)
}

// refresh redraws the line and re-queries the predictor on the text before the cursor.
func (e *LineEditor) refresh(ops []RenderOp) []RenderOp {
	ops = append(ops, RenderOp{Kind: OpReplaceLine, Text: e.buf.Text(), Cursor: e.buf.Pos()})

	var (
		p  predict.Prediction
		ok bool
	)
	if e.predictor != nil {
		p, ok = e.predictor.Predict(e.buf.TextBeforeCursor())
	}
	if !ok || p.Text == "" {
		return e.clearGhost(ops)
	}

	e.state = Suggesting
	e.pending = p
	e.pendingLen = e.buf.Len()
	return append(ops, RenderOp{Kind: OpShowGhost, Text: e.ghostText(p), Cursor: e.buf.Pos()})
}

// ghostText is what the user sees for p, including the separator an accept would insert.
func (e *LineEditor) ghostText(p predict.Prediction) string {
	if p.Kind == predict.KindWord && e.buf.Pos() > 0 && !e.buf.EndsWithSpace() {
		return " " + p.Text
	}
	return p.Text
}

func (e *LineEditor) clearGhost(ops []RenderOp) []RenderOp {
	if e.state == Suggesting {
		ops = append(ops, RenderOp{Kind: OpClearGhost, Cursor: e.buf.Pos()})
	}
	e.state = Editing
	e.pending = predict.Prediction{}
	e.pendingLen = 0
	return ops
}

func (e *LineEditor) finish(o Outcome) {
	e.state = Done
	e.outcome = o
}

// Run pulls keys from src until the line is Done and renders after each one.
// Errors from src or r are returned unchanged along with the partial outcome.
func (e *LineEditor) Run(src KeySource, r Renderer) (Outcome, error) {
	if err := r.Render(e.Start()); err != nil {
		return Outcome{}, err
	}
	for e.state != Done {
		k, err := src.ReadKey()
		if err != nil {
			return Outcome{Text: e.buf.Text()}, err
		}
		ops := e.Handle(k)
		if len(ops) == 0 {
			continue
		}
		if err := r.Render(ops); err != nil {
			return Outcome{Text: e.buf.Text()}, err
		}
	}
	return e.outcome, nil
}
