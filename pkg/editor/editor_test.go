package editor

import (
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rickroll(t *testing.T) *predict.Predictor {
	t.Helper()
	pc := chain.New()
	words := predict.Words("never gonna give you up")
	for i, w := range words {
		for k := 0; k <= 2 && k <= i; k++ {
			pc.Observe(chain.Context(words[i-k:i]), w)
		}
	}
	return predict.New(pc, 2)
}

type fixedPredictor struct {
	p     predict.Prediction
	ok    bool
	calls []string
}

func (f *fixedPredictor) Predict(input string) (predict.Prediction, bool) {
	f.calls = append(f.calls, input)
	return f.p, f.ok
}

func typeText(e *LineEditor, text string) []RenderOp {
	var last []RenderOp
	for _, g := range graphemes(text) {
		last = e.Handle(Char(g))
	}
	return last
}

func TestEditorCharQueriesPredictor(t *testing.T) {
	e := New(rickroll(t))
	assert.Equal(t, Editing, e.State())

	ops := e.Handle(Char("n"))
	require.Len(t, ops, 2)
	assert.Equal(t, RenderOp{Kind: OpReplaceLine, Text: "n", Cursor: 1}, ops[0])
	assert.Equal(t, RenderOp{Kind: OpShowGhost, Text: "ever", Cursor: 1}, ops[1])
	assert.Equal(t, Suggesting, e.State())

	pending, ok := e.Pending()
	require.True(t, ok)
	assert.Equal(t, predict.Partial("ever"), pending)
	assert.Equal(t, "n", e.Buffer().Text(), "ghost text never enters the buffer")
}

func TestEditorMissLeavesEditing(t *testing.T) {
	e := New(rickroll(t))
	typeText(e, "nev")
	require.Equal(t, Suggesting, e.State())

	ops := e.Handle(Char("x"))
	assert.Equal(t, []RenderOp{
		{Kind: OpReplaceLine, Text: "nevx", Cursor: 4},
		{Kind: OpClearGhost, Cursor: 4},
	}, ops)
	assert.Equal(t, Editing, e.State())

	_, ok := e.Pending()
	assert.False(t, ok)
}

func TestEditorBackspace(t *testing.T) {
	e := New(rickroll(t))
	typeText(e, "nevx")
	require.Equal(t, Editing, e.State())

	ops := e.Handle(Backspace)
	require.Len(t, ops, 2)
	assert.Equal(t, RenderOp{Kind: OpReplaceLine, Text: "nev", Cursor: 3}, ops[0])
	assert.Equal(t, RenderOp{Kind: OpShowGhost, Text: "er", Cursor: 3}, ops[1])
	assert.Equal(t, Suggesting, e.State())

	empty := New(nil)
	assert.Nil(t, empty.Handle(Backspace), "backspace at start is a no-op")
	assert.Equal(t, Editing, empty.State())
}

func TestEditorAcceptCascades(t *testing.T) {
	e := New(rickroll(t))
	ops := typeText(e, "never gonna ")
	require.Len(t, ops, 2)
	assert.Equal(t, RenderOp{Kind: OpShowGhost, Text: "give", Cursor: 12}, ops[1])

	ops = e.Handle(Accept)
	assert.Equal(t, []RenderOp{
		{Kind: OpReplaceLine, Text: "never gonna give ", Cursor: 17},
		{Kind: OpShowGhost, Text: "you", Cursor: 17},
	}, ops)
	assert.Equal(t, Suggesting, e.State())

	e.Handle(Accept)
	assert.Equal(t, "never gonna give you ", e.Buffer().Text())
	pending, ok := e.Pending()
	require.True(t, ok)
	assert.Equal(t, predict.Word("up"), pending)

	e.Handle(Confirm)
	out, done := e.Outcome()
	require.True(t, done)
	assert.Equal(t, Outcome{Text: "never gonna give you "}, out)
}

func TestEditorAcceptPartial(t *testing.T) {
	e := New(rickroll(t))
	typeText(e, "never gonna g")

	e.Handle(Accept)
	assert.Equal(t, "never gonna give ", e.Buffer().Text())
	assert.Equal(t, e.Buffer().Len(), e.Buffer().Pos())

	pending, ok := e.Pending()
	require.True(t, ok)
	assert.Equal(t, predict.Word("you"), pending)
}

func TestEditorAcceptAfterPunctuation(t *testing.T) {
	e := New(rickroll(t))
	ops := typeText(e, "never,")
	require.Len(t, ops, 2)
	assert.Equal(t, " gonna", ops[1].Text, "a word ghost shows its separating space")

	e.Handle(Accept)
	assert.Equal(t, "never, gonna ", e.Buffer().Text())
}

func TestEditorAcceptIsNoopWithoutSuggestion(t *testing.T) {
	e := New(rickroll(t))
	typeText(e, "xyz")
	require.Equal(t, Editing, e.State())

	assert.Nil(t, e.Handle(Accept))
	assert.Equal(t, "xyz", e.Buffer().Text())
	assert.Equal(t, Editing, e.State())
}

func TestEditorAcceptRejectsStalePrediction(t *testing.T) {
	e := New(&fixedPredictor{p: predict.Word("up"), ok: true})
	e.Handle(Char("a"))
	require.Equal(t, Suggesting, e.State())

	e.Buffer().Insert("b")
	assert.Nil(t, e.Handle(Accept))
	assert.Equal(t, "ab", e.Buffer().Text())
}

func TestEditorConfirmDiscardsGhost(t *testing.T) {
	e := New(rickroll(t))
	typeText(e, "nev")
	require.Equal(t, Suggesting, e.State())

	ops := e.Handle(Confirm)
	assert.Equal(t, []RenderOp{{Kind: OpClearGhost, Cursor: 3}}, ops)
	assert.Equal(t, Done, e.State())

	out, done := e.Outcome()
	require.True(t, done)
	assert.Equal(t, Outcome{Text: "nev"}, out)
}

func TestEditorCancel(t *testing.T) {
	e := New(rickroll(t), WithCancelResult("fallback"))
	typeText(e, "never")

	assert.Empty(t, e.Handle(Cancel))
	out, done := e.Outcome()
	require.True(t, done)
	assert.Equal(t, Outcome{Text: "fallback", Cancelled: true}, out)

	e = New(nil)
	e.Handle(Cancel)
	out, _ = e.Outcome()
	assert.Equal(t, Outcome{Cancelled: true}, out)
}

func TestEditorIgnoresKeys(t *testing.T) {
	fp := &fixedPredictor{p: predict.Word("x"), ok: true}
	e := New(fp)
	e.Handle(Char("a"))
	calls := len(fp.calls)

	assert.Nil(t, e.Handle(Other))
	assert.Nil(t, e.Handle(Key{Kind: KeyKind(42)}))
	assert.Nil(t, e.Handle(Char("")))
	assert.Equal(t, Suggesting, e.State())
	assert.Len(t, fp.calls, calls, "ignored keys do not query")

	e.Handle(Confirm)
	for _, k := range []Key{Char("b"), Backspace, Accept, Cancel, Confirm} {
		assert.Nil(t, e.Handle(k))
	}
	out, _ := e.Outcome()
	assert.Equal(t, Outcome{Text: "a"}, out)
}

func TestEditorQueriesTextBeforeCursor(t *testing.T) {
	fp := &fixedPredictor{}
	e := New(fp, WithInitialText("hello world"))
	e.Buffer().SetPos(5)
	e.Handle(Char("!"))
	assert.Equal(t, []string{"hello!"}, fp.calls)
}

func TestEditorStart(t *testing.T) {
	e := New(rickroll(t), WithInitialText("never "))
	ops := e.Start()
	assert.Equal(t, []RenderOp{
		{Kind: OpReplaceLine, Text: "never ", Cursor: 6},
		{Kind: OpShowGhost, Text: "gonna", Cursor: 6},
	}, ops)
}

type keySlice struct {
	keys []Key
	err  error
}

func (s *keySlice) ReadKey() (Key, error) {
	if len(s.keys) == 0 {
		if s.err != nil {
			return Key{}, s.err
		}
		return Key{}, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

type recorder struct {
	ops [][]RenderOp
	err error
}

func (r *recorder) Render(ops []RenderOp) error {
	r.ops = append(r.ops, ops)
	return r.err
}

func TestEditorRun(t *testing.T) {
	src := &keySlice{}
	for _, g := range graphemes("never gonna ") {
		src.keys = append(src.keys, Char(g))
	}
	src.keys = append(src.keys, Accept, Accept, Other, Confirm, Char("ignored"))

	rec := &recorder{}
	out, err := New(rickroll(t)).Run(src, rec)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Text: "never gonna give you "}, out)
	assert.Len(t, src.keys, 1, "reading stops once the line is done")
	assert.Len(t, rec.ops, 1+12+2+1, "Other renders nothing")
}

func TestEditorRunErrors(t *testing.T) {
	boom := errors.New("boom")

	out, err := New(nil).Run(&keySlice{keys: []Key{Char("a")}, err: boom}, &recorder{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a", out.Text)

	_, err = New(nil).Run(&keySlice{}, &recorder{err: boom})
	assert.ErrorIs(t, err, boom)

	_, err = New(nil).Run(&keySlice{}, &recorder{})
	assert.ErrorIs(t, err, io.EOF)
}
