package train

import (
	"strings"
	"testing"

	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	ctx  string
	next string
}

type recorder []observation

func (r *recorder) Observe(ctx chain.Context, next chain.Token) {
	*r = append(*r, observation{ctx.String(), next})
}

func TestLearnObservesEverySuffixContext(t *testing.T) {
	var rec recorder
	n := New(&rec, 2).Learn("a b c")
	assert.Equal(t, 3, n)

	assert.Equal(t, recorder{
		{"", "a"},
		{"", "b"}, {"a", "b"},
		{"", "c"}, {"b", "c"}, {"a b", "c"},
	}, rec)
}

func TestLearnDepthZero(t *testing.T) {
	var rec recorder
	New(&rec, -1).Learn("a b")
	assert.Equal(t, recorder{{"", "a"}, {"", "b"}}, rec)
}

func TestLearnBuildsPredictableChain(t *testing.T) {
	pc := chain.New()
	tr := New(pc, 2)
	tr.Learn("Never gonna give you up, never gonna let you down.")

	p := predict.New(pc, 2)
	got, ok := p.Predict("never gonna ")
	require.True(t, ok)
	assert.Equal(t, predict.Word("let"), got, "contexts are case sensitive")

	got, ok = p.Predict("Never gonna ")
	require.True(t, ok)
	assert.Equal(t, predict.Word("give"), got)

	assert.Equal(t, chain.Weight(2), pc.Weight(chain.Context{"gonna"}, "give")+pc.Weight(chain.Context{"gonna"}, "let"))
}

func TestLearnFoldCase(t *testing.T) {
	pc := chain.New()
	New(pc, 1, WithFoldCase(true)).Learn("Never NEVER never")
	assert.Equal(t, chain.Weight(3), pc.Weight(chain.Context{}, "never"))
	assert.Equal(t, chain.Weight(2), pc.Weight(chain.Context{"never"}, "never"))
}

func TestLearnReader(t *testing.T) {
	pc := chain.New()
	n, err := New(pc, 1).LearnReader(strings.NewReader("one two\nthree\n\nfour"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, chain.Weight(1), pc.Weight(chain.Context{"one"}, "two"))
	assert.Equal(t, chain.Weight(0), pc.Weight(chain.Context{"two"}, "three"), "lines do not share context")
}

func TestSingletonFilter(t *testing.T) {
	pc := chain.New()
	tr := New(pc, 1, WithSingletonFilter(1000, 0.001))

	tr.Learn("rare pair")
	_, ok := pc.ResolveWithBackoff(chain.Context{"rare"})
	assert.False(t, ok, "first sightings are held back")
	assert.Equal(t, 3, tr.Skipped())

	tr.Learn("rare pair")
	assert.Equal(t, chain.Weight(1), pc.Weight(chain.Context{"rare"}, "pair"))
	assert.Equal(t, chain.Weight(1), pc.Weight(chain.Context{}, "rare"))
}

func TestSingletonFilterInvalidSettings(t *testing.T) {
	pc := chain.New()
	New(pc, 1, WithSingletonFilter(0, 0.01)).Learn("a b")
	New(pc, 1, WithSingletonFilter(100, 1.5)).Learn("a b")
	assert.Equal(t, chain.Weight(2), pc.Weight(chain.Context{"a"}, "b"))
}
