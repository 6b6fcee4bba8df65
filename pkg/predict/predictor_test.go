package predict

import (
	"strings"
	"testing"

	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build observes every suffix context up to depth for each word of each phrase.
func build(depth int, phrases ...string) *chain.PredictorChain {
	pc := chain.New()
	for _, phrase := range phrases {
		words := Words(phrase)
		for i, w := range words {
			for k := 0; k <= depth && k <= i; k++ {
				pc.Observe(chain.Context(words[i-k:i]), w)
			}
		}
	}
	return pc
}

func TestPredictRickroll(t *testing.T) {
	p := New(build(2, "never gonna give you up"), 2)

	tests := []struct {
		input string
		want  Prediction
		found bool
	}{
		{"never ", Word("gonna"), true},
		{"nev", Partial("er"), true},
		{"never gonna ", Word("give"), true},
		{"never gonna g", Partial("ive"), true},
		{"never gonna give you ", Word("up"), true},
		{"", Word("give"), true},
		{"never,", Word("gonna"), true},
		{"never gonna", Prediction{}, false},
		{"xyz", Prediction{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := p.Predict(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictPartialRequiresPrefix(t *testing.T) {
	pc := chain.New()
	pc.ObserveWeight(chain.Context{"never"}, "gonna", 10)
	pc.Observe(chain.Context{}, "gonna")

	p := New(pc, 1)
	_, ok := p.Predict("never x")
	assert.False(t, ok, "no candidate extends the word in progress")

	got, ok := p.Predict("never go")
	require.True(t, ok)
	assert.Equal(t, Partial("nna"), got)
}

func TestPredictPrefixLaw(t *testing.T) {
	pc := build(2, "the quick brown fox", "the quiet night", "quick thinking")
	p := New(pc, 2)

	for _, input := range []string{"q", "qu", "qui", "the q", "the qui", "brown f", "t"} {
		t.Run(input, func(t *testing.T) {
			got, ok := p.Predict(input)
			if !ok {
				return
			}
			require.Equal(t, KindPartial, got.Kind)

			words, _ := Segment(input)
			last := words[len(words)-1]
			ctx := chain.Context(words[:len(words)-1]).Tail(2)
			cand, found := pc.ResolvePrefix(ctx, last)
			require.True(t, found)
			assert.Equal(t, cand.Token, last+got.Text)
		})
	}
}

func TestPredictIsPure(t *testing.T) {
	p := New(build(3, "a b c d", "a b x", "b c y"), 3)
	for _, input := range []string{"a b ", "a b c", "b", ""} {
		first, ok1 := p.Predict(input)
		second, ok2 := p.Predict(input)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestPredictDepthZero(t *testing.T) {
	pc := build(1, "one two two three three three")

	p := New(pc, 0)
	got, ok := p.Predict("one ")
	require.True(t, ok)
	assert.Equal(t, Word("three"), got, "depth 0 ranks by global frequency")

	got, ok = New(pc, -3).Predict("two ")
	require.True(t, ok)
	assert.Equal(t, Word("three"), got)

	got, ok = New(pc, 1).Predict("one ")
	require.True(t, ok)
	assert.Equal(t, Word("two"), got)
}

func TestPredictEmptyChain(t *testing.T) {
	_, ok := New(chain.New(), 2).Predict("anything ")
	assert.False(t, ok)

	_, ok = New(nil, 2).Predict("anything ")
	assert.False(t, ok)
}

func TestPredictFoldCase(t *testing.T) {
	pc := chain.New()
	pc.Observe(chain.Context{"never"}, "gonna")
	pc.Observe(chain.Context{}, "never")

	got, ok := New(pc, 1).Predict("Never ")
	require.True(t, ok)
	assert.Equal(t, Word("never"), got, "case sensitive by default: only the unigram fallback applies")

	p := New(pc, 1, WithFoldCase(true))
	got, ok = p.Predict("Never ")
	require.True(t, ok)
	assert.Equal(t, Word("gonna"), got)

	got, ok = p.Predict("NEV")
	require.True(t, ok)
	assert.Equal(t, Partial("er"), got)
}

func TestPredictMalformedInput(t *testing.T) {
	p := New(build(1, "never gonna"), 1)

	assert.NotPanics(t, func() {
		got, ok := p.Predict("never\xff")
		require.True(t, ok)
		assert.Equal(t, Word("gonna"), got, "invalid byte acts as a separator")
	})
}

func TestPredictionString(t *testing.T) {
	assert.Equal(t, `Word("gonna")`, Word("gonna").String())
	assert.Equal(t, `Partial("er")`, Partial("er").String())
	assert.Equal(t, "partial", KindPartial.String())
}

func BenchmarkPredictKeystroke(b *testing.B) {
	corpus := strings.Repeat("we're no strangers to love you know the rules and so do I ", 50)
	p := New(build(3, corpus), 3)
	inputs := []string{"we", "we're no ", "you know the r", "and so do "}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Predict(inputs[i%len(inputs)])
	}
}
