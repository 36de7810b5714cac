package chord

import (
	"testing"

	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScore(t *testing.T) (*score.Score, *score.Bar) {
	t.Helper()
	s, err := score.New("Test", "Thomas", &score.Settings{
		Pitch:     4,
		NoteValue: 4,
		Tempo:     120,
		Beat:      structure.MustUniform(structure.Sixteenth, 4),
		Lines:     structure.NewLineStructure("Hit-hat", "Snare", "Bass"),
	})
	require.NoError(t, err)
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))
	return s, b
}

func TestKeyIgnoresOrder(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Bass-Snare", Key([]string{"Snare", "Bass"}))
	assert.Equal(Key([]string{"Bass", "Snare"}), Key([]string{"Snare", "Bass"}))
	assert.Equal("", Key(nil))
}

func TestKeyDoesNotSortItsInput(t *testing.T) {
	lines := []string{"Snare", "Bass"}
	Key(lines)
	assert.Equal(t, []string{"Snare", "Bass"}, lines)
}

func TestAt(t *testing.T) {
	_, b := testScore(t)
	require.NoError(t, b.AddNote("Bass", 1, 1))
	require.NoError(t, b.AddNote("Hit-hat", 1, 1))
	require.NoError(t, b.AddNote("Snare", 1, 3))

	assert := assert.New(t)
	lines, err := At(b, 1, 1)
	assert.NoError(err)
	assert.Equal([]string{"Hit-hat", "Bass"}, lines)

	lines, err = At(b, 1, 2)
	assert.NoError(err)
	assert.Empty(lines)

	_, err = At(b, 1, 5)
	assert.Error(err)
	_, err = At(b, 5, 1)
	assert.Error(err)
}

func TestHistogram(t *testing.T) {
	s, b := testScore(t)
	for beat := 1; beat <= 4; beat++ {
		require.NoError(t, b.AddNote("Hit-hat", beat, 1))
		require.NoError(t, b.AddNote("Hit-hat", beat, 3))
	}
	require.NoError(t, b.AddNote("Bass", 1, 1))
	require.NoError(t, b.AddNote("Bass", 3, 1))
	require.NoError(t, b.AddNote("Snare", 2, 1))

	h, err := Histogram(s)
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{Key: "Hit-hat", Lines: []string{"Hit-hat"}, Times: 5},
		{Key: "Bass-Hit-hat", Lines: []string{"Hit-hat", "Bass"}, Times: 2},
		{Key: "Hit-hat-Snare", Lines: []string{"Hit-hat", "Snare"}, Times: 1},
	}, h)
}
