package score

import (
	"testing"

	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/structure"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesSettings(t *testing.T) {
	cases := map[string]func(*Settings){
		"pitch":      func(s *Settings) { s.Pitch = 0 },
		"note value": func(s *Settings) { s.NoteValue = -4 },
		"tempo":      func(s *Settings) { s.Tempo = 0 },
		"lines":      func(s *Settings) { s.Lines = nil },
		"beat":       func(s *Settings) { s.Beat = structure.BeatStructure{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := testSettings()
			mutate(s)
			_, err := New("t", "a", s)
			assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
		})
	}
	_, err := New("t", "a", nil)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestBarsAreOneBased(t *testing.T) {
	s, err := New("Test", "Thomas", testSettings())
	require.NoError(t, err)

	first, second, third := s.NewBar(), s.NewBar(), s.NewBar()
	require.NoError(t, s.AppendBar(first))
	require.NoError(t, s.AppendBar(third))
	require.NoError(t, s.InsertBar(2, second))

	assert := assert.New(t)
	assert.Equal(3, s.Len())
	got, err := s.Bar(2)
	assert.NoError(err)
	assert.Same(second, got)

	_, err = s.Bar(0)
	assert.True(errors.Is(err, errs.ErrOutOfRange))
	_, err = s.Bar(4)
	assert.True(errors.Is(err, errs.ErrOutOfRange))
	assert.True(errors.Is(s.InsertBar(5, s.NewBar()), errs.ErrOutOfRange))

	require.NoError(t, s.RemoveBar(1))
	got, _ = s.Bar(1)
	assert.Same(second, got)
	assert.True(errors.Is(s.RemoveBar(3), errs.ErrOutOfRange))

	replacement := s.NewBar()
	require.NoError(t, s.SetBar(2, replacement))
	got, _ = s.Bar(2)
	assert.Same(replacement, got)
	assert.Equal([]*Bar{second, replacement}, s.Bars())
}

func TestRejectsForeignAndDuplicateBars(t *testing.T) {
	s, _ := New("Test", "Thomas", testSettings())
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))

	assert := assert.New(t)
	assert.True(errors.Is(s.AppendBar(b), errs.ErrInvalidArgument))
	assert.True(errors.Is(s.AppendBar(NewBar(testSettings())), errs.ErrInvalidArgument))
	assert.True(errors.Is(s.AppendBar(nil), errs.ErrInvalidArgument))
	// a copy is a new bar
	assert.NoError(s.AppendBar(b.Copy()))
}

func TestScoreAddRemoveLine(t *testing.T) {
	s, _ := New("Test", "Thomas", testSettings())
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))

	assert := assert.New(t)
	assert.True(s.AddLine("Crash"))
	assert.False(s.AddLine("Crash"))
	assert.Equal([]string{hitHat, snare, bass, "Crash"}, s.Settings().Lines.Lines())
	require.NoError(t, b.AddNote("Crash", 1, 1))

	// bars created afterwards get the line too
	fresh := s.NewBar()
	lines, _ := fresh.Lines(1)
	assert.Contains(lines, "Crash")

	assert.True(s.RemoveLine(snare))
	lines, _ = b.Lines(2)
	assert.Equal([]string{hitHat, bass, "Crash"}, lines)
}

func TestAllLines(t *testing.T) {
	s, _ := New("Test", "Thomas", testSettings())
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))
	require.NoError(t, b.SetSpecialLineStructure(structureOf("Ride", bass, "Crash"), 2))

	assert.Equal(t, []string{hitHat, snare, bass, "Ride", "Crash"}, s.AllLines().Lines())
}

func TestImportKeepsLayout(t *testing.T) {
	src, _ := New("Source", "Thomas", testSettings())
	b := src.NewBar()
	require.NoError(t, src.AppendBar(b))
	require.NoError(t, b.AddNote(snare, 2, 3))

	other := testSettings()
	other.Beat = structure.MustUniform(structure.Eighth, 4)
	other.Lines = structureOf(bass)
	dst, _ := New("Destination", "Thomas", other)

	c, err := dst.Import(b)
	require.NoError(t, err)
	require.NoError(t, dst.AppendBar(c))

	assert := assert.New(t)
	ok, err := c.IsNote(snare, 2, 3)
	assert.NoError(err)
	assert.True(ok)
	special, _ := c.HasSpecialBeatStructure(2)
	assert.True(special)
	special, _ = c.HasSpecialLineStructure(2)
	assert.True(special)

	// independent of the source
	require.NoError(t, c.RemoveNote(snare, 2, 3))
	ok, _ = b.IsNote(snare, 2, 3)
	assert.True(ok)
}

func TestImportNeedsSamePitch(t *testing.T) {
	src, _ := New("Source", "Thomas", testSettings())
	other := testSettings()
	other.Pitch = 3
	dst, _ := New("Destination", "Thomas", other)

	_, err := dst.Import(src.NewBar())
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}
