package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func testScore(t *testing.T) (*score.Score, *score.Bar) {
	t.Helper()
	s, err := score.New("Test", "Thomas", &score.Settings{
		Pitch:     2,
		NoteValue: 4,
		Tempo:     120,
		Beat:      structure.MustUniform(structure.Eighth, 4),
		Lines:     structure.NewLineStructure("Hit-hat", "Snare", "Bass", "Cowbell"),
	})
	require.NoError(t, err)
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))
	return s, b
}

func TestKitIgnoresCase(t *testing.T) {
	kit := DefaultKit()
	key, ok := kit.Key("SNARE")
	assert.True(t, ok)
	assert.Equal(t, uint8(38), key)

	kit.Set("Cowbell", 56)
	key, ok = kit.Key("cowbell")
	assert.True(t, ok)
	assert.Equal(t, uint8(56), key)
	assert.Equal(t, "cowbell", kit.Name(56))
	assert.Equal(t, "bass", kit.Name(36))
}

func TestKeysDeduplicates(t *testing.T) {
	assert.Equal(t, []uint8{36, 38}, Keys([]string{"Bass", "Bass drum", "Snare", "Unknown"}, DefaultKit()))
}

func TestExport(t *testing.T) {
	s, b := testScore(t)
	require.NoError(t, b.AddNote("Bass", 1, 1))
	require.NoError(t, b.AddNote("Hit-hat", 1, 1))
	require.NoError(t, b.AddNote("Hit-hat", 1, 2))
	require.NoError(t, b.AddNote("Cowbell", 1, 2))
	triplets := structure.MustUniform(structure.Triplet, 4)
	require.NoError(t, b.SetSpecialBeatStructure(&triplets, 2))
	require.NoError(t, b.AddNote("Snare", 2, 2))

	kit := DefaultKit()
	assert.Equal(t, []string{"Cowbell"}, Unmapped(s, kit))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, kit))
	mf, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	hits := NoteOns(mf, kit)
	type hit struct {
		tick int64
		key  uint8
	}
	var got []hit
	for _, h := range hits {
		assert.Equal(t, uint8(constants.DrumChannel), h.Channel)
		got = append(got, hit{h.Tick, h.Key})
	}
	assert.Equal(t, []hit{
		{0, 42}, {0, 36},
		{480, 42},
		// second beat in thirds
		{960 + 320, 38},
	}, got)
	// 120 bpm: half a second a quarter
	assert.InDelta(t, 666667, hits[3].Micros, 2)
}

func TestReadMidiFile(t *testing.T) {
	s, b := testScore(t)
	require.NoError(t, b.AddNote("Snare", 2, 1))

	path := filepath.Join(t.TempDir(), "test.mid")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(f, s, DefaultKit()))
	require.NoError(t, f.Close())

	mf, err := ReadMidiFile(path)
	require.NoError(t, err)
	hits := NoteOns(mf, DefaultKit())
	require.Len(t, hits, 1)
	assert.Equal(t, "snare", hits[0].Name)
	assert.Equal(t, int64(500000), hits[0].Micros)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestOutput(t *testing.T) {
	s, b := testScore(t)
	require.NoError(t, b.AddNote("Bass", 1, 1))
	require.NoError(t, b.AddNote("Snare", 1, 1))
	require.NoError(t, b.AddNote("Hit-hat", 1, 2))

	var sent []string
	send := func(msg gomidi.Message) error {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			sent = append(sent, "on "+DefaultKit().Name(key))
		case msg.GetNoteOff(&ch, &key, &vel):
			sent = append(sent, "off "+DefaultKit().Name(key))
		}
		return nil
	}
	o := NewOutput(s, DefaultKit(), send, nil)

	o.OnStart()
	o.OnNextNote(1, 1, 1)
	o.OnNextNote(1, 1, 2)
	o.OnNextNote(1, 2, 1)
	o.OnNextNote(9, 1, 1)
	o.OnFinish()

	assert.Equal(t, []string{
		"on snare", "on bass",
		"off snare", "off bass", "on hi-hat",
		"off hi-hat",
	}, sent)
}
