package model

import (
	"encoding/json"
	"testing"

	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	s, err := NewScoreRequest{}.Settings()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(4, s.Pitch)
	assert.Equal(4, s.NoteValue)
	assert.Equal(120.0, s.Tempo)
	assert.Equal(4, s.Beat.Size())
	assert.Equal([]string{"Hit-hat", "Snare", "Bass"}, s.Lines.Lines())
}

func TestSettingsRejectsBadInput(t *testing.T) {
	cases := map[string]NewScoreRequest{
		"unknown unit":    {BeatStructure: "QUARTER_NOTE//BOGUS"},
		"repeated line":   {Lines: []string{"Snare", "Snare"}},
		"separator":       {Lines: []string{"Ride//Bell", "Snare"}},
		"negative tempo":  {Tempo: -1},
		"short structure": {BeatStructure: "EIGHTH_NOTE"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := req.Settings()
			assert.Error(t, err)
		})
	}

	_, err := NewScoreRequest{BeatStructure: "EIGHTH_NOTE"}.Settings()
	assert.True(t, errors.Is(err, errs.ErrStructuralIntegrity))
}

func TestNewScore(t *testing.T) {
	settings, err := NewScoreRequest{BeatStructure: "EIGHTH_NOTE//EIGHTH_NOTE", Pitch: 2}.Settings()
	require.NoError(t, err)
	s, err := score.New("Test", "Thomas", settings)
	require.NoError(t, err)
	b := s.NewBar()
	require.NoError(t, s.AppendBar(b))
	require.NoError(t, b.AddNote("Snare", 2, 2))
	require.NoError(t, b.SetSpecialLineStructure(structure.NewLineStructure("Crash"), 1))

	res, err := NewScore(s)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(s.ID, res.ID)
	assert.Equal("EIGHTH_NOTE//EIGHTH_NOTE", res.Settings.BeatStructure)
	assert.Equal("Hit-hat//Snare//Bass", res.Settings.LineStructure)
	require.Len(t, res.Bars, 1)
	require.Len(t, res.Bars[0].Beats, 2)
	assert.Equal(Beat{
		BeatStructure:        "EIGHTH_NOTE//EIGHTH_NOTE",
		LineStructure:        "Crash",
		SpecialLineStructure: true,
		Notes:                map[string][]int{"Crash": {}},
	}, res.Bars[0].Beats[0])
	assert.Equal([]int{2}, res.Bars[0].Beats[1].Notes["Snare"])

	// empty slots encode as [] rather than null
	data, err := json.Marshal(res.Bars[0].Beats[0])
	require.NoError(t, err)
	assert.Contains(string(data), `"Crash":[]`)
}
