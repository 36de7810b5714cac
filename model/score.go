package model

import (
	"github.com/google/uuid"
	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
)

type Settings struct {
	Pitch         int     `json:"pitch"`
	NoteValue     int     `json:"note_value"`
	Tempo         float64 `json:"tempo"`
	BeatStructure string  `json:"beat_structure"`
	LineStructure string  `json:"line_structure"`
}

type Beat struct {
	BeatStructure        string `json:"beat_structure"`
	LineStructure        string `json:"line_structure"`
	SpecialBeatStructure bool   `json:"special_beat_structure"`
	SpecialLineStructure bool   `json:"special_line_structure"`
	// slots hit, per line
	Notes map[string][]int `json:"notes"`
}

type Bar struct {
	Beats []Beat `json:"beats"`
}

type Score struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Settings Settings  `json:"settings"`
	Bars     []Bar     `json:"bars"`
}

type ChordCount struct {
	Key   string   `json:"key"`
	Lines []string `json:"lines"`
	Times int      `json:"times"`
}

func NewScore(s *score.Score) (Score, error) {
	settings := s.Settings()
	res := Score{
		ID:     s.ID,
		Title:  s.Title,
		Author: s.Author,
		Settings: Settings{
			Pitch:         settings.Pitch,
			NoteValue:     settings.NoteValue,
			Tempo:         settings.Tempo,
			BeatStructure: settings.Beat.String(),
			LineStructure: settings.Lines.String(),
		},
		Bars: make([]Bar, 0, s.Len()),
	}
	for _, b := range s.Bars() {
		bar := Bar{}
		for beat := 1; beat <= b.Beats(); beat++ {
			bs, err := b.BeatStructure(beat)
			if err != nil {
				return Score{}, err
			}
			ls, err := b.LineStructure(beat)
			if err != nil {
				return Score{}, err
			}
			specialBeat, _ := b.HasSpecialBeatStructure(beat)
			specialLines, _ := b.HasSpecialLineStructure(beat)
			body := Beat{
				BeatStructure:        bs.String(),
				LineStructure:        ls.String(),
				SpecialBeatStructure: specialBeat,
				SpecialLineStructure: specialLines,
				Notes:                make(map[string][]int),
			}
			lines, _ := b.Lines(beat)
			for _, line := range lines {
				set, _ := b.Notes(line, beat)
				slots := set.Slots()
				if slots == nil {
					slots = []int{}
				}
				body.Notes[line] = slots
			}
			bar.Beats = append(bar.Beats, body)
		}
		res.Bars = append(res.Bars, bar)
	}
	return res, nil
}

// Settings builds score settings from the request, filling in defaults.
func (r NewScoreRequest) Settings() (*score.Settings, error) {
	res := &score.Settings{
		Pitch:     r.Pitch,
		NoteValue: r.NoteValue,
		Tempo:     r.Tempo,
	}
	if res.Pitch == 0 {
		res.Pitch = constants.DefaultPitch
	}
	if res.NoteValue == 0 {
		res.NoteValue = constants.DefaultNoteValue
	}
	if res.Tempo == 0 {
		res.Tempo = constants.DefaultTempo
	}

	beat := r.BeatStructure
	if beat == "" {
		beat = constants.DefaultBeat
	}
	var err error
	if res.Beat, err = structure.ParseBeatStructure(beat); err != nil {
		return nil, err
	}
	if err := res.Beat.Validate(res.NoteValue); err != nil {
		return nil, err
	}

	lines := r.Lines
	if len(lines) == 0 {
		lines = constants.DefaultLines
	}
	res.Lines = structure.NewLineStructure()
	for _, line := range lines {
		if err := structure.CheckLineName(structure.Normalize(line)); err != nil {
			return nil, err
		}
		if !res.Lines.Add(line) {
			return nil, errs.InvalidArgument("repeated line %q", line)
		}
	}
	return res, res.Validate()
}

func NewChordCounts(counts []chord.Count) []ChordCount {
	res := make([]ChordCount, 0, len(counts))
	for _, c := range counts {
		res = append(res, ChordCount{Key: c.Key, Lines: c.Lines, Times: c.Times})
	}
	return res
}
