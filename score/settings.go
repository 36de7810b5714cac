package score

import (
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/structure"
)

// Settings are shared by reference between a score and all of its bars.
type Settings struct {
	// Pitch is the number of beats per bar.
	Pitch int
	// NoteValue is the unit of one beat: 4 for a quarter note.
	NoteValue int
	// Tempo in beats per minute.
	Tempo float64
	// Beat and Lines are the defaults for beats without an override.
	Beat  structure.BeatStructure
	Lines *structure.LineStructure
}

// Validate checks the numeric fields. The beat structure's integrity is not
// checked here; see structure.BeatStructure.Validate.
func (s *Settings) Validate() error {
	switch {
	case s == nil:
		return errs.InvalidArgument("nil settings")
	case s.Pitch <= 0:
		return errs.InvalidArgument("pitch must be positive, got %d", s.Pitch)
	case s.NoteValue <= 0:
		return errs.InvalidArgument("note value must be positive, got %d", s.NoteValue)
	case s.Tempo <= 0:
		return errs.InvalidArgument("tempo must be positive, got %v", s.Tempo)
	case s.Beat.Size() == 0:
		return errs.InvalidArgument("settings have no beat structure")
	case s.Lines == nil:
		return errs.InvalidArgument("settings have no line structure")
	}
	return nil
}

// Clone copies the settings. The beat structure is immutable and shared.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Lines = s.Lines.Clone()
	return &c
}
