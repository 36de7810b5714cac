package structure

import (
	"strconv"
	"strings"

	"github.com/jsphweid/tablab/errs"
)

// NoteTime is a subdivision unit. Its value is the note denominator: a
// unit lasts noteValue/NoteTime beats, so with a quarter-note beat a
// SIXTEENTH lasts 4/16 of a beat.
type NoteTime int

const (
	Whole         NoteTime = 1
	Half          NoteTime = 2
	Quarter       NoteTime = 4
	Eighth        NoteTime = 8
	Triplet       NoteTime = 12
	Sixteenth     NoteTime = 16
	QuaverTriplet NoteTime = 24
	ThirtySecond  NoteTime = 32
)

// NoteTimes lists every unit, longest first.
var NoteTimes = []NoteTime{Whole, Half, Quarter, Eighth, Triplet, Sixteenth, QuaverTriplet, ThirtySecond}

var noteTimeNames = map[NoteTime]string{
	Whole:         "WHOLE_NOTE",
	Half:          "HALF_NOTE",
	Quarter:       "QUARTER_NOTE",
	Eighth:        "EIGHTH_NOTE",
	Triplet:       "TRIPLET_NOTE",
	Sixteenth:     "SIXTEENTH_NOTE",
	QuaverTriplet: "QUAVER_TRIPLET_NOTE",
	ThirtySecond:  "THIRTY_SECOND_NOTE",
}

func (n NoteTime) Weight() int {
	return int(n)
}

func (n NoteTime) Valid() bool {
	_, ok := noteTimeNames[n]
	return ok
}

func (n NoteTime) String() string {
	if name, ok := noteTimeNames[n]; ok {
		return name
	}
	return "NoteTime(" + strconv.Itoa(int(n)) + ")"
}

func ParseNoteTime(s string) (NoteTime, error) {
	s = strings.TrimSpace(s)
	for n, name := range noteTimeNames {
		if name == s {
			return n, nil
		}
	}
	return 0, errs.InvalidArgument("unknown note time %q", s)
}
