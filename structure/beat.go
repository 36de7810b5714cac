package structure

import (
	"math"
	"strings"

	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/rational"
	"github.com/pkg/errors"
)

// integrityTolerance is the slack allowed by CheckIntegrity.
const integrityTolerance = 0.01

// BeatStructure is the ordered list of units one beat is split into.
// It is immutable once built.
type BeatStructure struct {
	units []NoteTime
}

// NewBeatStructure fails on an empty unit list, which has no text form.
func NewBeatStructure(units ...NoteTime) (BeatStructure, error) {
	if len(units) == 0 {
		return BeatStructure{}, errs.InvalidArgument("empty beat structure")
	}
	for _, u := range units {
		if !u.Valid() {
			return BeatStructure{}, errs.InvalidArgument("invalid note time %d", int(u))
		}
	}
	return BeatStructure{units: append([]NoteTime(nil), units...)}, nil
}

func MustBeatStructure(units ...NoteTime) BeatStructure {
	b, err := NewBeatStructure(units...)
	if err != nil {
		panic(err)
	}
	return b
}

// Size is the number of slots in the beat.
func (b BeatStructure) Size() int {
	return len(b.units)
}

// At returns the unit of the 0-based slot i.
func (b BeatStructure) At(i int) NoteTime {
	return b.units[i]
}

func (b BeatStructure) Units() []NoteTime {
	return append([]NoteTime(nil), b.units...)
}

func (b BeatStructure) Equal(o BeatStructure) bool {
	if len(b.units) != len(o.units) {
		return false
	}
	for i := range b.units {
		if b.units[i] != o.units[i] {
			return false
		}
	}
	return true
}

func (b BeatStructure) step(i, noteValue int) rational.Rational {
	return rational.MustNew(int64(noteValue), int64(b.units[i].Weight()))
}

// Evolution returns where every slot starts, as a fraction of the beat.
// It has Size()+1 entries: 0/1 first, then the running sum of the units,
// so the last entry is the whole length of the structure.
func (b BeatStructure) Evolution(noteValue int) []rational.Rational {
	res := make([]rational.Rational, 0, len(b.units)+1)
	acc := rational.Zero()
	res = append(res, acc)
	for i := range b.units {
		acc.Add(b.step(i, noteValue))
		res = append(res, acc)
	}
	return res
}

// Duration is the exact length of the structure in beats.
func (b BeatStructure) Duration(noteValue int) rational.Rational {
	evolution := b.Evolution(noteValue)
	return evolution[len(evolution)-1]
}

// CheckIntegrity reports whether the units add up to one beat within ±0.01.
func (b BeatStructure) CheckIntegrity(noteValue int) bool {
	var sum float64
	for _, u := range b.units {
		sum += float64(noteValue) / float64(u.Weight())
	}
	return math.Abs(sum-1) <= integrityTolerance
}

// CheckIntegrityExact is CheckIntegrity without any tolerance.
func (b BeatStructure) CheckIntegrityExact(noteValue int) bool {
	return b.Duration(noteValue).Equal(rational.One())
}

// Validate is CheckIntegrity as an error.
func (b BeatStructure) Validate(noteValue int) error {
	if !b.CheckIntegrity(noteValue) {
		return errors.Wrapf(errs.ErrStructuralIntegrity, "%v lasts %v beats with note value %d",
			b, b.Duration(noteValue), noteValue)
	}
	return nil
}

func (b BeatStructure) String() string {
	names := make([]string, len(b.units))
	for i, u := range b.units {
		names[i] = u.String()
	}
	return strings.Join(names, constants.StructureSeparator)
}

func ParseBeatStructure(s string) (BeatStructure, error) {
	if strings.TrimSpace(s) == "" {
		return BeatStructure{}, errs.InvalidArgument("empty beat structure")
	}
	var units []NoteTime
	for _, part := range strings.Split(s, constants.StructureSeparator) {
		u, err := ParseNoteTime(part)
		if err != nil {
			return BeatStructure{}, errors.Wrapf(err, "beat structure %q", s)
		}
		units = append(units, u)
	}
	return BeatStructure{units: units}, nil
}

// Uniform fills one beat with the given unit, e.g. four SIXTEENTH for a
// quarter-note beat. It fails when the unit does not divide the beat.
func Uniform(unit NoteTime, noteValue int) (BeatStructure, error) {
	if !unit.Valid() {
		return BeatStructure{}, errs.InvalidArgument("invalid note time %d", int(unit))
	}
	if noteValue <= 0 || unit.Weight()%noteValue != 0 {
		return BeatStructure{}, errors.Wrapf(errs.ErrStructuralIntegrity,
			"%v does not divide a beat of note value %d", unit, noteValue)
	}
	n := unit.Weight() / noteValue
	units := make([]NoteTime, n)
	for i := range units {
		units[i] = unit
	}
	return BeatStructure{units: units}, nil
}

func MustUniform(unit NoteTime, noteValue int) BeatStructure {
	b, err := Uniform(unit, noteValue)
	if err != nil {
		panic(err)
	}
	return b
}

// Standard lists every uniform structure that fits a beat of noteValue,
// coarsest first.
func Standard(noteValue int) []BeatStructure {
	var res []BeatStructure
	for _, u := range NoteTimes {
		if b, err := Uniform(u, noteValue); err == nil && b.Size() <= constants.MaxSlotsPerBeat {
			res = append(res, b)
		}
	}
	return res
}
