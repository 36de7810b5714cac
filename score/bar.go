package score

import (
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/notes"
	"github.com/jsphweid/tablab/remap"
	"github.com/jsphweid/tablab/structure"
)

// Bar is one measure: Settings.Pitch beats, each holding a note set per
// line. Beat and slot numbers are 1-based. A bar is not safe for
// concurrent use.
type Bar struct {
	settings *Settings
	beats    []*beat
	bus      *Bus
}

// NewBar creates an empty bar laid out on the default structures.
func NewBar(settings *Settings) *Bar {
	b := &Bar{settings: settings}
	for i := 0; i < settings.Pitch; i++ {
		b.beats = append(b.beats, newBeat(settings.Lines))
	}
	return b
}

func (b *Bar) Settings() *Settings {
	return b.settings
}

// Beats is the number of beats in the bar.
func (b *Bar) Beats() int {
	return len(b.beats)
}

func (b *Bar) beatAt(n int) (*beat, error) {
	if n < 1 || n > len(b.beats) {
		return nil, errs.OutOfRange("beat", n, len(b.beats))
	}
	return b.beats[n-1], nil
}

func (b *Bar) effectiveStructure(bt *beat) structure.BeatStructure {
	if bt.special != nil {
		return *bt.special
	}
	return b.settings.Beat
}

func (b *Bar) effectiveLines(bt *beat) *structure.LineStructure {
	if bt.specialLines != nil {
		return bt.specialLines
	}
	return b.settings.Lines
}

func (b *Bar) checkSlot(bt *beat, slot int) error {
	size := b.effectiveStructure(bt).Size()
	if slot < 1 || slot > size || slot > notes.MaxSlots {
		return errs.OutOfRange("slot", slot, size)
	}
	return nil
}

// AddNote sets a note. An unknown line is ignored.
func (b *Bar) AddNote(line string, beatNumber, slot int) error {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return err
	}
	if err := b.checkSlot(bt, slot); err != nil {
		return err
	}
	line = structure.Normalize(line)
	i := bt.index(line)
	if i < 0 {
		return nil
	}
	bt.sets[i].Add(slot)
	b.bus.noteAdded(b, line, beatNumber, slot)
	return nil
}

// RemoveNote clears a note. An unknown line is ignored.
func (b *Bar) RemoveNote(line string, beatNumber, slot int) error {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return err
	}
	if err := b.checkSlot(bt, slot); err != nil {
		return err
	}
	line = structure.Normalize(line)
	i := bt.index(line)
	if i < 0 {
		return nil
	}
	bt.sets[i].Remove(slot)
	b.bus.noteRemoved(b, line, beatNumber, slot)
	return nil
}

// IsNote reports whether a note is set. An unknown line has no notes.
func (b *Bar) IsNote(line string, beatNumber, slot int) (bool, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return false, err
	}
	if err := b.checkSlot(bt, slot); err != nil {
		return false, err
	}
	set, _ := bt.get(structure.Normalize(line))
	return set.IsPresent(slot), nil
}

// Notes returns a copy of the note set of a line. An unknown line gives an
// empty set.
func (b *Bar) Notes(line string, beatNumber int) (notes.Set, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return 0, err
	}
	set, _ := bt.get(structure.Normalize(line))
	return set, nil
}

func (b *Bar) CompressedNotes(line string, beatNumber int) (uint64, error) {
	set, err := b.Notes(line, beatNumber)
	return set.Compressed(), err
}

// SetCompressedNotes stores a raw note set as is, without any remapping.
// It is meant for loading: the caller already knows the beat's structure.
// The line is added to the beat if it is missing.
func (b *Bar) SetCompressedNotes(line string, beatNumber int, v uint64) error {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return err
	}
	line = structure.Normalize(line)
	if err := structure.CheckLineName(line); err != nil {
		return err
	}
	bt.put(line, notes.FromCompressed(v))
	return nil
}

// Lines lists the lines stored in a beat, in order.
func (b *Bar) Lines(beatNumber int) ([]string, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), bt.lines...), nil
}

// BeatStructure is the structure in effect for a beat: its override if it
// has one, the score default otherwise.
func (b *Bar) BeatStructure(beatNumber int) (structure.BeatStructure, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return structure.BeatStructure{}, err
	}
	return b.effectiveStructure(bt), nil
}

// SpecialBeatStructure returns the override of a beat, if any.
func (b *Bar) SpecialBeatStructure(beatNumber int) (structure.BeatStructure, bool, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil || bt.special == nil {
		return structure.BeatStructure{}, false, err
	}
	return *bt.special, true, nil
}

func (b *Bar) HasSpecialBeatStructure(beatNumber int) (bool, error) {
	_, ok, err := b.SpecialBeatStructure(beatNumber)
	return ok, err
}

// SetSpecialBeatStructure overrides the structure of one beat, or clears the
// override when s is nil. The notes of every line are remapped from the old
// effective structure to the new one; notes with no exactly aligned slot in
// the new structure are lost.
func (b *Bar) SetSpecialBeatStructure(s *structure.BeatStructure, beatNumber int) error {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return err
	}
	if s != nil && s.Size() == 0 {
		return errs.InvalidArgument("beat structure has no slots")
	}
	if s != nil && s.Size() > notes.MaxSlots {
		return errs.InvalidArgument("%d slots in a beat, at most %d fit", s.Size(), notes.MaxSlots)
	}
	had := bt.special != nil
	from := b.effectiveStructure(bt)
	if s == nil {
		bt.special = nil
	} else {
		c := *s
		bt.special = &c
	}
	to := b.effectiveStructure(bt)
	for i := range bt.sets {
		bt.sets[i] = remap.Notes(bt.sets[i], from, to, b.settings.NoteValue)
	}

	if s != nil {
		b.bus.beatStructureChanged(b, beatNumber, true)
	} else if had {
		b.bus.beatStructureChanged(b, beatNumber, false)
	}
	return nil
}

// LineStructure is the line structure in effect for a beat. The result is a
// copy.
func (b *Bar) LineStructure(beatNumber int) (*structure.LineStructure, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return nil, err
	}
	return b.effectiveLines(bt).Clone(), nil
}

func (b *Bar) SpecialLineStructure(beatNumber int) (*structure.LineStructure, bool, error) {
	bt, err := b.beatAt(beatNumber)
	if err != nil || bt.specialLines == nil {
		return nil, false, err
	}
	return bt.specialLines.Clone(), true, nil
}

func (b *Bar) HasSpecialLineStructure(beatNumber int) (bool, error) {
	_, ok, err := b.SpecialLineStructure(beatNumber)
	return ok, err
}

// SetSpecialLineStructure overrides the lines of one beat, or clears the
// override when s is nil. Lines kept keep their notes, new lines start
// empty and lines left out are dropped.
func (b *Bar) SetSpecialLineStructure(s *structure.LineStructure, beatNumber int) error {
	bt, err := b.beatAt(beatNumber)
	if err != nil {
		return err
	}
	had := bt.specialLines != nil
	if s == nil {
		bt.specialLines = nil
	} else {
		bt.specialLines = s.Clone()
	}
	to := b.effectiveLines(bt)
	bt.sets = remap.Lines(bt.asMap(), to)
	bt.lines = to.Lines()

	if s != nil {
		b.bus.lineStructureChanged(b, beatNumber, true)
	} else if had {
		b.bus.lineStructureChanged(b, beatNumber, false)
	}
	return nil
}

// CopyBeat copies every line of one beat onto another, remapping the notes
// to the destination's structure. Lines the destination lacks are skipped
// and overrides are not copied.
func (b *Bar) CopyBeat(from, to int) error {
	src, err := b.beatAt(from)
	if err != nil {
		return err
	}
	dst, err := b.beatAt(to)
	if err != nil {
		return err
	}
	for _, line := range append([]string(nil), src.lines...) {
		b.copyLine(src, dst, line)
	}
	return nil
}

// CopyBeatLine is CopyBeat for a single line.
func (b *Bar) CopyBeatLine(line string, from, to int) error {
	src, err := b.beatAt(from)
	if err != nil {
		return err
	}
	dst, err := b.beatAt(to)
	if err != nil {
		return err
	}
	b.copyLine(src, dst, structure.Normalize(line))
	return nil
}

func (b *Bar) copyLine(src, dst *beat, line string) {
	set, ok := src.get(line)
	i := dst.index(line)
	if !ok || i < 0 {
		return
	}
	dst.sets[i] = remap.Notes(set, b.effectiveStructure(src), b.effectiveStructure(dst), b.settings.NoteValue)
}

// AddLine gives every beat without a line override an empty set for line.
// Beats with an override keep exactly the lines of their override.
func (b *Bar) AddLine(line string) {
	line = structure.Normalize(line)
	if structure.CheckLineName(line) != nil {
		return
	}
	for _, bt := range b.beats {
		if bt.specialLines == nil && bt.index(line) < 0 {
			bt.put(line, 0)
		}
	}
}

// RemoveLine drops line, and its notes, from every beat without a line
// override.
func (b *Bar) RemoveLine(line string) {
	line = structure.Normalize(line)
	for _, bt := range b.beats {
		if bt.specialLines == nil {
			bt.drop(line)
		}
	}
}

// Copy returns a deep copy sharing only the settings. The copy is not
// attached to any score.
func (b *Bar) Copy() *Bar {
	c := &Bar{settings: b.settings}
	for _, bt := range b.beats {
		c.beats = append(c.beats, bt.clone())
	}
	return c
}
