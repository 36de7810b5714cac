package score

import (
	"github.com/jsphweid/tablab/notes"
	"github.com/jsphweid/tablab/structure"
)

// beat holds one beat of a bar: a note set per line in a fixed order, and
// the optional structure overrides for that beat only.
type beat struct {
	lines []string
	sets  []notes.Set

	special      *structure.BeatStructure
	specialLines *structure.LineStructure
}

func newBeat(lines *structure.LineStructure) *beat {
	return &beat{
		lines: lines.Lines(),
		sets:  make([]notes.Set, lines.Len()),
	}
}

func (b *beat) index(line string) int {
	for i, l := range b.lines {
		if l == line {
			return i
		}
	}
	return -1
}

func (b *beat) get(line string) (notes.Set, bool) {
	i := b.index(line)
	if i < 0 {
		return 0, false
	}
	return b.sets[i], true
}

// put replaces the set of line, adding the line at the end if needed.
func (b *beat) put(line string, set notes.Set) {
	if i := b.index(line); i >= 0 {
		b.sets[i] = set
		return
	}
	b.lines = append(b.lines, line)
	b.sets = append(b.sets, set)
}

func (b *beat) drop(line string) bool {
	i := b.index(line)
	if i < 0 {
		return false
	}
	b.lines = append(b.lines[:i], b.lines[i+1:]...)
	b.sets = append(b.sets[:i], b.sets[i+1:]...)
	return true
}

func (b *beat) asMap() map[string]notes.Set {
	m := make(map[string]notes.Set, len(b.lines))
	for i, line := range b.lines {
		m[line] = b.sets[i]
	}
	return m
}

func (b *beat) clone() *beat {
	c := &beat{
		lines: append([]string(nil), b.lines...),
		sets:  append([]notes.Set(nil), b.sets...),
	}
	if b.special != nil {
		s := *b.special
		c.special = &s
	}
	if b.specialLines != nil {
		c.specialLines = b.specialLines.Clone()
	}
	return c
}
