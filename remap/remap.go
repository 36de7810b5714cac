// Package remap moves notes from one beat or line structure to another.
//
// Beat remapping is exact: a note survives only if its slot starts at the
// very same instant as some slot of the new structure. Notes with no exact
// counterpart are dropped without error; compare Count() before and after
// to detect that.
package remap

import (
	"github.com/jsphweid/tablab/notes"
	"github.com/jsphweid/tablab/structure"
)

// Notes projects set, laid out on from, onto to.
func Notes(set notes.Set, from, to structure.BeatStructure, noteValue int) notes.Set {
	oldEvolution := from.Evolution(noteValue)
	newEvolution := to.Evolution(noteValue)
	var res notes.Set

	// only slot starts matter, the final entry is the end of the beat
	i, j := 0, 0
	for i < from.Size() && j < to.Size() {
		switch oldEvolution[i].Cmp(newEvolution[j]) {
		case 0:
			if set.IsPresent(i + 1) {
				res.Add(j + 1)
			}
			i++
			j++
		case 1:
			j++
		default:
			i++
		}
	}
	return res
}

// Lost counts the notes of set that Notes would drop.
func Lost(set notes.Set, from, to structure.BeatStructure, noteValue int) int {
	return set.Count() - Notes(set, from, to, noteValue).Count()
}

// Lines lays the sets of a beat out on a new line structure. The result is
// aligned with to.Lines(): lines already in old keep their notes, new lines
// start empty and lines missing from to are dropped. Lines are matched by
// name, never by position.
func Lines(old map[string]notes.Set, to *structure.LineStructure) []notes.Set {
	res := make([]notes.Set, to.Len())
	for i, line := range to.Lines() {
		if set, ok := old[line]; ok {
			res[i] = set
		}
	}
	return res
}
