package score

import (
	"github.com/jsphweid/tablab/structure"
)

const (
	hitHat = "Hit-hat"
	snare  = "Snare"
	bass   = "Bass"
)

func testSettings() *Settings {
	return &Settings{
		Pitch:     4,
		NoteValue: 4,
		Tempo:     120,
		Beat:      structure.MustUniform(structure.Sixteenth, 4),
		Lines:     structure.NewLineStructure(hitHat, snare, bass),
	}
}

func structureOf(lines ...string) *structure.LineStructure {
	return structure.NewLineStructure(lines...)
}
