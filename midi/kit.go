// Package midi bridges tabs and MIDI: a General MIDI drum kit mapping,
// Standard MIDI File export and a live output for the player.
package midi

import (
	"strings"

	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/structure"
)

const drumChannel = constants.DrumChannel

// Kit maps line names to General MIDI percussion keys. Lookups ignore case.
type Kit map[string]uint8

func DefaultKit() Kit {
	return Kit{
		"bass drum":    36,
		"bass":         36,
		"snare":        38,
		"floor tom":    41,
		"hit-hat":      42,
		"hi-hat":       42,
		"open hit-hat": 46,
		"middle tom":   47,
		"crash":        49,
		"high tom":     50,
		"ride":         51,
		"splash":       55,
	}
}

func kitKey(line string) string {
	return strings.ToLower(structure.Normalize(line))
}

func (k Kit) Key(line string) (uint8, bool) {
	key, ok := k[kitKey(line)]
	return key, ok
}

func (k Kit) Set(line string, key uint8) {
	k[kitKey(line)] = key
}

// Name is the first line name, alphabetically, mapped to key.
func (k Kit) Name(key uint8) string {
	var res string
	for name, v := range k {
		if v == key && (res == "" || name < res) {
			res = name
		}
	}
	return res
}
