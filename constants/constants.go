package constants

import "os"

func GetDataDir() string {
	path := os.Getenv("TABLAB_DATA_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

func GetDBFile() string {
	name := os.Getenv("TABLAB_DB_FILE")
	if name != "" {
		return name
	}
	return "tablab.db"
}

func GetListenAddr() string {
	addr := os.Getenv("TABLAB_LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// Joins unit names in a BeatStructure and line names in a LineStructure
// when they are written out as text.
const StructureSeparator = "//"

// A beat's notes are packed in a uint64, one bit per slot.
const MaxSlotsPerBeat = 64

// General MIDI percussion is channel 10, 0-based here.
const DrumChannel = 9

const DefaultVelocity = 100

// smf ticks per quarter note used for exports
const TicksPerQuarter = 960

// Defaults for a new score.
const (
	DefaultPitch     = 4
	DefaultNoteValue = 4
	DefaultTempo     = 120
	DefaultBeat      = "SIXTEENTH_NOTE//SIXTEENTH_NOTE//SIXTEENTH_NOTE//SIXTEENTH_NOTE"
)

var DefaultLines = []string{"Hit-hat", "Snare", "Bass"}
