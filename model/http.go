package model

import (
	"github.com/google/uuid"
	"github.com/jsphweid/tablab/player"
)

// NewScoreRequest creates a score. Zero fields take the defaults.
type NewScoreRequest struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Pitch         int      `json:"pitch"`
	NoteValue     int      `json:"note_value"`
	Tempo         float64  `json:"tempo"`
	BeatStructure string   `json:"beat_structure"`
	Lines         []string `json:"lines"`
	Bars          int      `json:"bars"`
}

// AppendBarRequest appends a copy of bar From, or an empty bar when From
// is zero.
type AppendBarRequest struct {
	From int `json:"from"`
}

type NoteRequest struct {
	Line string `json:"line"`
	Slot int    `json:"slot"`
}

// StructureRequest sets or clears beat overrides. A missing field leaves
// that override alone, an empty string clears it.
type StructureRequest struct {
	BeatStructure *string `json:"beat_structure"`
	LineStructure *string `json:"line_structure"`
}

type PlayRequest struct {
	ID uuid.UUID `json:"id"`
	// FromBar and Bars select an excerpt; zero plays everything.
	FromBar int `json:"from_bar"`
	Bars    int `json:"bars"`
}

type PlayerState struct {
	ScoreID  *uuid.UUID      `json:"score_id"`
	Playing  bool            `json:"playing"`
	Paused   bool            `json:"paused"`
	Position player.Position `json:"position"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
