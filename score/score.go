// Package score holds the tab model: a Score of Bars, each Bar a fixed
// number of beats with a note set per line.
//
// Editing a score while a player reads it is the caller's business; nothing
// here is locked.
package score

import (
	"github.com/google/uuid"
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/structure"
)

type Score struct {
	ID     uuid.UUID
	Title  string
	Author string

	settings *Settings
	bars     []*Bar
	bus      *Bus
}

func New(title, author string, settings *Settings) (*Score, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Score{
		ID:       uuid.New(),
		Title:    title,
		Author:   author,
		settings: settings,
		bus:      NewBus(),
	}, nil
}

func (s *Score) Settings() *Settings {
	return s.settings
}

// Events is where edit listeners subscribe.
func (s *Score) Events() *Bus {
	return s.bus
}

// NewBar creates an empty bar for this score without adding it.
func (s *Score) NewBar() *Bar {
	return NewBar(s.settings)
}

func (s *Score) Len() int {
	return len(s.bars)
}

// Bars returns the bars in order. The slice is a copy, the bars are not.
func (s *Score) Bars() []*Bar {
	return append([]*Bar(nil), s.bars...)
}

func (s *Score) Bar(index int) (*Bar, error) {
	if index < 1 || index > len(s.bars) {
		return nil, errs.OutOfRange("bar", index, len(s.bars))
	}
	return s.bars[index-1], nil
}

func (s *Score) accept(b *Bar) error {
	if b == nil {
		return errs.InvalidArgument("nil bar")
	}
	if b.settings != s.settings {
		return errs.InvalidArgument("bar was made for other settings")
	}
	for _, x := range s.bars {
		if x == b {
			return errs.InvalidArgument("bar is already in the score")
		}
	}
	b.bus = s.bus
	return nil
}

func (s *Score) AppendBar(b *Bar) error {
	if err := s.accept(b); err != nil {
		return err
	}
	s.bars = append(s.bars, b)
	s.bus.barChanged(len(s.bars), true)
	return nil
}

// InsertBar puts b at the 1-based index; Len()+1 appends.
func (s *Score) InsertBar(index int, b *Bar) error {
	if index < 1 || index > len(s.bars)+1 {
		return errs.OutOfRange("bar", index, len(s.bars)+1)
	}
	if err := s.accept(b); err != nil {
		return err
	}
	s.bars = append(s.bars, nil)
	copy(s.bars[index:], s.bars[index-1:])
	s.bars[index-1] = b
	s.bus.barChanged(index, true)
	return nil
}

// SetBar replaces the bar at index.
func (s *Score) SetBar(index int, b *Bar) error {
	old, err := s.Bar(index)
	if err != nil {
		return err
	}
	if old == b {
		return nil
	}
	if err := s.accept(b); err != nil {
		return err
	}
	old.bus = nil
	s.bars[index-1] = b
	s.bus.barChanged(index, false)
	s.bus.barChanged(index, true)
	return nil
}

func (s *Score) RemoveBar(index int) error {
	b, err := s.Bar(index)
	if err != nil {
		return err
	}
	b.bus = nil
	s.bars = append(s.bars[:index-1], s.bars[index:]...)
	s.bus.barChanged(index, false)
	return nil
}

// AddLine adds a line to the default line structure and to every bar.
func (s *Score) AddLine(line string) bool {
	if !s.settings.Lines.Add(line) {
		return false
	}
	for _, b := range s.bars {
		b.AddLine(line)
	}
	return true
}

// RemoveLine drops a line, and its notes, from the default line structure
// and from every bar.
func (s *Score) RemoveLine(line string) bool {
	if !s.settings.Lines.Remove(line) {
		return false
	}
	for _, b := range s.bars {
		b.RemoveLine(line)
	}
	return true
}

// AllLines is the union of the line structures of every beat, in order of
// first appearance.
func (s *Score) AllLines() *structure.LineStructure {
	res := s.settings.Lines.Clone()
	for _, b := range s.bars {
		for _, bt := range b.beats {
			res = res.Union(b.effectiveLines(bt))
		}
	}
	return res
}

// Import makes a new bar for s holding the content of src, which may belong
// to another score with the same number of beats per bar. Where the two
// defaults differ, the beat keeps src's layout as an override. The bar is
// not added.
func (s *Score) Import(src *Bar) (*Bar, error) {
	if src == nil {
		return nil, errs.InvalidArgument("nil bar")
	}
	if src.settings.Pitch != s.settings.Pitch {
		return nil, errs.InvalidArgument("bar has %d beats, score bars have %d", src.settings.Pitch, s.settings.Pitch)
	}
	res := &Bar{settings: s.settings}
	for _, bt := range src.beats {
		c := bt.clone()
		if c.special == nil && !src.settings.Beat.Equal(s.settings.Beat) {
			bs := src.settings.Beat
			c.special = &bs
		}
		if c.specialLines == nil && !src.settings.Lines.Equal(s.settings.Lines) {
			c.specialLines = src.settings.Lines.Clone()
		}
		res.beats = append(res.beats, c)
	}
	return res, nil
}
