package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = &blank, errors.Errorf("parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// Hit is a note on found in a midi file.
type Hit struct {
	Track   int
	Tick    int64
	Micros  int64
	Channel uint8
	Key     uint8
	Name    string
}

func (h Hit) String() string {
	name := h.Name
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("%8.3fs ch%-2d %3d %s", float64(h.Micros)/1e6, h.Channel+1, h.Key, name)
}

// NoteOns lists every note on of s ordered by time. Names come from kit
// when the hit is on the drum channel.
func NoteOns(s *smf.SMF, kit Kit) []Hit {
	var res []Hit
	for i, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			if !event.Message.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
				continue
			}
			h := Hit{
				Track:   i,
				Tick:    absTicks,
				Micros:  s.TimeAt(absTicks),
				Channel: channel,
				Key:     key,
			}
			if channel == drumChannel {
				h.Name = kit.Name(key)
			}
			res = append(res, h)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Tick < res[j].Tick
	})
	return res
}

// Sender writes one message to an output port, as returned by
// gomidi.SendTo.
type Sender = func(msg gomidi.Message) error

// OpenOutput finds an output port by name, or takes the first one when
// name is empty. A driver must be registered by the caller.
func OpenOutput(name string) (Sender, error) {
	var out drivers.Out
	var err error
	if name == "" {
		out, err = gomidi.OutPort(0)
	} else {
		out, err = gomidi.FindOutPort(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding midi output %q", name)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "opening midi output %s", out)
	}
	return send, nil
}

func CloseDriver() {
	gomidi.CloseDriver()
}
