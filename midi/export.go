package midi

import (
	"io"
	"math"
	"sort"

	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/rational"
	"github.com/jsphweid/tablab/score"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// a 32nd note, the shortest unit a beat can hold
const hitTicks = constants.TicksPerQuarter / 8

type timedMessage struct {
	tick int64
	off  bool
	msg  gomidi.Message
}

// Unmapped lists the lines of s that kit has no key for. Export skips
// them.
func Unmapped(s *score.Score, kit Kit) []string {
	var res []string
	for _, line := range s.AllLines().Lines() {
		if _, ok := kit.Key(line); !ok {
			res = append(res, line)
		}
	}
	return res
}

// Keys maps lines hit together to kit keys, without duplicates.
func Keys(lines []string, kit Kit) []uint8 {
	var res []uint8
	seen := make(map[uint8]bool)
	for _, line := range lines {
		key, ok := kit.Key(line)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, key)
	}
	return res
}

func round(r rational.Rational) int64 {
	return int64(math.Round(r.Float64()))
}

// QuarterBPM converts a tempo counted in beats of 1/noteValue to quarter
// notes per minute, which is what a midi file stores.
func QuarterBPM(tempo float64, noteValue int) float64 {
	return tempo * 4 / float64(noteValue)
}

// Export renders s as a single track Standard MIDI File on the General MIDI
// drum channel.
func Export(s *score.Score, kit Kit) (*smf.SMF, error) {
	settings := s.Settings()
	perBeat := rational.MustNew(int64(constants.TicksPerQuarter)*4, int64(settings.NoteValue))

	var msgs []timedMessage
	var beats int64
	for _, bar := range s.Bars() {
		for beat := 1; beat <= bar.Beats(); beat++ {
			bs, err := bar.BeatStructure(beat)
			if err != nil {
				return nil, err
			}
			beatStart := perBeat.Times(rational.MustNew(beats, 1))
			evolution := bs.Evolution(settings.NoteValue)
			for slot := 1; slot <= bs.Size(); slot++ {
				lines, err := chord.At(bar, beat, slot)
				if err != nil {
					return nil, err
				}
				tick := round(beatStart.Plus(evolution[slot-1].Times(perBeat)))
				for _, key := range Keys(lines, kit) {
					msgs = append(msgs,
						timedMessage{tick: tick, msg: gomidi.NoteOn(drumChannel, key, constants.DefaultVelocity)},
						timedMessage{tick: tick + hitTicks, off: true, msg: gomidi.NoteOff(drumChannel, key)},
					)
				}
			}
			beats++
		}
	}
	end := round(perBeat.Times(rational.MustNew(beats, 1)))

	// note offs go before note ons on the same tick
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(s.Title))
	tr.Add(0, smf.MetaMeter(uint8(settings.Pitch), uint8(settings.NoteValue)))
	tr.Add(0, smf.MetaTempo(QuarterBPM(settings.Tempo, settings.NoteValue)))
	var last int64
	for _, m := range msgs {
		tr.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	if end < last {
		end = last
	}
	tr.Close(uint32(end - last))

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	if err := res.Add(tr); err != nil {
		return nil, errors.Wrap(err, "adding track")
	}
	return res, nil
}

// Write exports s to w.
func Write(w io.Writer, s *score.Score, kit Kit) error {
	mf, err := Export(s, kit)
	if err != nil {
		return err
	}
	if _, err := mf.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing midi file")
	}
	return nil
}
