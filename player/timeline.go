package player

import (
	"time"

	"github.com/jsphweid/tablab/rational"
	"github.com/jsphweid/tablab/score"
)

// Event is one slot of the flattened timeline. Delay is the time from the
// start of the slot to the start of the next one.
type Event struct {
	Bar   int
	Beat  int
	Slot  int
	Delay time.Duration
}

// Flatten walks every slot of every beat of every bar, in order. The last
// slot of a beat gets whatever is left of the beat so rounding in the unit
// sizes never accumulates across beats.
func Flatten(s *score.Score) []Event {
	settings := s.Settings()
	beatLength := 60000 / settings.Tempo

	var res []Event
	for barIndex, bar := range s.Bars() {
		for beat := 1; beat <= bar.Beats(); beat++ {
			bs, err := bar.BeatStructure(beat)
			if err != nil {
				continue
			}
			evolution := bs.Evolution(settings.NoteValue)
			size := bs.Size()
			for slot := 1; slot <= size; slot++ {
				var step rational.Rational
				if slot < size {
					step = evolution[slot].Minus(evolution[slot-1])
				} else {
					step = rational.One().Minus(evolution[slot-1])
				}
				res = append(res, Event{
					Bar:   barIndex + 1,
					Beat:  beat,
					Slot:  slot,
					Delay: millis(step.Float64() * beatLength),
				})
			}
		}
	}
	return res
}

func millis(ms float64) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// Length is the total play time of a timeline.
func Length(events []Event) time.Duration {
	var res time.Duration
	for _, e := range events {
		res += e.Delay
	}
	return res
}
