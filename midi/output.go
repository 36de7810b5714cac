package midi

import (
	"io"
	"log"
	"sync"

	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/constants"
	"github.com/jsphweid/tablab/score"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Output is a player listener that sends the hits of every slot reached to
// a midi port. A hit rings until the next slot, a pause or the end.
type Output struct {
	score  *score.Score
	kit    Kit
	send   Sender
	logger *log.Logger

	mu       sync.Mutex
	sounding []uint8
}

func NewOutput(s *score.Score, kit Kit, send Sender, logger *log.Logger) *Output {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Output{score: s, kit: kit, send: send, logger: logger}
}

// must hold mu
func (o *Output) silence() {
	for _, key := range o.sounding {
		o.write(gomidi.NoteOff(drumChannel, key))
	}
	o.sounding = nil
}

func (o *Output) write(msg gomidi.Message) {
	if err := o.send(msg); err != nil {
		o.logger.Printf("midi out: %v: %v", msg, err)
	}
}

func (o *Output) OnStart() {}

func (o *Output) OnNextNote(bar, beat, slot int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.silence()

	b, err := o.score.Bar(bar)
	if err != nil {
		o.logger.Printf("midi out: %v", err)
		return
	}
	lines, err := chord.At(b, beat, slot)
	if err != nil {
		o.logger.Printf("midi out: %v", err)
		return
	}
	for _, key := range Keys(lines, o.kit) {
		o.write(gomidi.NoteOn(drumChannel, key, constants.DefaultVelocity))
		o.sounding = append(o.sounding, key)
	}
}

func (o *Output) OnPause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.silence()
}

func (o *Output) OnResume() {}

func (o *Output) OnStop() {
	o.OnPause()
}

func (o *Output) OnFinish() {
	o.OnPause()
}
