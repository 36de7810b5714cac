// Package player plays a score back in real time. It makes no sound: it
// walks the timeline and tells its listeners which slot has been reached.
//
// A Player only reads the score. Editing the score while it plays is up to
// the caller and gives undefined results.
package player

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/score"
)

// Position is the last slot reached. Zero values mean nothing was played
// yet.
type Position struct {
	Bar  int `json:"bar"`
	Beat int `json:"beat"`
	Slot int `json:"slot"`
}

// Player runs at most one playback goroutine at a time.
//
// Play waits for the previous session to end, so it must not be called
// from OnStart, OnNextNote or OnFinish.
type Player struct {
	logger *log.Logger

	// serializes Play
	playMu sync.Mutex

	mu       sync.Mutex
	cond     *sync.Cond
	started  bool
	paused   bool
	position Position
	wake     chan struct{}
	done     chan struct{}

	listenersMu sync.Mutex
	listeners   []Listener
}

func New(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	done := make(chan struct{})
	close(done)
	p := &Player{logger: logger, done: done}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *Player) AddListener(l Listener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *Player) RemoveListener(l Listener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	for i, x := range p.listeners {
		if x == l {
			p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
			return
		}
	}
}

func (p *Player) emit(f func(Listener)) {
	p.listenersMu.Lock()
	ls := append([]Listener(nil), p.listeners...)
	p.listenersMu.Unlock()
	for _, l := range ls {
		f(l)
	}
}

// Play starts s from its first bar. A session already running is stopped,
// and fully ended, first.
func (p *Player) Play(s *score.Score) error {
	if s == nil {
		return errs.InvalidArgument("nil score")
	}
	events := Flatten(s)

	p.playMu.Lock()
	defer p.playMu.Unlock()

	if p.IsPlaying() {
		p.Stop()
	}
	<-p.Done()

	wake := make(chan struct{}, 1)
	done := make(chan struct{})
	p.mu.Lock()
	p.started = true
	p.paused = false
	p.position = Position{}
	p.wake = wake
	p.done = done
	p.mu.Unlock()

	p.logger.Printf("playing %q: %d slots, %v", s.Title, len(events), Length(events))
	go p.run(events, wake, done)
	return nil
}

// Pause holds the timeline where it is. OnPause fires even when already
// paused.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.started && !p.paused {
		p.paused = true
		p.interrupt()
	}
	p.mu.Unlock()
	p.emit(func(l Listener) { l.OnPause() })
}

// Resume continues a paused timeline with whatever was left of the slot it
// was paused in. OnResume always fires.
func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.cond.Broadcast()
	p.mu.Unlock()
	p.emit(func(l Listener) { l.OnResume() })
}

// Stop ends the session. The playback goroutine exits, firing OnFinish,
// shortly after; use Wait to block until it has. OnStop always fires.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.started {
		p.started = false
		p.interrupt()
	}
	p.paused = false
	p.cond.Broadcast()
	p.mu.Unlock()
	p.emit(func(l Listener) { l.OnStop() })
}

// must hold mu
func (p *Player) interrupt() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// IsPaused is independent of IsPlaying: a paused session is still playing.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Position() Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Done is closed when the current session's goroutine has exited. With no
// session it is already closed.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Player) Wait() {
	<-p.Done()
}

func (p *Player) run(events []Event, wake <-chan struct{}, done chan struct{}) {
	defer close(done)

	p.emit(func(l Listener) { l.OnStart() })

	// Deadlines are absolute so time spent in listeners does not drift the
	// timeline.
	at := time.Now()
	ok := true
	played := 0
	for _, e := range events {
		if at, ok = p.hold(at); !ok {
			break
		}
		p.mu.Lock()
		p.position = Position{Bar: e.Bar, Beat: e.Beat, Slot: e.Slot}
		p.mu.Unlock()
		p.emit(func(l Listener) { l.OnNextNote(e.Bar, e.Beat, e.Slot) })
		played++

		if at, ok = p.sleepUntil(at.Add(e.Delay), wake); !ok {
			break
		}
	}

	p.mu.Lock()
	p.started = false
	p.paused = false
	p.mu.Unlock()

	p.logger.Printf("finished after %d of %d slots", played, len(events))
	p.emit(func(l Listener) { l.OnFinish() })
}

// hold blocks while paused. The time left until deadline when the pause
// began is kept, so the returned deadline is shifted by the pause length.
// ok is false once the session is stopped.
func (p *Player) hold(deadline time.Time) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started && p.paused {
		remaining := time.Until(deadline)
		for p.started && p.paused {
			p.cond.Wait()
		}
		deadline = time.Now().Add(remaining)
	}
	return deadline, p.started
}

func (p *Player) sleepUntil(deadline time.Time, wake <-chan struct{}) (time.Time, bool) {
	for {
		d := time.Until(deadline)
		if d <= 0 {
			return p.hold(deadline)
		}
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-wake:
			t.Stop()
			var ok bool
			if deadline, ok = p.hold(deadline); !ok {
				return deadline, false
			}
		}
	}
}
