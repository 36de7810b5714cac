package player

// Listener receives playback events. OnPause, OnResume and OnStop run on
// the goroutine that called Pause, Resume or Stop; the others run on the
// playback goroutine.
type Listener interface {
	OnStart()
	OnNextNote(bar, beat, slot int)
	OnPause()
	OnResume()
	OnStop()
	OnFinish()
}

// Callbacks adapts plain functions to a Listener. Nil fields are skipped.
type Callbacks struct {
	Start    func()
	NextNote func(bar, beat, slot int)
	Pause    func()
	Resume   func()
	Stop     func()
	Finish   func()
}

func (c *Callbacks) OnStart() {
	if c.Start != nil {
		c.Start()
	}
}

func (c *Callbacks) OnNextNote(bar, beat, slot int) {
	if c.NextNote != nil {
		c.NextNote(bar, beat, slot)
	}
}

func (c *Callbacks) OnPause() {
	if c.Pause != nil {
		c.Pause()
	}
}

func (c *Callbacks) OnResume() {
	if c.Resume != nil {
		c.Resume()
	}
}

func (c *Callbacks) OnStop() {
	if c.Stop != nil {
		c.Stop()
	}
}

func (c *Callbacks) OnFinish() {
	if c.Finish != nil {
		c.Finish()
	}
}
