package score

import "sync"

// NoteListener hears about single notes being set or cleared in a bar.
type NoteListener interface {
	NoteAdded(bar *Bar, line string, beat, slot int)
	NoteRemoved(bar *Bar, line string, beat, slot int)
}

// BeatStructureListener hears about beat structure overrides. The event is
// sent after the notes of the beat have been remapped.
type BeatStructureListener interface {
	BeatStructureAdded(bar *Bar, beat int)
	BeatStructureRemoved(bar *Bar, beat int)
}

// LineStructureListener hears about line structure overrides, after the
// beat's lines have been remapped.
type LineStructureListener interface {
	LineStructureAdded(bar *Bar, beat int)
	LineStructureRemoved(bar *Bar, beat int)
}

// BarListener hears about bars entering or leaving a score. index is
// 1-based.
type BarListener interface {
	BarAdded(index int)
	BarRemoved(index int)
}

type Category int

const (
	NoteEvents Category = iota
	BeatStructureEvents
	LineStructureEvents
	BarEvents
)

// Bus dispatches edit events synchronously, in registration order.
// Listeners may subscribe or unsubscribe from inside a callback.
type Bus struct {
	mu        sync.Mutex
	listeners map[Category][]interface{}
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[Category][]interface{})}
}

func categories(l interface{}) []Category {
	var res []Category
	if _, ok := l.(NoteListener); ok {
		res = append(res, NoteEvents)
	}
	if _, ok := l.(BeatStructureListener); ok {
		res = append(res, BeatStructureEvents)
	}
	if _, ok := l.(LineStructureListener); ok {
		res = append(res, LineStructureEvents)
	}
	if _, ok := l.(BarListener); ok {
		res = append(res, BarEvents)
	}
	return res
}

// Subscribe registers l for every listener interface it implements and
// returns how many that was.
func (b *Bus) Subscribe(l interface{}) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	cats := categories(l)
	for _, c := range cats {
		b.listeners[c] = append(b.listeners[c], l)
	}
	return len(cats)
}

func (b *Bus) Unsubscribe(l interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range categories(l) {
		ls := b.listeners[c]
		for i, x := range ls {
			if x == l {
				b.listeners[c] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	}
}

func (b *Bus) snapshot(c Category) []interface{} {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]interface{}(nil), b.listeners[c]...)
}

func (b *Bus) noteAdded(bar *Bar, line string, beat, slot int) {
	for _, l := range b.snapshot(NoteEvents) {
		l.(NoteListener).NoteAdded(bar, line, beat, slot)
	}
}

func (b *Bus) noteRemoved(bar *Bar, line string, beat, slot int) {
	for _, l := range b.snapshot(NoteEvents) {
		l.(NoteListener).NoteRemoved(bar, line, beat, slot)
	}
}

func (b *Bus) beatStructureChanged(bar *Bar, beat int, added bool) {
	for _, l := range b.snapshot(BeatStructureEvents) {
		if added {
			l.(BeatStructureListener).BeatStructureAdded(bar, beat)
		} else {
			l.(BeatStructureListener).BeatStructureRemoved(bar, beat)
		}
	}
}

func (b *Bus) lineStructureChanged(bar *Bar, beat int, added bool) {
	for _, l := range b.snapshot(LineStructureEvents) {
		if added {
			l.(LineStructureListener).LineStructureAdded(bar, beat)
		} else {
			l.(LineStructureListener).LineStructureRemoved(bar, beat)
		}
	}
}

func (b *Bus) barChanged(index int, added bool) {
	for _, l := range b.snapshot(BarEvents) {
		if added {
			l.(BarListener).BarAdded(index)
		} else {
			l.(BarListener).BarRemoved(index)
		}
	}
}
