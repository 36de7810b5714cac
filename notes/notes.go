package notes

import "math/bits"

// MaxSlots is the number of slots a Set can hold.
const MaxSlots = 64

// Set records which slots of one line within one beat hold a note.
// Bit n-1 is slot n. It is a plain value: copies never alias.
//
// Slots outside [1, MaxSlots] are ignored by Add and Remove and are never
// present.
type Set uint64

func (s *Set) Add(n int) {
	if n < 1 || n > MaxSlots {
		return
	}
	*s |= 1 << uint(n-1)
}

func (s *Set) Remove(n int) {
	if n < 1 || n > MaxSlots {
		return
	}
	*s &^= 1 << uint(n-1)
}

func (s Set) IsPresent(n int) bool {
	if n < 1 || n > MaxSlots {
		return false
	}
	return s&(1<<uint(n-1)) != 0
}

func (s Set) Copy() Set {
	return s
}

// Compressed is the raw bit pattern, as stored by the persistence layer.
func (s Set) Compressed() uint64 {
	return uint64(s)
}

func FromCompressed(v uint64) Set {
	return Set(v)
}

func (s Set) Count() int {
	return bits.OnesCount64(uint64(s))
}

func (s Set) Empty() bool {
	return s == 0
}

// Slots lists the present slots in ascending order.
func (s Set) Slots() []int {
	var res []int
	v := uint64(s)
	for v != 0 {
		i := bits.TrailingZeros64(v)
		res = append(res, i+1)
		v &^= 1 << uint(i)
	}
	return res
}
