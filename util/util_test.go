package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGcd(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{12, 8, 4},
		{-12, 8, 4},
		{12, -8, 4},
		{0, 5, 5},
		{7, 0, 7},
		{0, 0, 0},
		{17, 5, 1},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("gcd(%v,%v)", c.a, c.b), func(t *testing.T) {
			assert.Equal(t, c.want, Gcd(c.a, c.b))
		})
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"Snare": 1, "Bass": 2, "Crash": 3}
	assert.Equal(t, []string{"Bass", "Crash", "Snare"}, SortedKeys(m))
}

func TestMinSumAbs(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 9))
	assert.Equal(uint64(10), Sum([]int{1, 2, 3, 4}))
	assert.Equal(int64(4), Abs(int64(-4)))
}
