// Package chord looks at a tab vertically: which lines are hit together at
// one slot.
package chord

import (
	"sort"
	"strings"

	"github.com/jsphweid/tablab/score"
)

// At lists the lines hit at one slot of a beat, in the beat's line order.
func At(bar *score.Bar, beat, slot int) ([]string, error) {
	lines, err := bar.Lines(beat)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, line := range lines {
		hit, err := bar.IsNote(line, beat, slot)
		if err != nil {
			return nil, err
		}
		if hit {
			res = append(res, line)
		}
	}
	return res, nil
}

// Key names a chord independently of line order. An empty chord has an
// empty key.
func Key(lines []string) string {
	sorted := append([]string(nil), lines...)
	sort.Strings(sorted)
	return strings.Join(sorted, "-")
}

// Count is how often one chord shows up in a score.
type Count struct {
	Key   string
	Lines []string
	Times int
}

// Histogram counts every non empty chord in s, most frequent first. Ties
// are ordered by key.
func Histogram(s *score.Score) ([]Count, error) {
	counts := make(map[string]*Count)
	for _, bar := range s.Bars() {
		for beat := 1; beat <= bar.Beats(); beat++ {
			bs, err := bar.BeatStructure(beat)
			if err != nil {
				return nil, err
			}
			for slot := 1; slot <= bs.Size(); slot++ {
				lines, err := At(bar, beat, slot)
				if err != nil {
					return nil, err
				}
				if len(lines) == 0 {
					continue
				}
				k := Key(lines)
				c, ok := counts[k]
				if !ok {
					c = &Count{Key: k, Lines: lines}
					counts[k] = c
				}
				c.Times++
			}
		}
	}

	res := make([]Count, 0, len(counts))
	for _, c := range counts {
		res = append(res, *c)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Times != res[j].Times {
			return res[i].Times > res[j].Times
		}
		return res[i].Key < res[j].Key
	})
	return res, nil
}
