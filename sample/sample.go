// Package sample cuts excerpts out of a score, for looping a few bars or
// playing from somewhere in the middle.
package sample

import (
	"fmt"

	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/util"
)

// Create returns a new score with count bars of s starting at bar from.
// A count running past the end is cut short and count <= 0 takes every bar
// to the end. The excerpt shares nothing with s.
func Create(s *score.Score, from, count int) (*score.Score, error) {
	if from < 1 || from > s.Len() {
		return nil, errs.OutOfRange("bar", from, s.Len())
	}
	last := s.Len()
	if count > 0 {
		last = util.Min(last, from+count-1)
	}

	title := fmt.Sprintf("%s [%d-%d]", s.Title, from, last)
	res, err := score.New(title, s.Author, s.Settings().Clone())
	if err != nil {
		return nil, err
	}
	for i := from; i <= last; i++ {
		bar, err := s.Bar(i)
		if err != nil {
			return nil, err
		}
		c, err := res.Import(bar)
		if err != nil {
			return nil, err
		}
		if err := res.AppendBar(c); err != nil {
			return nil, err
		}
	}
	return res, nil
}
