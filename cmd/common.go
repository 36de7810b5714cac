package cmd

import (
	"github.com/google/uuid"
	"github.com/jsphweid/tablab/config"
	"github.com/jsphweid/tablab/db"
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/sample"
	"github.com/jsphweid/tablab/score"
)

func openStore() (*config.Config, db.ScoreStore, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func loadScore(store db.ScoreStore, arg string) (*score.Score, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return nil, errs.InvalidArgument("%q is not a score id", arg)
	}
	return store.Load(id)
}

// excerpt gives a private copy of s, cut down when fromBar is set. The
// player reads the copy so later edits of s cannot race with it.
func excerpt(s *score.Score, fromBar, bars int) (*score.Score, error) {
	if fromBar == 0 {
		fromBar = 1
	}
	if s.Len() == 0 {
		return s, nil
	}
	return sample.Create(s, fromBar, bars)
}
