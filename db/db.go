// Package db persists scores.
package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/tablab/score"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("score not found")

// Summary describes a stored score without loading its bars.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Bars      int       `json:"bars"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreStore saves and loads whole scores. Save replaces any score stored
// under the same ID.
type ScoreStore interface {
	Save(s *score.Score) error
	Load(id uuid.UUID) (*score.Score, error)
	List() ([]Summary, error)
	Delete(id uuid.UUID) error
	Close() error
}
