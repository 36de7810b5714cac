package db

import (
	"database/sql"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/pkg/errors"
)

type sqliteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// Note sets are stored as INTEGER, which sqlite keeps signed: the bits
// are written as int64 and read back as uint64.
const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		pitch INTEGER NOT NULL,
		note_value INTEGER NOT NULL,
		tempo REAL NOT NULL,
		beat_structure TEXT NOT NULL,
		line_structure TEXT NOT NULL,
		bars INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS beats (
		score_id TEXT NOT NULL REFERENCES scores(id) ON DELETE CASCADE,
		bar INTEGER NOT NULL,
		beat INTEGER NOT NULL,
		beat_structure TEXT,
		line_structure TEXT,
		PRIMARY KEY (score_id, bar, beat)
	);
	CREATE TABLE IF NOT EXISTS notes (
		score_id TEXT NOT NULL REFERENCES scores(id) ON DELETE CASCADE,
		bar INTEGER NOT NULL,
		beat INTEGER NOT NULL,
		line TEXT NOT NULL,
		bits INTEGER NOT NULL,
		PRIMARY KEY (score_id, bar, beat, line)
	);
	`

// NewSQLiteStore opens, creating if needed, the database at dataSourceName.
func NewSQLiteStore(dataSourceName string, logger *log.Logger) (ScoreStore, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}
	// one writer; sqlite locks the whole file anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create tables")
	}
	logger.Printf("SQLite database initialized at: %s", dataSourceName)
	return &sqliteStore{db: db, logger: logger}, nil
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.logger.Println("SQLite database connection closed.")
	return err
}

func nullable(str string, ok bool) sql.NullString {
	return sql.NullString{String: str, Valid: ok}
}

func (s *sqliteStore) Save(sc *score.Score) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			s.logger.Printf("ERROR: failed to save score %s: %v", sc.ID, err)
		}
	}()

	id := sc.ID.String()
	settings := sc.Settings()
	// cascades to beats and notes
	if _, err = tx.Exec("DELETE FROM scores WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "clearing score")
	}
	_, err = tx.Exec(`INSERT INTO scores
		(id, title, author, pitch, note_value, tempo, beat_structure, line_structure, bars, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sc.Title, sc.Author, settings.Pitch, settings.NoteValue, settings.Tempo,
		settings.Beat.String(), settings.Lines.String(), sc.Len(), time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "inserting score")
	}

	for i, bar := range sc.Bars() {
		for beat := 1; beat <= bar.Beats(); beat++ {
			bs, hasBeat, err := bar.SpecialBeatStructure(beat)
			if err != nil {
				return err
			}
			ls, hasLines, err := bar.SpecialLineStructure(beat)
			if err != nil {
				return err
			}
			if hasBeat || hasLines {
				var lines string
				if hasLines {
					lines = ls.String()
				}
				_, err = tx.Exec("INSERT INTO beats (score_id, bar, beat, beat_structure, line_structure) VALUES (?, ?, ?, ?, ?)",
					id, i+1, beat, nullable(bs.String(), hasBeat), nullable(lines, hasLines))
				if err != nil {
					return errors.Wrapf(err, "inserting bar %d beat %d", i+1, beat)
				}
			}

			names, err := bar.Lines(beat)
			if err != nil {
				return err
			}
			for _, line := range names {
				bits, err := bar.CompressedNotes(line, beat)
				if err != nil {
					return err
				}
				// Empty sets are not stored. Load rebuilds the lines of the
				// effective line structure, so an empty line outside it, as
				// left by SetCompressedNotes, does not come back.
				if bits == 0 {
					continue
				}
				_, err = tx.Exec("INSERT INTO notes (score_id, bar, beat, line, bits) VALUES (?, ?, ?, ?, ?)",
					id, i+1, beat, line, int64(bits))
				if err != nil {
					return errors.Wrapf(err, "inserting notes of %s", line)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing")
	}
	s.logger.Printf("Score %s saved with %d bars.", id, sc.Len())
	return nil
}

func (s *sqliteStore) Load(id uuid.UUID) (*score.Score, error) {
	var (
		title, author, beatText, linesText string
		pitch, noteValue, bars             int
		tempo                              float64
	)
	err := s.db.QueryRow(`SELECT title, author, pitch, note_value, tempo, beat_structure, line_structure, bars
		FROM scores WHERE id = ?`, id.String()).
		Scan(&title, &author, &pitch, &noteValue, &tempo, &beatText, &linesText, &bars)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading score %s", id)
	}

	beat, err := structure.ParseBeatStructure(beatText)
	if err != nil {
		return nil, err
	}
	lines, err := structure.ParseLineStructure(linesText)
	if err != nil {
		return nil, err
	}
	sc, err := score.New(title, author, &score.Settings{
		Pitch:     pitch,
		NoteValue: noteValue,
		Tempo:     tempo,
		Beat:      beat,
		Lines:     lines,
	})
	if err != nil {
		return nil, err
	}
	sc.ID = id
	for i := 0; i < bars; i++ {
		if err := sc.AppendBar(sc.NewBar()); err != nil {
			return nil, err
		}
	}

	if err := s.loadBeats(sc); err != nil {
		return nil, err
	}
	if err := s.loadNotes(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *sqliteStore) loadBeats(sc *score.Score) error {
	rows, err := s.db.Query("SELECT bar, beat, beat_structure, line_structure FROM beats WHERE score_id = ?", sc.ID.String())
	if err != nil {
		return errors.Wrap(err, "loading beats")
	}
	defer rows.Close()
	for rows.Next() {
		var barIndex, beat int
		var beatText, linesText sql.NullString
		if err := rows.Scan(&barIndex, &beat, &beatText, &linesText); err != nil {
			return errors.Wrap(err, "scanning beat")
		}
		bar, err := sc.Bar(barIndex)
		if err != nil {
			return err
		}
		// the bar is empty, nothing gets remapped
		if beatText.Valid {
			bs, err := structure.ParseBeatStructure(beatText.String)
			if err != nil {
				return err
			}
			if err := bar.SetSpecialBeatStructure(&bs, beat); err != nil {
				return err
			}
		}
		if linesText.Valid {
			ls, err := structure.ParseLineStructure(linesText.String)
			if err != nil {
				return err
			}
			if err := bar.SetSpecialLineStructure(ls, beat); err != nil {
				return err
			}
		}
	}
	return rows.Err()
}

func (s *sqliteStore) loadNotes(sc *score.Score) error {
	rows, err := s.db.Query("SELECT bar, beat, line, bits FROM notes WHERE score_id = ?", sc.ID.String())
	if err != nil {
		return errors.Wrap(err, "loading notes")
	}
	defer rows.Close()
	for rows.Next() {
		var barIndex, beat int
		var line string
		var bits int64
		if err := rows.Scan(&barIndex, &beat, &line, &bits); err != nil {
			return errors.Wrap(err, "scanning notes")
		}
		bar, err := sc.Bar(barIndex)
		if err != nil {
			return err
		}
		if err := bar.SetCompressedNotes(line, beat, uint64(bits)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *sqliteStore) List() ([]Summary, error) {
	rows, err := s.db.Query("SELECT id, title, author, bars, updated_at FROM scores ORDER BY updated_at DESC, title")
	if err != nil {
		return nil, errors.Wrap(err, "listing scores")
	}
	defer rows.Close()

	res := make([]Summary, 0)
	for rows.Next() {
		var sum Summary
		var id string
		if err := rows.Scan(&id, &sum.Title, &sum.Author, &sum.Bars, &sum.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning score")
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrapf(err, "bad score id %q", id)
		}
		res = append(res, sum)
	}
	return res, rows.Err()
}

func (s *sqliteStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM scores WHERE id = ?", id.String())
	if err != nil {
		return errors.Wrapf(err, "deleting score %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting score")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s", id)
	}
	s.logger.Printf("Score %s deleted.", id)
	return nil
}
