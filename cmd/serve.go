package cmd

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/db"
	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/model"
	"github.com/jsphweid/tablab/player"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/structure"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves the scores over http and drives a shared player.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		srv := NewServer(store, player.New(logger), cfg.SaveDebounce, logger)
		defer srv.Flush()
		handler := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		}).Handler(srv.Router())

		logger.Printf("listening on %s", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, handler)
	},
}

// Server keeps the scores being edited in memory and writes them back a
// moment after the last edit.
type Server struct {
	store  db.ScoreStore
	player *player.Player
	logger *log.Logger

	// guards scores and every edit of them
	mu      sync.Mutex
	scores  map[uuid.UUID]*score.Score
	playing *uuid.UUID

	dirtyMu  sync.Mutex
	dirty    map[uuid.UUID]bool
	debounce func(f func())
}

func NewServer(store db.ScoreStore, p *player.Player, saveAfter time.Duration, logger *log.Logger) *Server {
	s := &Server{
		store:    store,
		player:   p,
		logger:   logger,
		scores:   make(map[uuid.UUID]*score.Score),
		dirty:    make(map[uuid.UUID]bool),
		debounce: debounce.New(saveAfter),
	}
	p.AddListener(&player.Callbacks{
		Finish: func() {
			s.mu.Lock()
			s.playing = nil
			s.mu.Unlock()
		},
	})
	return s
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/scores", s.handleListScores).Methods("GET")
	router.HandleFunc("/scores", s.handleCreateScore).Methods("POST")
	router.HandleFunc("/scores/{id}", s.handleGetScore).Methods("GET")
	router.HandleFunc("/scores/{id}", s.handleDeleteScore).Methods("DELETE")
	router.HandleFunc("/scores/{id}/chords", s.handleChords).Methods("GET")
	router.HandleFunc("/scores/{id}/bars", s.handleAppendBar).Methods("POST")
	router.HandleFunc("/scores/{id}/bars/{bar}", s.handleRemoveBar).Methods("DELETE")
	router.HandleFunc("/scores/{id}/bars/{bar}/beats/{beat}/notes", s.handleNote(true)).Methods("PUT")
	router.HandleFunc("/scores/{id}/bars/{bar}/beats/{beat}/notes", s.handleNote(false)).Methods("DELETE")
	router.HandleFunc("/scores/{id}/bars/{bar}/beats/{beat}/structure", s.handleStructure).Methods("PUT")
	router.HandleFunc("/player", s.handlePlayerState).Methods("GET")
	router.HandleFunc("/player/play", s.handlePlay).Methods("POST")
	router.HandleFunc("/player/pause", s.handlePlayerControl(s.player.Pause)).Methods("POST")
	router.HandleFunc("/player/resume", s.handlePlayerControl(s.player.Resume)).Methods("POST")
	router.HandleFunc("/player/stop", s.handlePlayerControl(s.player.Stop)).Methods("POST")
	return router
}

// Flush writes every edited score now.
func (s *Server) Flush() {
	s.dirtyMu.Lock()
	ids := s.dirty
	s.dirty = make(map[uuid.UUID]bool)
	s.dirtyMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range ids {
		sc, ok := s.scores[id]
		if !ok {
			continue
		}
		if err := s.store.Save(sc); err != nil {
			s.logger.Printf("saving %s: %v", id, err)
		}
	}
}

// saver marks its score for saving on every edit event.
type saver struct {
	id     uuid.UUID
	server *Server
}

func (v *saver) touch() {
	v.server.dirtyMu.Lock()
	v.server.dirty[v.id] = true
	v.server.dirtyMu.Unlock()
	v.server.debounce(v.server.Flush)
}

func (v *saver) NoteAdded(*score.Bar, string, int, int)   { v.touch() }
func (v *saver) NoteRemoved(*score.Bar, string, int, int) { v.touch() }
func (v *saver) BeatStructureAdded(*score.Bar, int)       { v.touch() }
func (v *saver) BeatStructureRemoved(*score.Bar, int)     { v.touch() }
func (v *saver) LineStructureAdded(*score.Bar, int)       { v.touch() }
func (v *saver) LineStructureRemoved(*score.Bar, int)     { v.touch() }
func (v *saver) BarAdded(int)                             { v.touch() }
func (v *saver) BarRemoved(int)                           { v.touch() }

// must hold mu
func (s *Server) track(sc *score.Score) {
	s.scores[sc.ID] = sc
	sc.Events().Subscribe(&saver{id: sc.ID, server: s})
}

// must hold mu
func (s *Server) score(r *http.Request) (*score.Score, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return nil, errs.InvalidArgument("bad score id")
	}
	if sc, ok := s.scores[id]; ok {
		return sc, nil
	}
	sc, err := s.store.Load(id)
	if err != nil {
		return nil, err
	}
	s.track(sc)
	return sc, nil
}

// must hold mu
func (s *Server) bar(r *http.Request) (*score.Score, *score.Bar, error) {
	sc, err := s.score(r)
	if err != nil {
		return nil, nil, err
	}
	n, err := strconv.Atoi(mux.Vars(r)["bar"])
	if err != nil {
		return nil, nil, errs.InvalidArgument("bad bar number")
	}
	b, err := sc.Bar(n)
	return sc, b, err
}

func beatNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)["beat"])
	if err != nil {
		return 0, errs.InvalidArgument("bad beat number")
	}
	return n, nil
}

func readBody(r *http.Request, v interface{}) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return errs.InvalidArgument("could not read request body")
	}
	if err := json.Unmarshal(reqBody, v); err != nil {
		return errs.InvalidArgument("could not unmarshal request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, errs.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidArgument), errors.Is(err, errs.ErrStructuralIntegrity):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("ERROR: %v", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// must hold mu
func (s *Server) writeScore(w http.ResponseWriter, status int, sc *score.Score) {
	res, err := model.NewScore(sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, status, res)
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	// pending edits first so the list is current
	s.Flush()
	list, err := s.store.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	var input model.NewScoreRequest
	if err := readBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}
	sc, err := createScore(input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(sc); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.track(sc)
	s.writeScore(w, http.StatusCreated, sc)
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.score(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScore(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, errs.InvalidArgument("bad score id"))
		return
	}
	s.mu.Lock()
	delete(s.scores, id)
	s.mu.Unlock()
	s.dirtyMu.Lock()
	delete(s.dirty, id)
	s.dirtyMu.Unlock()

	if err := s.store.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.score(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	counts, err := chord.Histogram(sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewChordCounts(counts))
}

func (s *Server) handleAppendBar(w http.ResponseWriter, r *http.Request) {
	var input model.AppendBarRequest
	if r.ContentLength > 0 {
		if err := readBody(r, &input); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc, err := s.score(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b := sc.NewBar()
	if input.From != 0 {
		from, err := sc.Bar(input.From)
		if err != nil {
			s.writeError(w, err)
			return
		}
		b = from.Copy()
	}
	if err := sc.AppendBar(b); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScore(w, http.StatusCreated, sc)
}

func (s *Server) handleRemoveBar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, _, err := s.bar(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, _ := strconv.Atoi(mux.Vars(r)["bar"])
	if err := sc.RemoveBar(n); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScore(w, http.StatusOK, sc)
}

func (s *Server) handleNote(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.NoteRequest
		if err := readBody(r, &input); err != nil {
			s.writeError(w, err)
			return
		}
		beat, err := beatNumber(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		sc, b, err := s.bar(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if add {
			err = b.AddNote(input.Line, beat, input.Slot)
		} else {
			err = b.RemoveNote(input.Line, beat, input.Slot)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeScore(w, http.StatusOK, sc)
	}
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	var input model.StructureRequest
	if err := readBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}
	beat, err := beatNumber(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc, b, err := s.bar(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// parse both before touching the bar
	var bs *structure.BeatStructure
	if input.BeatStructure != nil && *input.BeatStructure != "" {
		parsed, err := structure.ParseBeatStructure(*input.BeatStructure)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := parsed.Validate(sc.Settings().NoteValue); err != nil {
			s.writeError(w, err)
			return
		}
		bs = &parsed
	}
	var ls *structure.LineStructure
	if input.LineStructure != nil && *input.LineStructure != "" {
		if ls, err = structure.ParseLineStructure(*input.LineStructure); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if input.BeatStructure != nil {
		if err := b.SetSpecialBeatStructure(bs, beat); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if input.LineStructure != nil {
		if err := b.SetSpecialLineStructure(ls, beat); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeScore(w, http.StatusOK, sc)
}

// must hold mu
func (s *Server) state() model.PlayerState {
	return model.PlayerState{
		ScoreID:  s.playing,
		Playing:  s.player.IsPlaying(),
		Paused:   s.player.IsPaused(),
		Position: s.player.Position(),
	}
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var input model.PlayRequest
	if err := readBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	sc, ok := s.scores[input.ID]
	if !ok {
		loaded, err := s.store.Load(input.ID)
		if err != nil {
			s.mu.Unlock()
			s.writeError(w, err)
			return
		}
		s.track(loaded)
		sc = loaded
	}
	ex, err := excerpt(sc, input.FromBar, input.Bars)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Play blocks until the previous session is over, and that session's
	// OnFinish takes mu.
	if err := s.player.Play(ex); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a session already over has run its OnFinish or will once mu is free
	if s.player.IsPlaying() {
		id := input.ID
		s.playing = &id
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handlePlayerControl(f func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f()
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.state())
	}
}
