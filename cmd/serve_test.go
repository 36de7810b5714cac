package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsphweid/tablab/db"
	"github.com/jsphweid/tablab/model"
	"github.com/jsphweid/tablab/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, db.ScoreStore) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	store, err := db.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), quiet)
	require.NoError(t, err)
	srv := NewServer(store, player.New(quiet), time.Hour, quiet)
	t.Cleanup(func() {
		srv.player.Stop()
		srv.player.Wait()
		store.Close()
	})
	return srv, store
}

func call(t *testing.T, srv *Server, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	resp := w.Result()
	if out != nil {
		respBody, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(respBody, out), string(respBody))
	}
	return resp.StatusCode
}

func createTestScore(t *testing.T, srv *Server) model.Score {
	t.Helper()
	var created model.Score
	status := call(t, srv, http.MethodPost, "/scores", model.NewScoreRequest{Title: "Rock", Author: "Thomas", Bars: 2}, &created)
	require.Equal(t, http.StatusCreated, status)
	return created
}

func TestCreateAndGetScore(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)

	assert := assert.New(t)
	assert.Equal("Rock", created.Title)
	assert.Len(created.Bars, 2)

	var got model.Score
	assert.Equal(http.StatusOK, call(t, srv, http.MethodGet, "/scores/"+created.ID.String(), nil, &got))
	assert.Equal(created, got)

	var list []db.Summary
	assert.Equal(http.StatusOK, call(t, srv, http.MethodGet, "/scores", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(created.ID, list[0].ID)
}

func TestEditNotes(t *testing.T) {
	srv, store := newTestServer(t)
	created := createTestScore(t, srv)
	notes := fmt.Sprintf("/scores/%s/bars/2/beats/3/notes", created.ID)

	var got model.Score
	status := call(t, srv, http.MethodPut, notes, model.NoteRequest{Line: "Snare", Slot: 2}, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int{2}, got.Bars[1].Beats[2].Notes["Snare"])

	// edits are written back on flush
	srv.Flush()
	stored, err := store.Load(created.ID)
	require.NoError(t, err)
	b, _ := stored.Bar(2)
	ok, _ := b.IsNote("Snare", 3, 2)
	assert.True(t, ok)

	status = call(t, srv, http.MethodDelete, notes, model.NoteRequest{Line: "Snare", Slot: 2}, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, got.Bars[1].Beats[2].Notes["Snare"])
}

func TestErrorStatuses(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)
	base := "/scores/" + created.ID.String()

	var e model.ErrorResponse
	assert := assert.New(t)
	assert.Equal(http.StatusNotFound, call(t, srv, http.MethodPut, base+"/bars/3/beats/1/notes", model.NoteRequest{Line: "Snare", Slot: 1}, &e))
	assert.NotEmpty(e.Error)
	assert.Equal(http.StatusNotFound, call(t, srv, http.MethodPut, base+"/bars/1/beats/1/notes", model.NoteRequest{Line: "Snare", Slot: 5}, &e))
	assert.Equal(http.StatusBadRequest, call(t, srv, http.MethodPut, base+"/bars/x/beats/1/notes", model.NoteRequest{Line: "Snare", Slot: 1}, &e))
	assert.Equal(http.StatusBadRequest, call(t, srv, http.MethodGet, "/scores/nope", nil, &e))
	assert.Equal(http.StatusNotFound, call(t, srv, http.MethodGet, "/scores/6f1d3c1e-8d7b-4f0e-9a53-0d3b1f5c2a10", nil, &e))
	assert.Equal(http.StatusBadRequest, call(t, srv, http.MethodPost, "/scores", model.NewScoreRequest{BeatStructure: "EIGHTH_NOTE"}, &e))
}

func TestSetStructure(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)
	base := fmt.Sprintf("/scores/%s/bars/1/beats/1", created.ID)

	var got model.Score
	call(t, srv, http.MethodPut, base+"/notes", model.NoteRequest{Line: "Bass", Slot: 3}, &got)

	eighths := "EIGHTH_NOTE//EIGHTH_NOTE"
	status := call(t, srv, http.MethodPut, base+"/structure", model.StructureRequest{BeatStructure: &eighths}, &got)
	require.Equal(t, http.StatusOK, status)
	beat := got.Bars[0].Beats[0]
	assert.True(t, beat.SpecialBeatStructure)
	assert.Equal(t, []int{2}, beat.Notes["Bass"])

	lines := "Bass//Crash"
	status = call(t, srv, http.MethodPut, base+"/structure", model.StructureRequest{LineStructure: &lines}, &got)
	require.Equal(t, http.StatusOK, status)
	beat = got.Bars[0].Beats[0]
	assert.Equal(t, "Bass//Crash", beat.LineStructure)
	assert.True(t, beat.SpecialBeatStructure, "untouched by a line change")

	clear := ""
	status = call(t, srv, http.MethodPut, base+"/structure", model.StructureRequest{BeatStructure: &clear, LineStructure: &clear}, &got)
	require.Equal(t, http.StatusOK, status)
	beat = got.Bars[0].Beats[0]
	assert.False(t, beat.SpecialBeatStructure)
	assert.False(t, beat.SpecialLineStructure)
	assert.Equal(t, []int{3}, beat.Notes["Bass"])

	short := "QUARTER_NOTE//EIGHTH_NOTE"
	var e model.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPut, base+"/structure", model.StructureRequest{BeatStructure: &short}, &e))
}

func TestBarsAndChords(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)
	base := "/scores/" + created.ID.String()

	var got model.Score
	assert.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, base+"/bars", nil, &got))
	assert.Len(t, got.Bars, 3)
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodDelete, base+"/bars/1", nil, &got))
	assert.Len(t, got.Bars, 2)
	var e model.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPost, base+"/bars", model.AppendBarRequest{From: 7}, &e))

	call(t, srv, http.MethodPut, base+"/bars/1/beats/1/notes", model.NoteRequest{Line: "Bass", Slot: 1}, &got)
	call(t, srv, http.MethodPut, base+"/bars/1/beats/1/notes", model.NoteRequest{Line: "Hit-hat", Slot: 1}, &got)
	call(t, srv, http.MethodPut, base+"/bars/2/beats/1/notes", model.NoteRequest{Line: "Bass", Slot: 1}, &got)

	var chords []model.ChordCount
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, base+"/chords", nil, &chords))
	assert.Equal(t, []model.ChordCount{
		{Key: "Bass", Lines: []string{"Bass"}, Times: 1},
		{Key: "Bass-Hit-hat", Lines: []string{"Hit-hat", "Bass"}, Times: 1},
	}, chords)

	// a copied bar brings its notes along
	var copied model.Score
	assert.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, base+"/bars", model.AppendBarRequest{From: 1}, &copied))
	require.Len(t, copied.Bars, 3)
	assert.Equal(t, []int{1}, copied.Bars[2].Beats[0].Notes["Hit-hat"])
}

func TestPlayerRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)

	var state model.PlayerState
	assert := assert.New(t)
	assert.Equal(http.StatusOK, call(t, srv, http.MethodPost, "/player/play", model.PlayRequest{ID: created.ID}, &state))
	assert.True(state.Playing)
	require.NotNil(t, state.ScoreID)
	assert.Equal(created.ID, *state.ScoreID)

	call(t, srv, http.MethodPost, "/player/pause", nil, &state)
	assert.True(state.Paused)
	call(t, srv, http.MethodPost, "/player/resume", nil, &state)
	assert.False(state.Paused)
	call(t, srv, http.MethodPost, "/player/stop", nil, &state)
	assert.False(state.Playing)

	srv.player.Wait()
	call(t, srv, http.MethodGet, "/player", nil, &state)
	assert.Nil(state.ScoreID)

	var e model.ErrorResponse
	assert.Equal(http.StatusNotFound, call(t, srv, http.MethodPost, "/player/play", model.PlayRequest{ID: created.ID, FromBar: 3}, &e))
}

func TestDeleteScore(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createTestScore(t, srv)
	path := "/scores/" + created.ID.String()

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, path, nil, nil))
	var e model.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, path, nil, &e))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodDelete, path, nil, &e))
}
