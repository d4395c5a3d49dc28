package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"deezer/deezer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI points the app at a fake catalog and returns what it printed.
func runCLI(t *testing.T, bodies map[string]string, args ...string) (string, *url.URL, error) {
	t.Helper()
	var (
		mu   sync.Mutex
		last *url.URL
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = r.URL
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		body, ok := bodies[r.URL.Path]
		if !ok {
			body = `{"error":{"type":"DataException","message":"no data","code":800}}`
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("DEEZER_BASE_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"deezer"}, args...))
	mu.Lock()
	defer mu.Unlock()
	return out.String(), last, err
}

const daftTracks = `{"data":[
	{"id":3135556,"title":"Harder, Better, Faster, Stronger","duration":224,"rank":756000,"explicit_lyrics":false,
	 "artist":{"id":27,"name":"Daft Punk"},"album":{"id":302127,"title":"Discovery"}},
	{"id":3135553,"title":"One More Time","duration":320,"rank":800000,"explicit_lyrics":false,
	 "artist":{"id":27,"name":"Daft Punk"},"album":{"id":302127,"title":"Discovery"}}
],"total":120}`

func TestTrackCommand(t *testing.T) {
	out, req, err := runCLI(t, map[string]string{"/search/track": daftTracks}, "track", "--limit", "2", "daft", "punk")
	require.NoError(t, err)

	assert.Equal(t, "daft punk", req.Query().Get("q"))
	assert.Equal(t, "2", req.Query().Get("limit"))
	assert.Contains(t, out, "Harder, Better, Faster, Stronger by Daft Punk [Discovery] 3:44")
	assert.Contains(t, out, "Showing 2 of 120 results")
}

func TestTrackCommandWithArtist(t *testing.T) {
	_, req, err := runCLI(t, map[string]string{"/search/track": daftTracks}, "track", "--artist", "Daft Punk", "One More Time")
	require.NoError(t, err)
	assert.Equal(t, `track:"One More Time" artist:"Daft Punk"`, req.Query().Get("q"))
}

func TestJSONOutput(t *testing.T) {
	out, _, err := runCLI(t, map[string]string{"/search/track": daftTracks}, "--json", "track", "discovery")
	require.NoError(t, err)

	var result model.SearchResult[model.Track]
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Data, 2)
	assert.Equal(t, 120, result.Total)
}

func TestPlaylistCommand(t *testing.T) {
	body := `{"data":[
		{"id":1,"title":"Rock Classics","public":true,"nb_tracks":50,"user":{"id":10,"name":"Deezer Rock Editor"}},
		{"id":2,"title":"My Rock","public":false,"nb_tracks":12,"user":{"id":11,"name":"mia"}}
	],"total":2}`

	out, req, err := runCLI(t, map[string]string{"/search/playlist": body}, "playlist", "--public-only", "rock")
	require.NoError(t, err)
	assert.Equal(t, "true", req.Query().Get("public"))
	assert.Contains(t, out, "Rock Classics by Deezer Rock Editor (50 tracks, public)")
	assert.NotContains(t, out, "My Rock")

	out, _, err = runCLI(t, map[string]string{"/search/playlist": body}, "playlist", "--creator", "MIA", "rock")
	require.NoError(t, err)
	assert.Contains(t, out, "My Rock by mia")
	assert.NotContains(t, out, "Rock Classics")
}

func TestPlaylistCommandCombinesFilters(t *testing.T) {
	body := `{"data":[
		{"id":1,"title":"Mia Private","public":false,"nb_tracks":12,"user":{"id":11,"name":"mia"}},
		{"id":2,"title":"Rock Classics","public":true,"nb_tracks":50,"user":{"id":10,"name":"Deezer Rock Editor"}},
		{"id":3,"title":"Mia Public","public":true,"nb_tracks":20,"user":{"id":11,"name":"mia"}}
	],"total":3}`

	out, req, err := runCLI(t, map[string]string{"/search/playlist": body},
		"playlist", "--creator", "mia", "--public-only", "--limit", "1", "rock")
	require.NoError(t, err)
	assert.Equal(t, "true", req.Query().Get("public"))
	assert.Contains(t, out, "Mia Public by mia (20 tracks, public)")
	assert.NotContains(t, out, "Mia Private")
	assert.NotContains(t, out, "Rock Classics")
}

func TestGetCommand(t *testing.T) {
	bodies := map[string]string{
		"/album/302127": `{"id":302127,"title":"Discovery","release_date":"0000-00-00","nb_tracks":14,"explicit_lyrics":false,
			"artist":{"id":27,"name":"Daft Punk"}}`,
	}

	out, _, err := runCLI(t, bodies, "get", "album", "302127")
	require.NoError(t, err)
	assert.Contains(t, out, "Discovery by Daft Punk (released unknown, 14 tracks)")

	_, _, err = runCLI(t, bodies, "get", "album", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "album 1 not found")

	_, _, err = runCLI(t, bodies, "get", "genre", "1")
	require.Error(t, err)

	_, _, err = runCLI(t, bodies, "get", "album", "abc")
	require.Error(t, err)
}

func TestSearchRequiresTerm(t *testing.T) {
	_, req, err := runCLI(t, nil, "artist")
	require.Error(t, err)
	assert.Nil(t, req)
}

func TestNoResults(t *testing.T) {
	out, _, err := runCLI(t, map[string]string{"/search/album": `{"data":[],"total":0}`}, "album", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}
