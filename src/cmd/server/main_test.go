package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
	"gitlab.com/pnathan/wordtrie/src/lib/trieapi"
	"gitlab.com/pnathan/wordtrie/src/lib/wordtrie"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log.Use(zap.NewNop())
	GLOBAL_INDEX = wordtrie.NewIndex(nil)
	DEFAULT_LIMIT = 0
	srv := httptest.NewServer(router())
	t.Cleanup(srv.Close)
	return srv
}

func TestWordLifecycle(t *testing.T) {
	srv := newTestServer(t)

	added, err := trieapi.PutWord("Sunny", srv.URL)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = trieapi.PutWord("Sunny", srv.URL)
	require.NoError(t, err)
	assert.False(t, added)

	present, err := trieapi.GetWord("Sunny", srv.URL)
	require.NoError(t, err)
	assert.True(t, present)

	present, err = trieapi.GetWord("Sun", srv.URL)
	require.NoError(t, err)
	assert.False(t, present)

	deleted, err := trieapi.DeleteWord("Sunny", srv.URL)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = trieapi.DeleteWord("Sunny", srv.URL)
	require.NoError(t, err)
	assert.False(t, deleted)

	stats, err := trieapi.GetStatistics(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Words)
	assert.Equal(t, 1, stats.Nodes)
}

func TestEscapedAndEmptyWords(t *testing.T) {
	srv := newTestServer(t)

	for _, w := range []string{"", "a b", "x&word=y", "日本"} {
		_, err := trieapi.PutWord(w, srv.URL)
		require.NoError(t, err)
		present, err := trieapi.GetWord(w, srv.URL)
		require.NoError(t, err)
		assert.True(t, present, "%q", w)
	}
	assert.True(t, GLOBAL_INDEX.Exist(""))
	assert.False(t, GLOBAL_INDEX.Exist("x"))
}

func TestInvalidUTF8OverJSON(t *testing.T) {
	srv := newTestServer(t)

	_, err := trieapi.PutWord("\xff", srv.URL)
	require.NoError(t, err)

	// encoding/json replaced the bad byte before it reached the trie
	assert.False(t, GLOBAL_INDEX.Exist("\xff"))
	assert.True(t, GLOBAL_INDEX.Exist("\uFFFD"))

	present, err := trieapi.GetWord("\uFFFD", srv.URL)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestSuggestEndpoint(t *testing.T) {
	srv := newTestServer(t)

	n, err := trieapi.PutWords([]string{"Srinidhi", "Sunny", "Sun", "Sunny1", "moon"}, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	words, err := trieapi.GetSuggestions("Su", 0, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sun", "Sunny", "Sunny1"}, words)

	words, err = trieapi.GetSuggestions("", 2, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Srinidhi", "Sun"}, words)

	words, err = trieapi.GetSuggestions("zz", 0, srv.URL)
	require.NoError(t, err)
	assert.Empty(t, words)

	DEFAULT_LIMIT = 1
	words, err = trieapi.GetSuggestions("S", 0, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Srinidhi"}, words)
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "undecodable word", method: "PUT", path: "/api/word", body: "{", want: http.StatusBadRequest},
		{name: "undecodable words", method: "PUT", path: "/api/words", body: "[", want: http.StatusBadRequest},
		{name: "missing word", method: "GET", path: "/api/word", want: http.StatusBadRequest},
		{name: "missing word on delete", method: "DELETE", path: "/api/word", want: http.StatusBadRequest},
		{name: "bad limit", method: "GET", path: "/api/suggest?prefix=a&limit=x", want: http.StatusBadRequest},
		{name: "negative limit", method: "GET", path: "/api/suggest?limit=-1", want: http.StatusBadRequest},
		{name: "wrong method", method: "POST", path: "/api/word", want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: "GET", path: "/nowhere", want: http.StatusNotFound},
		{name: "health", method: "GET", path: "/healthz", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestDeleteResponseBody(t *testing.T) {
	srv := newTestServer(t)
	GLOBAL_INDEX.PutAll([]string{"sun", "sunny"})

	req, err := http.NewRequest("DELETE", srv.URL+"/api/word?word=sun", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := trieapi.Deletion{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, trieapi.Deletion{Word: "sun", Outcome: "deleted"}, d)
	assert.True(t, GLOBAL_INDEX.Exist("sunny"))
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)

	req, err := http.NewRequest("GET", srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "given")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "given", resp.Header.Get("X-Request-Id"))
}

func TestCompareDigest(t *testing.T) {
	log.Use(zap.NewNop())
	left := wordtrie.NewIndex([]string{"sun", "moon"})
	right := wordtrie.NewIndex([]string{"moon", "sun", "star"})

	serve := func(idx *wordtrie.Index) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stats := idx.Stats()
			writeJSON(w, http.StatusOK, &stats)
		}))
	}
	a, b := serve(left), serve(right)
	defer a.Close()
	defer b.Close()

	same, err := trieapi.CompareDigest(a.URL, b.URL)
	require.NoError(t, err)
	assert.False(t, same)

	right.Delete("star")
	same, err = trieapi.CompareDigest(a.URL, b.URL)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestPreload(t *testing.T) {
	newTestServer(t)
	filename := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(filename, []byte("sun\nsunny\n"), 0o644))

	preload(filename)
	assert.Equal(t, []string{"sun", "sunny"}, GLOBAL_INDEX.Suggest("", 0))

	preload(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 2, GLOBAL_INDEX.Stats().Words)
}

func TestStatisticsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	GLOBAL_INDEX.PutAll([]string{"ab", "a"})

	resp, err := http.Get(fmt.Sprintf("%s/api/statistics", srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()

	stats := trieapi.Statistics{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, GLOBAL_INDEX.Stats(), stats)
	assert.Equal(t, 3, stats.Nodes)
}
