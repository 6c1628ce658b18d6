package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/akamensky/argparse"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
	"gitlab.com/pnathan/wordtrie/src/lib/trieapi"
	"gitlab.com/pnathan/wordtrie/src/lib/utility/trie"
	"gitlab.com/pnathan/wordtrie/src/lib/wordtrie"
)

var GLOBAL_INDEX *wordtrie.Index

// DEFAULT_LIMIT bounds suggestions when the request names no limit. 0 is
// unbounded.
var DEFAULT_LIMIT = 0

func writeJSON(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

// wordParam pulls the word from the query. Presence is checked separately
// from emptiness since the empty string is a legal word.
func wordParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if _, ok := q["word"]; !ok {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing word"))
		return "", false
	}
	return q.Get("word"), true
}

func putWord(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	input := trieapi.Word{}
	if err := decoder.Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}

	status := http.StatusOK
	if GLOBAL_INDEX.Put(input.Word) {
		status = http.StatusCreated
	}
	writeJSON(w, status, &trieapi.Presence{Word: input.Word, Present: true})
}

func putWords(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)

	input := trieapi.WordList{}
	if err := decoder.Decode(&input); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("couldn't decode"))
		return
	}

	added := GLOBAL_INDEX.PutAll(input.Words)
	log.Info("bulk insert", zap.Int("submitted", len(input.Words)), zap.Int("added", added))
	writeJSON(w, http.StatusOK, &trieapi.Insertion{Added: added})
}

func getWord(w http.ResponseWriter, r *http.Request) {
	word, ok := wordParam(w, r)
	if !ok {
		return
	}
	present := GLOBAL_INDEX.Exist(word)
	status := http.StatusOK
	if !present {
		status = http.StatusNotFound
	}
	writeJSON(w, status, &trieapi.Presence{Word: word, Present: present})
}

func deleteWord(w http.ResponseWriter, r *http.Request) {
	word, ok := wordParam(w, r)
	if !ok {
		return
	}
	outcome := GLOBAL_INDEX.Delete(word)
	status := http.StatusOK
	if outcome == trie.NotPresent {
		status = http.StatusNotFound
	}
	writeJSON(w, status, &trieapi.Deletion{Word: word, Outcome: outcome.String()})
}

func suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := DEFAULT_LIMIT
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("bad limit"))
			return
		}
		limit = n
	}
	prefix := q.Get("prefix")
	writeJSON(w, http.StatusOK, &trieapi.Suggestions{
		Prefix: prefix,
		Words:  GLOBAL_INDEX.Suggest(prefix, limit),
	})
}

func statistics(w http.ResponseWriter, r *http.Request) {
	stats := GLOBAL_INDEX.Stats()
	writeJSON(w, http.StatusOK, &stats)
}

func Default(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ok")
}

func Wut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "your content is in another url")
}

func requestIDHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		h.ServeHTTP(w, r)
	})
}

func loggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-Id")),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", Default)
	r.HandleFunc("/api/word", putWord).Methods("PUT")
	r.HandleFunc("/api/word", getWord).Methods("GET")
	r.HandleFunc("/api/word", deleteWord).Methods("DELETE")
	r.HandleFunc("/api/words", putWords).Methods("PUT")
	r.HandleFunc("/api/suggest", suggest).Methods("GET")
	r.HandleFunc("/api/statistics", statistics).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(Wut)

	return alice.New(requestIDHandler, loggerHandler).Then(r)
}

func preload(filename string) {
	log.Info("Words file provided...reading", zap.String("filename", filename))
	f, err := os.Open(filename)
	if err != nil {
		log.Error("Unable to read words file", zap.String("filename", filename), zap.Error(err))
		return
	}
	defer f.Close()

	added, err := GLOBAL_INDEX.Load(f)
	if err != nil {
		log.Error("Unable to load words file", zap.String("filename", filename), zap.Error(err))
		return
	}
	log.Info("words loaded", zap.String("filename", filename), zap.Int("added", added))
}

//////////////////////////////////////////////////////////////
func init() {
	GLOBAL_INDEX = wordtrie.NewIndex(nil)
}

func main() {
	parser := argparse.NewParser("wordtrie", "serves a word trie over http")

	host := parser.String("i", "ip", &argparse.Options{Required: false, Help: "ip to bind to", Default: "0.0.0.0"})
	port := parser.String("p", "port", &argparse.Options{Required: false, Help: "port to bind to", Default: "1337"})
	words := parser.String("w", "words", &argparse.Options{Required: false, Help: "file of newline separated words to load at startup"})
	limit := parser.Int("l", "limit", &argparse.Options{Required: false, Help: "default bound on suggestions; 0 is unbounded", Default: 0})
	debug := parser.Flag("d", "debug", &argparse.Options{Help: "development logging"})
	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}
	if *limit < 0 {
		fmt.Print(parser.Usage(fmt.Errorf("limit must not be negative")))
		return
	}

	if *debug {
		if err := log.Configure(true); err != nil {
			fmt.Fprintf(os.Stderr, "unable to configure logging: %v\n", err)
			return
		}
	}
	defer log.Sync()

	DEFAULT_LIMIT = *limit
	if *words != "" {
		preload(*words)
	}

	log.Printf("Good morning. I am listening on %s:%s", *host, *port)

	srv := &http.Server{
		Handler:      router(),
		Addr:         fmt.Sprintf("%s:%s", *host, *port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal("server failure", zap.Error(srv.ListenAndServe()))
}
