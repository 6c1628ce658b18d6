package trieapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
)

// Word is the body of a single insert. JSON carries valid UTF-8 only: on
// the wire each invalid byte of a word becomes U+FFFD, so such words are only
// exact through the in-process trie.
type Word struct {
	Word string `json:"word"`
}

// WordList is the body of a bulk insert.
type WordList struct {
	Words []string `json:"words"`
}

type Insertion struct {
	Added int `json:"added"`
}

type Presence struct {
	Word    string `json:"word"`
	Present bool   `json:"present"`
}

type Deletion struct {
	Word    string `json:"word"`
	Outcome string `json:"outcome"`
}

type Suggestions struct {
	Prefix string   `json:"prefix"`
	Words  []string `json:"words"`
}

// Statistics describes the served trie. Digest is hex and equal between
// servers holding the same words.
type Statistics struct {
	Words  int    `json:"words"`
	Nodes  int    `json:"nodes"`
	Digest string `json:"digest"`
}

const (
	http_get    = "GET"
	http_put    = "PUT"
	http_delete = "DELETE"
)

func httpMethod(method, addr string, text []byte) (*http.Response, error) {
	log.Debug("calling server", zap.String("method", method), zap.String("endpoint", addr))
	var body *bytes.Buffer
	if text != nil {
		body = bytes.NewBuffer(text)
	} else {
		body = &bytes.Buffer{}
	}
	client := &http.Client{}
	req, err := http.NewRequest(method, addr, body)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}
	if text != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}

	return resp, nil
}

func decode(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", resp.Request.URL.String()))
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func wordAddress(addr, word string) string {
	return fmt.Sprintf("%v/api/word?word=%s", addr, url.QueryEscape(word))
}

// PutWord inserts word at addr and reports whether it was new there.
func PutWord(word string, addr string) (bool, error) {
	text, err := json.Marshal(&Word{Word: word})
	if err != nil {
		return false, err
	}
	resp, err := httpMethod(http_put, fmt.Sprintf("%v/api/word", addr), text)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return true, nil
	case http.StatusOK:
		return false, nil
	case http.StatusBadRequest:
		return false, fmt.Errorf("bad request")
	}
	return false, fmt.Errorf("bad status code: %d", resp.StatusCode)
}

// PutWords bulk inserts words at addr and returns how many were new.
func PutWords(words []string, addr string) (int, error) {
	text, err := json.Marshal(&WordList{Words: words})
	if err != nil {
		return 0, err
	}
	resp, err := httpMethod(http_put, fmt.Sprintf("%v/api/words", addr), text)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}
	ins := &Insertion{}
	if err := decode(resp, ins); err != nil {
		return 0, err
	}
	return ins.Added, nil
}

// GetWord reports whether word is present at addr.
func GetWord(word string, addr string) (bool, error) {
	resp, err := httpMethod(http_get, wordAddress(addr, word), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("bad status code: %d", resp.StatusCode)
}

// DeleteWord removes word at addr. It reports false, without error, when the
// word was not there.
func DeleteWord(word string, addr string) (bool, error) {
	resp, err := httpMethod(http_delete, wordAddress(addr, word), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("bad status code: %d", resp.StatusCode)
}

// GetSuggestions lists the words at addr starting with prefix. A limit of 0
// leaves the bound to the server.
func GetSuggestions(prefix string, limit int, addr string) ([]string, error) {
	q := url.Values{}
	q.Set("prefix", prefix)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	resp, err := httpMethod(http_get, fmt.Sprintf("%v/api/suggest?%s", addr, q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}
	s := &Suggestions{}
	if err := decode(resp, s); err != nil {
		return nil, err
	}
	return s.Words, nil
}

func GetStatistics(addr string) (*Statistics, error) {
	resp, err := httpMethod(http_get, fmt.Sprintf("%v/api/statistics", addr), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}
	s := &Statistics{}
	if err := decode(resp, s); err != nil {
		return nil, err
	}
	return s, nil
}

// CompareDigest reports whether the servers at a and b hold the same words.
func CompareDigest(a, b string) (bool, error) {
	left, err := GetStatistics(a)
	if err != nil {
		return false, fmt.Errorf("statistics from %v: %w", a, err)
	}
	right, err := GetStatistics(b)
	if err != nil {
		return false, fmt.Errorf("statistics from %v: %w", b, err)
	}
	return left.Digest == right.Digest, nil
}
