package wordtrie

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
	"gitlab.com/pnathan/wordtrie/src/lib/trieapi"
	"gitlab.com/pnathan/wordtrie/src/lib/utility/trie"
)

// Index serializes access to a trie so it can be shared between goroutines.
type Index struct {
	trie  *trie.Trie
	mutex sync.RWMutex
}

func NewIndex(words []string) *Index {
	return &Index{trie: trie.New(words)}
}

// Put inserts word and reports whether it was new.
func (idx *Index) Put(word string) bool {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	if idx.trie.Exist(word) {
		return false
	}
	idx.trie.Put(word)
	log.Debug("word inserted", zap.String("word", word))
	return true
}

// PutAll inserts every word under one lock and returns how many were new.
func (idx *Index) PutAll(words []string) int {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	added := 0
	for _, w := range words {
		if !idx.trie.Exist(w) {
			idx.trie.Put(w)
			added++
		}
	}
	log.Debug("words inserted", zap.Int("submitted", len(words)), zap.Int("added", added))
	return added
}

func (idx *Index) Exist(word string) bool {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return idx.trie.Exist(word)
}

func (idx *Index) Delete(word string) trie.Outcome {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()
	outcome := idx.trie.Delete(word)
	log.Debug("word delete", zap.String("word", word), zap.Stringer("outcome", outcome))
	return outcome
}

// Suggest returns at most limit words starting with prefix; limit <= 0 means
// no bound.
func (idx *Index) Suggest(prefix string, limit int) []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	if limit <= 0 {
		return idx.trie.Suggest(prefix)
	}
	result := []string{}
	idx.trie.Walk(prefix, func(word string) bool {
		result = append(result, word)
		return len(result) < limit
	})
	return result
}

func (idx *Index) Stats() trieapi.Statistics {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()
	return trieapi.Statistics{
		Words:  idx.trie.Len(),
		Nodes:  idx.trie.NodeCount(),
		Digest: hex.EncodeToString(idx.trie.Digest()),
	}
}

// Load inserts one word per line of r. Blank lines are skipped and a trailing
// carriage return is dropped.
func (idx *Index) Load(r io.Reader) (int, error) {
	words := []string{}
	reader := bufio.NewReader(r)
	for {
		// no cap on line length; words may be arbitrarily long
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			words = append(words, line)
		}
		if err == io.EOF {
			break
		}
	}
	return idx.PutAll(words), nil
}
