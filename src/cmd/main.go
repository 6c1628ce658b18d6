package main

import (
	"fmt"

	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
	"gitlab.com/pnathan/wordtrie/src/lib/utility/trie"
)

// walks a trie through insert, search, delete and suggest, printing as it goes.
func main() {
	defer log.Sync()
	t := trie.New(nil)

	t.Put("Sunny")
	t.Put("Srinidhi")
	fmt.Printf("Sunny present: %v\n", t.Exist("Sunny"))
	fmt.Printf("Srinidhi present: %v\n", t.Exist("Srinidhi"))

	outcome := t.Delete("Sunny")
	log.Info("deleted", zap.String("word", "Sunny"), zap.Stringer("outcome", outcome))
	fmt.Printf("Sunny present: %v\n", t.Exist("Sunny"))
	fmt.Printf("Srinidhi present: %v\n", t.Exist("Srinidhi"))

	t.Put("Sunny")
	t.Put("Sun")
	t.Put("Sunny1")
	fmt.Printf("suggestions for %q: %v\n", "Su", t.Suggest("Su"))
	fmt.Printf("all words: %v\n", t.Suggest(""))
	fmt.Printf("%d words in %d nodes, digest %x\n", t.Len(), t.NodeCount(), t.Digest()[:8])
}
