package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"gitlab.com/pnathan/wordtrie/src/lib/log"
	"gitlab.com/pnathan/wordtrie/src/lib/trieapi"
)

func MustMarshal(v any) []byte {
	b := new(bytes.Buffer)
	encoder := json.NewEncoder(b)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		panic(err)
	}

	return b.Bytes()
}

func Moan(complaint error) {
	log.Fatal("", zap.Error(complaint))
	os.Exit(1)
}

// readWords reads newline separated words from filename, or stdin when it is
// empty.
func readWords(filename string) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if filename != "" {
		data, err = os.ReadFile(filename)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, err
	}
	words := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			words = append(words, line)
		}
	}
	return words, nil
}

func main() {
	parser := argparse.NewParser("wordtrie client", "wordtrie client code")

	endpoint := parser.String("e", "endpoint", &argparse.Options{Required: false, Help: "endpoint to address", Default: "http://localhost:1337"})

	wordPut := parser.NewCommand("word-put", "insert a word")
	putArg := wordPut.String("w", "word", &argparse.Options{Required: true, Help: "word to insert"})

	wordGet := parser.NewCommand("word-get", "check whether a word is present")
	getArg := wordGet.String("w", "word", &argparse.Options{Required: true, Help: "word to look up"})

	wordDelete := parser.NewCommand("word-delete", "delete a word")
	deleteArg := wordDelete.String("w", "word", &argparse.Options{Required: true, Help: "word to delete"})

	suggestCmd := parser.NewCommand("suggest", "list words starting with a prefix")
	prefix := suggestCmd.String("x", "prefix", &argparse.Options{Required: false, Help: "prefix; empty lists every word", Default: ""})
	limit := suggestCmd.Int("l", "limit", &argparse.Options{Required: false, Help: "maximum suggestions; 0 leaves it to the server", Default: 0})

	wordsLoad := parser.NewCommand("words-load", "insert newline separated words")
	wordsFile := wordsLoad.String("f", "file", &argparse.Options{Required: false, Help: "file with the words; if not present, reads from stdin"})

	statsCmd := parser.NewCommand("stats", "show trie statistics")

	compareCmd := parser.NewCommand("compare", "check whether another server holds the same words")
	other := compareCmd.String("o", "other", &argparse.Options{Required: true, Help: "endpoint to compare against"})

	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}
	defer log.Sync()

	if wordPut.Happened() {
		added, err := trieapi.PutWord(*putArg, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(&trieapi.Insertion{Added: boolToInt(added)})))
	} else if wordGet.Happened() {
		present, err := trieapi.GetWord(*getArg, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(&trieapi.Presence{Word: *getArg, Present: present})))
	} else if wordDelete.Happened() {
		deleted, err := trieapi.DeleteWord(*deleteArg, *endpoint)
		if err != nil {
			Moan(err)
		}
		outcome := "not present"
		if deleted {
			outcome = "deleted"
		}
		fmt.Println(string(MustMarshal(&trieapi.Deletion{Word: *deleteArg, Outcome: outcome})))
	} else if suggestCmd.Happened() {
		words, err := trieapi.GetSuggestions(*prefix, *limit, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(&trieapi.Suggestions{Prefix: *prefix, Words: words})))
	} else if wordsLoad.Happened() {
		words, err := readWords(*wordsFile)
		if err != nil {
			log.Fatal("unable to read words", zap.String("filename", *wordsFile), zap.Error(err))
		}
		added, err := trieapi.PutWords(words, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(&trieapi.Insertion{Added: added})))
	} else if statsCmd.Happened() {
		stats, err := trieapi.GetStatistics(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(stats)))
	} else if compareCmd.Happened() {
		same, err := trieapi.CompareDigest(*endpoint, *other)
		if err != nil {
			Moan(err)
		}
		if same {
			fmt.Println("same words")
		} else {
			fmt.Println("words differ")
		}
	} else {
		Moan(fmt.Errorf("can't happen"))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
