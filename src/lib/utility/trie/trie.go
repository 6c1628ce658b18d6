package trie

import (
	"sort"

	"golang.org/x/crypto/sha3"

	"gitlab.com/pnathan/wordtrie/src/lib/utility"
)

// Outcome reports what Delete did.
type Outcome int

const (
	// NotPresent is the zero value so an unset Outcome never reads as a delete.
	NotPresent Outcome = iota
	Deleted
)

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case NotPresent:
		return "not present"
	}
	return "unknown"
}

type node struct {
	children map[byte]*node
	terminal bool
}

func newNode() *node {
	return &node{children: map[byte]*node{}}
}

// Trie is a prefix tree over the bytes of its words. It is not safe for
// concurrent mutation.
type Trie struct {
	root *node
}

func New(ss []string) *Trie {
	result := &Trie{root: newNode()}
	for _, s := range ss {
		result.Put(s)
	}
	return result
}

// Put inserts s. The empty string is a valid word and marks the root.
func (t *Trie) Put(s string) {
	insert(t.root, []byte(s))
}

// Exist reports whether s was inserted and not since deleted.
func (t *Trie) Exist(s string) bool {
	n := find(t.root, []byte(s))
	return n != nil && n.terminal
}

// Delete removes s, pruning every node left with neither a word nor children.
// The root is never removed.
func (t *Trie) Delete(s string) Outcome {
	found, _ := remove(t.root, []byte(s))
	if !found {
		return NotPresent
	}
	return Deleted
}

// Suggest returns every word starting with prefix, in ascending byte order.
func (t *Trie) Suggest(prefix string) []string {
	result := []string{}
	t.Walk(prefix, func(word string) bool {
		result = append(result, word)
		return true
	})
	return result
}

// Walk calls fn for each word starting with prefix, in ascending byte order,
// until fn returns false.
func (t *Trie) Walk(prefix string, fn func(word string) bool) {
	n := find(t.root, []byte(prefix))
	if n == nil {
		return
	}
	buf := make([]byte, len(prefix), len(prefix)+16)
	copy(buf, prefix)
	walk(n, buf, fn)
}

// Len is the number of words present.
func (t *Trie) Len() int {
	return count(t.root, func(n *node) bool { return n.terminal })
}

// NodeCount includes the root, so an empty trie has one node.
func (t *Trie) NodeCount() int {
	return count(t.root, func(*node) bool { return true })
}

// Digest is a 64 byte fingerprint of the word set. Two tries holding the
// same words have the same digest regardless of history.
func (t *Trie) Digest() []byte {
	h := sha3.NewShake256()
	t.Walk("", func(word string) bool {
		// each word is framed by its uvarint length
		_, _ = h.Write(utility.Concat(utility.UintToBytes(uint64(len(word))), []byte(word)))
		return true
	})
	out := make([]byte, 64)
	_, _ = h.Read(out)
	return out
}

func insert(t *node, s []byte) {
	temp := t
	for _, c := range s {
		val, ok := temp.children[c]
		if !ok {
			val = newNode()
			temp.children[c] = val
		}
		temp = val
	}
	temp.terminal = true
}

func find(t *node, s []byte) *node {
	temp := t
	for _, c := range s {
		val, ok := temp.children[c]
		if !ok {
			return nil
		}
		temp = val
	}
	return temp
}

// remove returns whether s was present, and whether n is now dead and should
// be dropped by its parent.
func remove(n *node, s []byte) (found bool, dead bool) {
	if len(s) == 0 {
		if !n.terminal {
			return false, false
		}
		n.terminal = false
		return true, len(n.children) == 0
	}
	child, ok := n.children[s[0]]
	if !ok {
		return false, false
	}
	found, childDead := remove(child, s[1:])
	if !childDead {
		return found, false
	}
	delete(n.children, s[0])
	return found, !n.terminal && len(n.children) == 0
}

func walk(n *node, path []byte, fn func(string) bool) bool {
	if n.terminal && !fn(string(path)) {
		return false
	}
	keys := make([]byte, 0, len(n.children))
	for c := range n.children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, c := range keys {
		if !walk(n.children[c], append(path, c), fn) {
			return false
		}
	}
	return true
}

func count(n *node, match func(*node) bool) int {
	total := 0
	if match(n) {
		total++
	}
	for _, child := range n.children {
		total += count(child, match)
	}
	return total
}
