// Trie implements an array-backed byte trie whose nodes are numbered in creation order.
// Each node has one transition slot per byte value, no maps and no per node allocation.
// Node 0 is the root and is never anybody's child so a zero slot means "no child".
// Nodes 1 to 256 are pre-populated for every single byte value (id = byte + 1)
// and longer phrases get ids from 257 on, in insertion order.
package trie // import "grol.io/lzw/trie"

import (
	"errors"
	"fmt"
	"unsafe"

	"fortio.org/log"
	"grol.io/lzw/memory"
)

// ID is the ordinal of a node, stable for the lifetime of the trie.
type ID uint64

const (
	Root ID = 0
	// FirstPhrase is the id of the first multi byte phrase.
	FirstPhrase ID = 257
	// MaxID is the exclusive upper bound of the id count: Len() must stay below it
	// so that the two highest values of an 8 bytes code remain free.
	MaxID uint64 = 1<<64 - 2
	// DefaultInitialSize is the number of nodes allocated when no hint is given.
	DefaultInitialSize = 512
)

var (
	ErrOverflow    = errors.New("dictionary id overflow")
	ErrUnknownNode = errors.New("unknown trie node")
)

type node struct {
	children [256]ID
}

const nodeSize = int(unsafe.Sizeof(node{}))

type Config struct {
	// InitialSize is a hint of how many phrases will be added, 0 for the default.
	InitialSize int
	// MaxSize caps the number of phrases added past the single bytes, 0 for unbounded.
	MaxSize int
	// GrowthStep is the number of nodes added when storage is full.
	// 0 means a quarter of the ceiling when capped, geometric growth otherwise.
	GrowthStep int
	// IDLimit overrides MaxID, mostly useful to exercise the overflow path.
	IDLimit uint64
}

type Trie struct {
	nodes   []node
	ceiling int // 0 for no ceiling.
	step    int
	limit   uint64
	dropped uint64
}

func New(c Config) (*Trie, error) {
	hint := max(0, c.InitialSize)
	if hint > memory.MaxAlloc/nodeSize {
		return nil, fmt.Errorf("%w: initial size %d", memory.ErrOutOfMemory, c.InitialSize)
	}
	initial := DefaultInitialSize + hint
	t := &Trie{step: c.GrowthStep, limit: c.IDLimit}
	if t.limit == 0 || t.limit > MaxID {
		t.limit = MaxID
	}
	// A cap that large can't be reached before memory runs out: same as none.
	if c.MaxSize > 0 && c.MaxSize <= memory.MaxAlloc/nodeSize {
		// The ceiling counts the root and the 256 single bytes.
		t.ceiling = int(FirstPhrase) + c.MaxSize
		initial = min(initial, t.ceiling)
		if t.step <= 0 {
			t.step = max(1, (initial+c.MaxSize)/4)
		}
	}
	if err := memory.Elements(initial, nodeSize); err != nil {
		return nil, err
	}
	t.nodes = make([]node, FirstPhrase, initial)
	for b := range 256 {
		t.nodes[Root].children[b] = ID(b) + 1
	}
	return t, nil
}

// Len is the number of ids assigned so far, root included, which is also the next id.
func (t *Trie) Len() uint64 {
	return uint64(len(t.nodes))
}

// Phrases is the number of multi byte phrases learned.
func (t *Trie) Phrases() uint64 {
	return t.Len() - uint64(FirstPhrase)
}

// Dropped is the number of insertions ignored because the ceiling was reached.
func (t *Trie) Dropped() uint64 {
	return t.dropped
}

// Full reports whether no more nodes can be added.
func (t *Trie) Full() bool {
	return t.ceiling > 0 && len(t.nodes) >= t.ceiling
}

// Child returns the node reached from parent by b, if any.
// A parent that isn't an id of this trie has no children.
func (t *Trie) Child(parent ID, b byte) (ID, bool) {
	if parent >= ID(len(t.nodes)) {
		return Root, false
	}
	id := t.nodes[parent].children[b]
	return id, id != Root
}

// Lookup walks phrase from the root and returns the id of the node spelling it.
// The empty phrase is never found.
func (t *Trie) Lookup(phrase []byte) (ID, bool) {
	if len(phrase) == 0 {
		return Root, false
	}
	cur := Root
	for _, b := range phrase {
		next, ok := t.Child(cur, b)
		if !ok {
			return Root, false
		}
		cur = next
	}
	return cur, true
}

// Insert adds phrase if not already present and returns its id.
// Missing intermediate prefixes are created first, in order.
// Inserting past the ceiling is silently dropped: inserted is false and id is Root.
func (t *Trie) Insert(phrase []byte) (id ID, inserted bool, err error) {
	cur := Root
	for _, b := range phrase {
		next, ok := t.Child(cur, b)
		if !ok {
			next, ok, err = t.AddChild(cur, b)
			if err != nil || !ok {
				return Root, false, err
			}
			inserted = true
		}
		cur = next
	}
	return cur, inserted, nil
}

// AddChild creates the node reached from parent by b, parent being an id returned by
// this trie. An existing child is returned as is, with false.
// Returns false, without error, when the ceiling is reached.
func (t *Trie) AddChild(parent ID, b byte) (ID, bool, error) {
	if parent >= ID(len(t.nodes)) {
		return Root, false, fmt.Errorf("%w: %d, only %d ids assigned", ErrUnknownNode, parent, len(t.nodes))
	}
	if existing, ok := t.Child(parent, b); ok {
		return existing, false, nil
	}
	next := t.Len()
	if next+1 >= t.limit {
		return Root, false, fmt.Errorf("%w: %d ids assigned, limit %d", ErrOverflow, next, t.limit)
	}
	if len(t.nodes) == cap(t.nodes) {
		grown, err := t.grow()
		if err != nil {
			return Root, false, err
		}
		if !grown {
			t.dropped++
			return Root, false, nil
		}
	}
	t.nodes = t.nodes[:len(t.nodes)+1] // zeroed: fresh capacity from make/append.
	id := ID(next)
	t.nodes[parent].children[b] = id
	if log.LogDebug() {
		log.Debugf("trie: new node %d = %d + %q", id, parent, b)
	}
	return id, true, nil
}

func (t *Trie) grow() (bool, error) {
	n := len(t.nodes)
	step := t.step
	if step <= 0 {
		step = n
	}
	if t.ceiling > 0 {
		step = min(step, t.ceiling-n)
		if step <= 0 {
			return false, nil
		}
	}
	step = min(step, memory.MaxAlloc/nodeSize-n)
	if step <= 0 {
		return false, fmt.Errorf("%w: %d nodes is the most a trie can hold", memory.ErrOutOfMemory, n)
	}
	if err := memory.Elements(n+step, nodeSize); err != nil {
		return false, err
	}
	grown := make([]node, n, n+step)
	copy(grown, t.nodes)
	t.nodes = grown
	log.LogVf("trie: grew node storage to %d (%d assigned)", cap(t.nodes), n)
	return true, nil
}
