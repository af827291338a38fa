package whnf

import (
	"encoding/binary"

	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"github.com/vito/redex/pkg/expr"
)

// Cache maps terms to their weak head normal forms, one partition per
// transparency mode. It is persistent: Insert returns a new Cache and
// leaves the receiver untouched, so snapshots are free.
//
// Entries are keyed by structural hash. Terms sharing a hash are kept in
// a bucket and told apart with expr.Equal.
type Cache struct {
	trees [TransparencyAll + 1]*iradix.Tree[[]cacheEntry]
}

type cacheEntry struct {
	term   expr.Expr
	result expr.Expr
}

// NewCache returns an empty cache.
func NewCache() Cache {
	return Cache{}
}

func cacheKey(e expr.Expr) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], e.Hash())
	return k[:]
}

// Cacheable reports whether results for e may be stored under mode: terms
// with free variables depend on the local context, and All is reserved for
// one-off reductions.
func Cacheable(mode TransparencyMode, e expr.Expr) bool {
	return mode != TransparencyAll && !e.HasFVar()
}

// Find returns the cached result for e under mode.
func (c Cache) Find(mode TransparencyMode, e expr.Expr) (expr.Expr, bool) {
	t := c.trees[mode]
	if t == nil {
		return nil, false
	}
	bucket, ok := t.Get(cacheKey(e))
	if !ok {
		return nil, false
	}
	for _, ent := range bucket {
		if expr.Equal(ent.term, e) {
			return ent.result, true
		}
	}
	return nil, false
}

// Insert records result as the normal form of e under mode. Uncacheable
// entries are ignored.
func (c Cache) Insert(mode TransparencyMode, e, result expr.Expr) Cache {
	if !Cacheable(mode, e) {
		return c
	}
	t := c.trees[mode]
	if t == nil {
		t = iradix.New[[]cacheEntry]()
	}
	key := cacheKey(e)
	bucket, _ := t.Get(key)
	next := make([]cacheEntry, 0, len(bucket)+1)
	for _, ent := range bucket {
		if !expr.Equal(ent.term, e) {
			next = append(next, ent)
		}
	}
	next = append(next, cacheEntry{term: e, result: result})
	c.trees[mode], _, _ = t.Insert(key, next)
	return c
}

// Len counts cached terms under mode.
func (c Cache) Len(mode TransparencyMode) int {
	t := c.trees[mode]
	if t == nil {
		return 0
	}
	n := 0
	t.Root().Walk(func(_ []byte, bucket []cacheEntry) bool {
		n += len(bucket)
		return false
	})
	return n
}
