// Package repo holds the per-(store, profile) entity buckets the engine
// upserts into and lists from. Every bucket kind shares one generic
// replay-safe upsert contract: a second upsert of an equivalent record
// either merges (and returns action "updated") or, if the merge result is
// byte-identical to what is already stored, returns action "noop" without
// mutating anything (spec §4.3).
package repo

import (
	"sort"

	"github.com/bleedingdev/ums/internal/canon"
)

// Action is the outcome of a single Bucket.Upsert call.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionNoop    Action = "noop"
)

// Bucket is a generic, content-addressed collection of one entity kind
// keyed by its deterministic ID. idFunc extracts the key; mergeFunc
// reconciles an existing record with an incoming upsert of the same key.
type Bucket[T any] struct {
	idFunc    func(T) string
	mergeFunc func(existing, incoming T) T
	items     map[string]T
}

// NewBucket constructs an empty Bucket for entity kind T.
func NewBucket[T any](idFunc func(T) string, mergeFunc func(existing, incoming T) T) *Bucket[T] {
	return &Bucket[T]{idFunc: idFunc, mergeFunc: mergeFunc, items: make(map[string]T)}
}

// Upsert inserts or merges incoming. The returned Action tells the caller
// whether a new record was created, an existing one changed, or the upsert
// was a replay-safe no-op.
func (b *Bucket[T]) Upsert(incoming T) (T, Action, error) {
	id := b.idFunc(incoming)
	existing, ok := b.items[id]
	if !ok {
		b.items[id] = incoming
		return incoming, ActionCreated, nil
	}

	merged := b.mergeFunc(existing, incoming)

	existingJSON, err := canon.JSON(existing)
	if err != nil {
		var zero T
		return zero, "", err
	}
	mergedJSON, err := canon.JSON(merged)
	if err != nil {
		var zero T
		return zero, "", err
	}
	if string(existingJSON) == string(mergedJSON) {
		return existing, ActionNoop, nil
	}
	b.items[id] = merged
	return merged, ActionUpdated, nil
}

// Put stores incoming unconditionally, bypassing the merge contract. Used
// by snapshot import, which restores already-merged records verbatim.
func (b *Bucket[T]) Put(incoming T) {
	b.items[b.idFunc(incoming)] = incoming
}

// Get returns the record stored under id, if any.
func (b *Bucket[T]) Get(id string) (T, bool) {
	v, ok := b.items[id]
	return v, ok
}

// List returns every record ordered by less, optionally capped at limit (0
// or negative means unlimited).
func (b *Bucket[T]) List(less func(a, b T) bool, limit int) []T {
	out := make([]T, 0, len(b.items))
	for _, v := range b.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Count returns the number of stored records.
func (b *Bucket[T]) Count() int {
	return len(b.items)
}

// All returns every stored record keyed by ID, for snapshot export. Callers
// must not mutate the returned map.
func (b *Bucket[T]) All() map[string]T {
	return b.items
}
