package repo

import (
	"sort"

	"github.com/bleedingdev/ums/internal/entity"
)

// EpisodeBucket holds append-only Episode records. Unlike Bucket[T],
// episodes never merge: a second Put with an ID that already exists is a
// duplicate, reported to the caller (ingest uses this to count
// duplicates++ rather than creating a second record), per spec §3.
type EpisodeBucket struct {
	items map[string]*entity.Episode
}

// NewEpisodeBucket constructs an empty EpisodeBucket.
func NewEpisodeBucket() *EpisodeBucket {
	return &EpisodeBucket{items: make(map[string]*entity.Episode)}
}

// Put stores ep if its ID is new. It reports whether ep was already present
// (a duplicate ingest of the same storeId+type+source+content fingerprint).
func (b *EpisodeBucket) Put(ep *entity.Episode) (stored *entity.Episode, duplicate bool) {
	if existing, ok := b.items[ep.ID]; ok {
		return existing, true
	}
	b.items[ep.ID] = ep
	return ep, false
}

// Get returns the episode stored under id, if any.
func (b *EpisodeBucket) Get(id string) (*entity.Episode, bool) {
	v, ok := b.items[id]
	return v, ok
}

// List returns every episode ordered by (createdAt asc, id asc), the stable
// chronological order spec §3 requires, optionally capped at limit.
func (b *EpisodeBucket) List(limit int) []*entity.Episode {
	out := make([]*entity.Episode, 0, len(b.items))
	for _, v := range b.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, idi := out[i].SortKey()
		cj, idj := out[j].SortKey()
		if ci != cj {
			return ci < cj
		}
		return idi < idj
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Count returns the number of stored episodes.
func (b *EpisodeBucket) Count() int {
	return len(b.items)
}

// All returns every stored episode keyed by ID, for snapshot export.
func (b *EpisodeBucket) All() map[string]*entity.Episode {
	return b.items
}
