package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// WorkingKind is the kind of regenerable summary a WorkingEntry holds.
type WorkingKind string

const (
	WorkingKindDiary  WorkingKind = "diary"
	WorkingKindDigest WorkingKind = "digest"
)

// MaxWorkingContentBytes bounds a WorkingEntry's content, per spec §3
// ("content <= bounded size").
const MaxWorkingContentBytes = 8192

// WorkingEntry is a regenerable summary (diary/digest) of episodes. It may
// reference zero or more episodes; its content is bounded.
type WorkingEntry struct {
	ID                string      `json:"id"`
	StoreID           string      `json:"storeId"`
	Kind              WorkingKind `json:"kind"`
	Content           string      `json:"content"`
	EvidenceEpisodeIDs []string   `json:"evidenceEpisodeIds"`
	CreatedAt         string      `json:"createdAt"`
	SchemaVersion     int         `json:"schemaVersion"`
}

// NewWorkingEntryInput carries the fields needed to build a WorkingEntry.
type NewWorkingEntryInput struct {
	StoreID            string
	Kind               WorkingKind
	Content            string
	EvidenceEpisodeIDs []string
	CreatedAt          string
}

// NewWorkingEntry validates and constructs a WorkingEntry.
func NewWorkingEntry(in NewWorkingEntryInput) (*WorkingEntry, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.Kind != WorkingKindDiary && in.Kind != WorkingKindDigest {
		return nil, umserr.ValidationFailed("working entry kind must be diary or digest", map[string]any{"kind": in.Kind})
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("working entry createdAt is required", nil)
	}

	content := in.Content
	if len(content) > MaxWorkingContentBytes {
		content = content[:MaxWorkingContentBytes]
	}
	evidence := canon.SortedUnique(in.EvidenceEpisodeIDs)

	id, err := canon.ID(PrefixWorking, map[string]any{
		"storeId":            in.StoreID,
		"kind":               string(in.Kind),
		"evidenceEpisodeIds": evidence,
		"content":            content,
	})
	if err != nil {
		return nil, err
	}

	return &WorkingEntry{
		ID:                 id,
		StoreID:            in.StoreID,
		Kind:               in.Kind,
		Content:            content,
		EvidenceEpisodeIDs: evidence,
		CreatedAt:          in.CreatedAt,
		SchemaVersion:      1,
	}, nil
}
