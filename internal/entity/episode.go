package entity

import (
	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/umserr"
)

// Episode is an immutable ground-truth event. Once appended it is never
// mutated; a request carrying a fingerprint that matches an existing
// episode yields a replay-safe noop rather than a new entity.
type Episode struct {
	ID        string         `json:"id"`
	StoreID   string         `json:"storeId"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"createdAt"`

	// RedactionCount is how many secret-shaped substrings were replaced in
	// Content during ingest guardrail processing.
	RedactionCount int `json:"redactionCount,omitempty"`

	// UnsafeInstruction flags content matching a prompt-injection pattern;
	// such episodes are excluded from recall unless includeUnsafe is set.
	UnsafeInstruction bool `json:"unsafeInstruction,omitempty"`

	SchemaVersion int `json:"schemaVersion"`
}

// NewEpisodeInput carries the fields a caller supplies when ingesting one
// event. CreatedAt must already be normalized (see canon.NormalizeTime) and
// is supplied by the caller (the engine resolves it from the request or the
// injected clock) rather than read from the wall clock in this package.
type NewEpisodeInput struct {
	StoreID   string
	Type      string
	Source    string
	Content   string
	Payload   map[string]any
	Metadata  map[string]any
	CreatedAt string

	RedactionCount    int
	UnsafeInstruction bool
}

// NewEpisode validates and constructs an Episode, computing its
// content-addressed ID from storeId, type, source, and content. CreatedAt is
// intentionally excluded from the fingerprint: two episodes submitted with
// identical semantic content at different times are the same episode, which
// is what makes duplicate-ingest detection and idempotent replay possible.
func NewEpisode(in NewEpisodeInput) (*Episode, error) {
	if err := requireStoreID(in.StoreID); err != nil {
		return nil, err
	}
	if in.Type == "" {
		return nil, umserr.ValidationFailed("episode type is required", nil)
	}
	if in.Content == "" {
		return nil, umserr.ValidationFailed("episode content is required", nil)
	}
	if in.CreatedAt == "" {
		return nil, umserr.ValidationFailed("episode createdAt is required", nil)
	}

	id, err := canon.ID(PrefixEpisode, map[string]any{
		"storeId": in.StoreID,
		"type":    in.Type,
		"source":  in.Source,
		"content": in.Content,
	})
	if err != nil {
		return nil, err
	}

	return &Episode{
		ID:                id,
		StoreID:           in.StoreID,
		Type:              in.Type,
		Source:            in.Source,
		Content:           in.Content,
		Payload:           in.Payload,
		Metadata:          in.Metadata,
		CreatedAt:         in.CreatedAt,
		RedactionCount:    in.RedactionCount,
		UnsafeInstruction: in.UnsafeInstruction,
		SchemaVersion:     1,
	}, nil
}

// SortKey returns the (createdAt, id) tuple used for stable chronological
// ordering (spec §3: "chronological sort is stable by (createdAt, id)").
func (e *Episode) SortKey() (string, string) {
	return e.CreatedAt, e.ID
}
