package engine

import (
	"github.com/bleedingdev/ums/internal/entity"
	"github.com/bleedingdev/ums/internal/index"
	"github.com/bleedingdev/ums/internal/memory"
	"github.com/bleedingdev/ums/internal/repo"
)

// escalateIfDue checks misc's harmful signal count against the escalation
// thresholds and, if crossed, upserts the resulting anti-pattern artifact
// into profileBucket. ok is false when no threshold was crossed by this
// upsert.
func escalateIfDue(profileBucket *repo.Profile, misc *entity.Misconception, severity float64, now string) (*entity.AntiPattern, bool, error) {
	if !memory.ShouldEscalate(misc.HarmfulSignalCount) {
		return nil, false, nil
	}
	artifact, err := memory.EscalateHarm(misc, severity, now)
	if err != nil {
		return nil, false, err
	}
	stored, _, err := profileBucket.AntiPatterns.Upsert(artifact)
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// episodeDocuments converts episodes into index.Document values for ranking.
func episodeDocuments(episodes []*entity.Episode, includeUnsafe bool) []index.Document {
	docs := make([]index.Document, 0, len(episodes))
	for _, ep := range episodes {
		if ep.UnsafeInstruction && !includeUnsafe {
			continue
		}
		docs = append(docs, index.Document{ID: ep.ID, CreatedAt: ep.CreatedAt, Text: ep.Content})
	}
	return docs
}

// ruleDocuments converts active rules into index.Document values.
func ruleDocuments(rules []*entity.ProceduralRule) []index.Document {
	docs := make([]index.Document, 0, len(rules))
	for _, r := range rules {
		if r.Tombstoned() {
			continue
		}
		docs = append(docs, index.Document{ID: r.ID, CreatedAt: r.UpdatedAt, Text: r.Statement})
	}
	return docs
}

// antiPatternDocuments converts anti-patterns into index.Document values.
func antiPatternDocuments(patterns []*entity.AntiPattern) []index.Document {
	docs := make([]index.Document, 0, len(patterns))
	for _, a := range patterns {
		docs = append(docs, index.Document{ID: a.ID, CreatedAt: a.CreatedAt, Text: a.Statement})
	}
	return docs
}
