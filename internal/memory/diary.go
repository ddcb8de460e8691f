package memory

import (
	"strconv"
	"strings"

	"github.com/bleedingdev/ums/internal/canon"
	"github.com/bleedingdev/ums/internal/entity"
)

// DefaultMaxWorkingEpisodeWindow bounds how many recent episodes a Diary
// summarizes when the caller does not specify one.
const DefaultMaxWorkingEpisodeWindow = 50

// BuildDiary summarizes up to maxWorkingEpisodeWindow of the most recent
// episodes (by createdAt, already sorted ascending by the caller) into a
// single bounded working entry. evidenceIds are the summarized episodes'
// IDs, sorted (spec §4.6).
func BuildDiary(storeID string, episodes []*entity.Episode, maxWorkingEpisodeWindow int, now string) (*entity.WorkingEntry, error) {
	if maxWorkingEpisodeWindow <= 0 {
		maxWorkingEpisodeWindow = DefaultMaxWorkingEpisodeWindow
	}
	window := episodes
	if len(window) > maxWorkingEpisodeWindow {
		window = window[len(window)-maxWorkingEpisodeWindow:]
	}

	lines := make([]string, 0, len(window))
	evidence := make([]string, 0, len(window))
	for _, ep := range window {
		lines = append(lines, "["+ep.CreatedAt+"] "+ep.Type+": "+ep.Content)
		evidence = append(evidence, ep.ID)
	}

	return entity.NewWorkingEntry(entity.NewWorkingEntryInput{
		StoreID:            storeID,
		Kind:               entity.WorkingKindDiary,
		Content:            strings.Join(lines, "\n"),
		EvidenceEpisodeIDs: evidence,
		CreatedAt:          now,
	})
}

// BuildDigest condenses episodes into a working entry recording their count
// and sorted distinct types (spec §4.6).
func BuildDigest(storeID string, episodes []*entity.Episode, now string) (*entity.WorkingEntry, error) {
	types := make([]string, 0, len(episodes))
	evidence := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		types = append(types, ep.Type)
		evidence = append(evidence, ep.ID)
	}
	distinctTypes := canon.SortedUnique(types)

	content := strings.Join(distinctTypes, ", ")
	if content == "" {
		content = "(no episodes)"
	}
	content = strconv.Itoa(len(episodes)) + " episode(s): " + content

	return entity.NewWorkingEntry(entity.NewWorkingEntryInput{
		StoreID:            storeID,
		Kind:               entity.WorkingKindDigest,
		Content:            content,
		EvidenceEpisodeIDs: evidence,
		CreatedAt:          now,
	})
}
