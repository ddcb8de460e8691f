// Package index implements the deterministic keyword ranking used by the
// context/recall operations: tokenize, score each candidate against a
// query, and sort with a reproducible tie-breaker so that two runs over the
// same store produce byte-identical recall packs (spec §4.4).
package index

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bleedingdev/ums/internal/canon"
)

// Document is one recall candidate: enough of its text to score against a
// query, plus the (createdAt, id) tuple used to break score ties.
type Document struct {
	ID        string
	CreatedAt string
	Text      string
}

// Tokenize splits text into lowercase tokens on any rune that is not a
// letter, digit, or underscore, so snake_case identifiers stay whole.
// Tokens of length <= 1 are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// tokenSet builds a lookup set from a token slice.
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Scored pairs a Document with the score it received against a query.
type Scored struct {
	Document Document
	Score    float64
}

// Score computes a single document's score against a query: the size of the
// token intersection, plus 1 if the raw query appears as a substring of the
// document text (case-insensitive), plus a small deterministic tie-breaker
// derived from seed, query, id, and createdAt (spec §4.4). An empty query
// always scores 1, the documented no-query fallback, so ranking for an
// omitted query falls through to Rank's (createdAt desc, id asc) ordering
// instead of an arbitrary per-document hash.
func Score(seed, query string, doc Document) float64 {
	if query == "" {
		return 1
	}

	queryTokens := tokenSet(Tokenize(query))
	docTokens := Tokenize(doc.Text)

	overlap := 0
	seen := make(map[string]struct{}, len(docTokens))
	for _, t := range docTokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			overlap++
		}
	}

	score := float64(overlap)
	if strings.Contains(strings.ToLower(doc.Text), strings.ToLower(query)) {
		score += 1
	}
	score += canon.HashToUnit(seed, query, doc.ID, doc.CreatedAt) * 0.01
	return score
}

// Rank scores every candidate against query and returns them sorted by
// (score desc, createdAt desc, id asc), truncated to limit (0 means
// unlimited).
func Rank(seed, query string, docs []Document, limit int) []Scored {
	out := make([]Scored, 0, len(docs))
	for _, d := range docs {
		out = append(out, Scored{Document: d, Score: Score(seed, query, d)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Document.CreatedAt != out[j].Document.CreatedAt {
			return out[i].Document.CreatedAt > out[j].Document.CreatedAt
		}
		return out[i].Document.ID < out[j].Document.ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
