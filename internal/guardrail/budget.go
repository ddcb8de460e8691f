package guardrail

import "github.com/bleedingdev/ums/internal/umserr"

// EstimateTokens approximates a token count from text length using a rough
// 4-characters-per-token ratio, good enough for budget comparisons without
// pulling in a tokenizer dependency for an estimate the caller can always
// override with an exact count.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Measure returns the current size of whatever Fit is bounding, as
// (byteLen, tokenEstimate).
type Measure func() (bytes, tokens int, err error)

// Shrink drops the next-least-important item from the payload and reports
// whether anything was actually removed. Fit calls shrinkers in priority
// order (least important first) until the payload fits or nothing more can
// be dropped.
type Shrink func() bool

// Fit shrinks a payload until it satisfies both maxBytes and maxTokens (a
// zero or negative bound is treated as unlimited), applying shrinkers in
// the order given. If the payload still exceeds a bound after every
// shrinker reports nothing left to remove, Fit fails PAYLOAD_LIMIT (spec
// §4.5: "truncate evidencePointers, then antiPatterns, then topRules, in
// that order, until it fits, else PAYLOAD_LIMIT").
func Fit(maxBytes, maxTokens int, measure Measure, shrinkers ...Shrink) error {
	for {
		b, t, err := measure()
		if err != nil {
			return err
		}
		withinBytes := maxBytes <= 0 || b <= maxBytes
		withinTokens := maxTokens <= 0 || t <= maxTokens
		if withinBytes && withinTokens {
			return nil
		}

		shrunk := false
		for _, s := range shrinkers {
			if s() {
				shrunk = true
				break
			}
		}
		if !shrunk {
			return umserr.PayloadLimit("recall pack exceeds budget even after truncation", map[string]any{
				"bytes": b, "tokens": t, "maxBytes": maxBytes, "maxTokens": maxTokens,
			})
		}
	}
}
