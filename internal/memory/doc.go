// Package memory implements the reinforcement and summarization models that
// turn raw episodes into regenerable working memory and that age rules and
// misconceptions over time.
//
// # Confidence Adjustments
//
// Every adjustment here is a pure function from (current state, signal) to
// a new confidence value; none of it touches the wall clock or reads
// repository state beyond what is passed in.
//
//   - Reinforce: confidence += 0.08 per helpful signal, -0.18 per harmful
//     signal, clamped to [0, 1]. A rule at or below 0.05 confidence is
//     tombstoned.
//   - Invert: produces an anti-pattern from a rule, confidence floored at
//     0.2, evidence carried over unchanged.
//   - Harm escalation: a misconception's harmful signal count crossing 2,
//     3, or 5 emits (or updates) a deterministic anti-pattern artifact.
//     Decay bands: count 1 -> -0.18, count 2 -> -0.24, count 3-4 -> -0.32,
//     count 5+ -> -0.42, plus severity*0.08, floored at 0.05 rather than
//     the general anti-pattern floor of 0.2, since these track a decaying
//     severity signal rather than a reinforced inversion.
package memory
