// Package guardrail centralizes the defensive checks that keep recall packs,
// writes, and cross-store reads bounded and safe regardless of what callers
// submit.
//
// # Threat Model
//
// G1 - Evidence Bypass: a caller upserts a rule, anti-pattern, misconception,
// or identity edge that requires evidence without attaching any, trying to
// plant unfounded guidance. Mitigated by entity.RequireEvidence at
// construction time; this package only exposes the shared
// metadata.policyException check as ExceptionGranted, which no write path
// calls.
//
// G2 - Cross-Store Leakage: a context/recall request against one store
// returns entities from another. Mitigated by repo.CheckIsolation, invoked
// before any cross-store bucket is read; an allowCrossSpaceRead request
// outside the allowlist is rejected rather than silently narrowed.
//
// G3 - Payload Exhaustion: an unbounded recall pack (attacker-controlled
// episode volume, pathological query) blows past the caller's byte or token
// budget. Mitigated by Fit, which truncates evidencePointers, then
// antiPatterns, then topRules, in that order, until the pack fits; a pack
// that cannot fit even empty-handed fails PAYLOAD_LIMIT rather than
// returning an oversized response.
//
// G4 - Secret Leakage: episode content or metadata submitted during ingest
// carries API keys, tokens, or credentials that would otherwise be echoed
// back verbatim in every later recall. Mitigated by Redact, applied to
// episode content at ingest time before the episode is ever persisted.
//
// G5 - Unsafe Instruction Injection: episode content carries a prompt
// injection or instruction-override pattern aimed at a downstream agent
// that consumes recall output. Mitigated by IsUnsafeInstruction, which
// flags matching episodes for exclusion from recall unless a request
// explicitly opts in with includeUnsafe.
//
// G6 - Confidence Drift: repeated reinforcement or feedback signals push a
// rule's or misconception's confidence outside its defined band (e.g. an
// anti-pattern below its 0.2 floor). Mitigated at the entity layer
// (entity.clampFloat) rather than here; this package does not re-clamp,
// since double-clamping the same value is a defect in itself.
package guardrail
