package guardrail

import "regexp"

// secretPattern pairs a regexp with the placeholder label substituted for
// each match.
type secretPattern struct {
	re    *regexp.Regexp
	label string
}

// secretPatterns catalogs the secret shapes redacted from episode content
// before it is ever persisted (G4). New entries should be conservative:
// a false positive just over-redacts a rule's evidence text, a false
// negative leaks a credential into every future recall.
var secretPatterns = []secretPattern{
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`), "API_KEY"},
	{regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), "AWS_KEY"},
	{regexp.MustCompile(`\bey[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`), "JWT"},
	{regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]{10,}\b`), "BEARER_TOKEN"},
	{regexp.MustCompile(`(?i)\b(password|secret|token|api_key|apikey)\s*[:=]\s*\S+`), "CREDENTIAL"},
}

// Redact replaces every secret-shaped substring in text with a
// [REDACTED_<LABEL>] placeholder and reports how many replacements were
// made, for the episode's redactionCount field.
func Redact(text string) (redacted string, count int) {
	redacted = text
	for _, p := range secretPatterns {
		matches := p.re.FindAllString(redacted, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		redacted = p.re.ReplaceAllString(redacted, "[REDACTED_"+p.label+"]")
	}
	return redacted, count
}
