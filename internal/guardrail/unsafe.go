package guardrail

import "regexp"

// unsafeInstructionPatterns catches common prompt-injection phrasing aimed
// at a downstream agent consuming a recall pack (G5). This is a pragmatic
// denylist, not a guarantee; it exists to keep obvious cases out of default
// recall, not to defeat a determined adversary.
var unsafeInstructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all )?(previous|prior|above) instructions`),
	regexp.MustCompile(`(?i)disregard (your|the) (system prompt|instructions)`),
	regexp.MustCompile(`(?i)you are now (in )?(developer|admin|unrestricted) mode`),
	regexp.MustCompile(`(?i)\bact as (if you have no|an unfiltered)\b`),
	regexp.MustCompile(`(?i)reveal (your|the) (system prompt|hidden instructions)`),
}

// IsUnsafeInstruction reports whether text matches a known prompt-injection
// pattern. Matching episodes are flagged UnsafeInstruction and excluded
// from recall unless the request sets includeUnsafe.
func IsUnsafeInstruction(text string) bool {
	for _, re := range unsafeInstructionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
