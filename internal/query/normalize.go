package query

import (
	"regexp"
	"strings"

	"policy-training-assistant/config"
)

var (
	// Runs of the same punctuation mark ("정말??", "네...") collapse to one.
	rePunctRun = regexp.MustCompile(`\?{2,}|!{2,}|\.{2,}|,{2,}|~{2,}`)
	reSpaceRun = regexp.MustCompile(`\s+`)
)

// Normalizer strips masking artifacts and noise from free text before it is
// used as a retrieval query. Normalize is idempotent and never fails.
type Normalizer struct {
	placeholders []string
}

// NewNormalizer builds a Normalizer from the validated keyword config.
func NewNormalizer(kw config.KeywordConfig) *Normalizer {
	return &Normalizer{placeholders: kw.PIIPlaceholders}
}

// Normalize removes PII placeholder tokens, collapses repeated punctuation
// and whitespace runs, and trims the ends.
func (n *Normalizer) Normalize(raw string) string {
	out := raw
	for _, placeholder := range n.placeholders {
		out = strings.ReplaceAll(out, placeholder, " ")
	}
	out = rePunctRun.ReplaceAllStringFunc(out, func(run string) string { return run[:1] })
	out = reSpaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
