package query

import (
	"regexp"
	"strings"

	"policy-training-assistant/config"
)

// edgePunct is trimmed from token edges before matching.
const edgePunct = `?!.,"'`

// AnchorExtractor derives the minimal set of topic-bearing tokens from a
// query. Action tokens (request verbs) and stopwords must never act as
// relevance anchors, otherwise the low-relevance gate would accept evidence
// that merely echoes the verb of the question rather than its topic.
type AnchorExtractor struct {
	stopwords    map[string]struct{}
	actionTokens map[string]struct{}
	actionSuffix *regexp.Regexp
	minLen       int
}

// NewAnchorExtractor builds an AnchorExtractor from the validated keyword
// config.
func NewAnchorExtractor(kw config.KeywordConfig) *AnchorExtractor {
	stopwords := make(map[string]struct{}, len(kw.Stopwords))
	for _, w := range kw.Stopwords {
		stopwords[strings.ToLower(w)] = struct{}{}
	}
	actions := make(map[string]struct{}, len(kw.ActionTokens))
	for _, w := range kw.ActionTokens {
		actions[strings.ToLower(w)] = struct{}{}
	}
	return &AnchorExtractor{
		stopwords:    stopwords,
		actionTokens: actions,
		actionSuffix: kw.ActionSuffixRegexp(),
		minLen:       kw.MinTokenLength,
	}
}

// Extract returns the anchor keyword set for a query. The set may be empty
// only when the query consists entirely of stopwords and action tokens.
func (e *AnchorExtractor) Extract(q string) map[string]struct{} {
	anchors := make(map[string]struct{})

	for _, raw := range strings.Fields(q) {
		token := strings.ToLower(strings.Trim(raw, edgePunct))
		if token == "" {
			continue
		}
		if _, isAction := e.actionTokens[token]; isAction {
			continue
		}

		token = e.stripActionSuffix(token)

		if _, isStop := e.stopwords[token]; isStop {
			continue
		}
		if len([]rune(token)) < e.minLen {
			continue
		}
		anchors[token] = struct{}{}
	}

	return anchors
}

// stripActionSuffix peels verb-ending particles off the token tail until the
// pattern no longer matches, so compounds like "policy-summarize-for-me"
// reduce to "policy".
func (e *AnchorExtractor) stripActionSuffix(token string) string {
	if e.actionSuffix == nil {
		return token
	}
	for {
		stripped := strings.TrimSuffix(e.actionSuffix.ReplaceAllString(token, ""), "-")
		if stripped == token {
			return token
		}
		token = stripped
	}
}
