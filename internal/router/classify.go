package router

import (
	"context"
	"strings"

	"policy-training-assistant/internal/model"
)

// Classify determines the processing route for a message. It never
// fails: classifier errors degrade to the rule engine, and an
// unclassifiable message resolves to GENERATIVE_ONLY there.
func (r *SemanticRouter) Classify(ctx context.Context, message string, history []string, hint Hint) model.RouteDecision {
	// History changes what a message means, so only history-free turns
	// are cached.
	cacheable := r.cache != nil && len(history) == 0
	key := cacheKey(message, hint)
	if cacheable {
		if decision, ok := r.cache.Get(key); ok {
			r.l.Debugf(ctx, "%s: %s hit for %q", LogPrefixClassify, ReasonCacheHit, message)
			return decision
		}
	}

	var decision model.RouteDecision
	if r.useLLM {
		var err error
		decision, err = r.classifyLLM(ctx, message, history)
		if err != nil {
			r.l.Warnf(ctx, "%s: %v", LogPrefixClassify, err)
			decision = r.rules.classify(message, hint)
			decision.Reasoning = ReasonRuleFallback + ": " + decision.Reasoning
		}
	} else {
		decision = r.rules.classify(message, hint)
	}

	r.l.Infof(ctx, "%s: %s/%s (confidence: %d%%)", LogPrefixClassify, decision.Route, decision.Domain, decision.Confidence)

	if cacheable {
		r.cache.Add(key, decision)
	}
	return decision
}

func cacheKey(message string, hint Hint) string {
	return strings.ToLower(strings.TrimSpace(message)) + "|" + string(hint.Domain)
}
