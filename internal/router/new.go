package router

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"policy-training-assistant/internal/model"
	"policy-training-assistant/pkg/llmprovider"
	"policy-training-assistant/pkg/log"
)

// Router classifies a message into exactly one processing route.
type Router interface {
	Classify(ctx context.Context, message string, history []string, hint Hint) model.RouteDecision
}

// Generator is the LLM surface the router needs.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// SemanticRouter prefers the LLM classifier when configured and always
// keeps the rule engine as its fallback, so classification never fails.
type SemanticRouter struct {
	llm    Generator
	rules  *ruleClassifier
	cache  *lru.Cache[string, model.RouteDecision]
	useLLM bool
	l      log.Logger
}

var _ Router = (*SemanticRouter)(nil)

// New creates a SemanticRouter. llm may be nil, which disables the LLM
// path regardless of useLLM. cacheSize <= 0 disables caching.
func New(llm Generator, useLLM bool, cacheSize int, l log.Logger) *SemanticRouter {
	var cache *lru.Cache[string, model.RouteDecision]
	if cacheSize > 0 {
		cache, _ = lru.New[string, model.RouteDecision](cacheSize)
	}
	return &SemanticRouter{
		llm:    llm,
		rules:  &ruleClassifier{},
		cache:  cache,
		useLLM: useLLM && llm != nil,
		l:      l,
	}
}
