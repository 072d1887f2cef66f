package middleware

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"policy-training-assistant/config"
	"policy-training-assistant/pkg/log"
)

// maxTrackedClients bounds the per-client limiter store so an address scan
// cannot grow it without limit.
const maxTrackedClients = 4096

type Middleware struct {
	l        log.Logger
	rateCfg  config.RateLimitConfig
	limiters *lru.Cache[string, *rate.Limiter]
}

func New(l log.Logger, rateCfg config.RateLimitConfig) Middleware {
	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return Middleware{
		l:        l,
		rateCfg:  rateCfg,
		limiters: limiters,
	}
}
