package usecase

import (
	"context"

	"policy-training-assistant/config"
	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/pii"
	"policy-training-assistant/internal/query"
	"policy-training-assistant/internal/router"
	"policy-training-assistant/pkg/llmprovider"
	pkgLog "policy-training-assistant/pkg/log"
)

// Generator is the generation port.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

type implUseCase struct {
	l            pkgLog.Logger
	router       router.Router
	llm          Generator
	evidenceRepo repository.EvidenceRepository
	recordsRepo  repository.RecordsRepository
	normalizer   *query.Normalizer
	anchors      *query.AnchorExtractor
	piiFactory   pii.Factory
	retrieval    config.RetrievalConfig
	guard        config.GuardConfig
}

// New creates a new chat UseCase instance.
func New(
	l pkgLog.Logger,
	rt router.Router,
	llm Generator,
	evidenceRepo repository.EvidenceRepository,
	recordsRepo repository.RecordsRepository,
	normalizer *query.Normalizer,
	anchors *query.AnchorExtractor,
	piiFactory pii.Factory,
	retrieval config.RetrievalConfig,
	guard config.GuardConfig,
) *implUseCase {
	return &implUseCase{
		l:            l,
		router:       rt,
		llm:          llm,
		evidenceRepo: evidenceRepo,
		recordsRepo:  recordsRepo,
		normalizer:   normalizer,
		anchors:      anchors,
		piiFactory:   piiFactory,
		retrieval:    retrieval,
		guard:        guard,
	}
}
