package usecase

import (
	"context"
	"fmt"
	"strings"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/model"
)

// retrieve runs scoped retrieval with one empty-result retry and applies
// the low-relevance gate. Port errors are never retried and surface as
// chat.ErrRetrievalUnavailable.
func (uc *implUseCase) retrieve(ctx context.Context, normalizedQuery string, anchors map[string]struct{}, domain model.Domain) (chat.GateOutcome, error) {
	scope := uc.retrieval.Scopes[domain]

	results, err := uc.evidenceRepo.SearchEvidence(ctx, repository.SearchEvidenceOptions{
		Query:  normalizedQuery,
		Scope:  scope,
		Domain: domain,
		Limit:  uc.retrieval.DefaultK,
	})
	if err != nil {
		return chat.GateOutcome{}, fmt.Errorf("%w: %v", chat.ErrRetrievalUnavailable, err)
	}

	if len(results) == 0 {
		uc.l.Infof(ctx, "retrieve: empty result in scope %s, retrying with top_k=%d", scope, uc.retrieval.RetryK)
		results, err = uc.evidenceRepo.SearchEvidence(ctx, repository.SearchEvidenceOptions{
			Query:  normalizedQuery,
			Scope:  scope,
			Domain: domain,
			Limit:  uc.retrieval.RetryK,
		})
		if err != nil {
			return chat.GateOutcome{}, fmt.Errorf("%w: %v", chat.ErrRetrievalUnavailable, err)
		}
	}

	outcome := uc.applyGates(ctx, results, anchors)
	uc.l.Infof(ctx, "retrieve: scope=%s verdict=%s kept=%d", scope, outcome.Verdict, len(outcome.Kept))
	return outcome, nil
}

// applyGates inspects the ranked evidence. The score gate runs before the
// anchor gate and the first demotion short-circuits, so only one demotion
// reason is ever reported. A demotion keeps the single best item rather
// than dropping everything: a weak residual signal still lets the guard
// ground a hedged answer instead of a blind refusal.
func (uc *implUseCase) applyGates(ctx context.Context, results []model.Evidence, anchors map[string]struct{}) chat.GateOutcome {
	if len(results) == 0 {
		return chat.GateOutcome{Verdict: chat.VerdictEmptyInput}
	}

	model.SortEvidence(results)

	maxScore := results[0].Score
	if maxScore < uc.retrieval.ScoreThreshold {
		uc.l.Infof(ctx, "applyGates: max score %.2f below threshold %.2f, soft demoting", maxScore, uc.retrieval.ScoreThreshold)
		return chat.GateOutcome{
			Kept:    results[:1],
			Verdict: chat.VerdictSoftDemotedScore,
		}
	}

	if len(anchors) > 0 && !anchorsPresent(results, anchors) {
		uc.l.Infof(ctx, "applyGates: no anchor keyword found in %d results, soft demoting", len(results))
		return chat.GateOutcome{
			Kept:    results[:1],
			Verdict: chat.VerdictSoftDemotedAnchor,
		}
	}

	return chat.GateOutcome{
		Kept:    results,
		Verdict: chat.VerdictPassed,
	}
}

// anchorsPresent reports whether any anchor appears, case-insensitively, in
// any evidence item's searchable text.
func anchorsPresent(results []model.Evidence, anchors map[string]struct{}) bool {
	for _, ev := range results {
		text := ev.SearchText()
		for anchor := range anchors {
			if strings.Contains(text, anchor) {
				return true
			}
		}
	}
	return false
}
