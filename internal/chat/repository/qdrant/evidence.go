package qdrant

import (
	"context"
	"fmt"

	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/model"
	pkgLog "policy-training-assistant/pkg/log"
	pkgQdrant "policy-training-assistant/pkg/qdrant"
	"policy-training-assistant/pkg/voyage"
)

type implRepository struct {
	client   *pkgQdrant.Client
	embedder voyage.IVoyage
	l        pkgLog.Logger
}

// New creates a Qdrant-backed evidence repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, l pkgLog.Logger) repository.EvidenceRepository {
	return &implRepository{
		client:   client,
		embedder: embedder,
		l:        l,
	}
}

// SearchEvidence embeds the query and searches the collection resolved for
// the request's domain.
func (r *implRepository) SearchEvidence(ctx context.Context, opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
	vectors, err := r.embedder.Embed(ctx, []string{opt.Query})
	if err != nil || len(vectors) == 0 {
		r.l.Errorf(ctx, "qdrant repository: failed to generate query embedding: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	searchReq := pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       opt.Limit,
		WithPayload: true, // Payload carries title, snippet and structural references
	}

	resp, err := r.client.SearchPoints(ctx, opt.Scope, searchReq)
	if err != nil {
		r.l.Errorf(ctx, "qdrant repository: failed to search scope %s: %v", opt.Scope, err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]model.Evidence, 0, len(resp.Result))
	for _, scored := range resp.Result {
		ev, ok := evidenceFromPoint(scored, opt.Domain)
		if !ok {
			r.l.Warnf(ctx, "qdrant repository: skipping point %v with unusable payload: %+v", scored.ID, scored.Payload)
			continue
		}
		results = append(results, ev)
	}

	r.l.Infof(ctx, "qdrant repository: found %d results in scope %s for query %q", len(results), opt.Scope, opt.Query)
	return results, nil
}

// evidenceFromPoint maps a scored point's payload to Evidence. A point
// without at least a title or snippet carries nothing to ground an answer
// on and is dropped.
func evidenceFromPoint(p pkgQdrant.ScoredPoint, domain model.Domain) (model.Evidence, bool) {
	title := payloadString(p.Payload, "title")
	snippet := payloadString(p.Payload, "snippet")
	if title == "" && snippet == "" {
		return model.Evidence{}, false
	}

	id := payloadString(p.Payload, "doc_id")
	if id == "" {
		id = p.ID
	}

	return model.Evidence{
		ID:              id,
		Title:           title,
		Snippet:         snippet,
		Score:           p.Score,
		Domain:          domain,
		StructuralLabel: payloadString(p.Payload, "structural_label"),
		StructuralPath:  payloadString(p.Payload, "structural_path"),
	}, true
}

func payloadString(payload map[string]interface{}, key string) string {
	raw, exists := payload[key]
	if !exists {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return s
}
