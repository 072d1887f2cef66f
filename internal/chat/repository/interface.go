package repository

import (
	"context"

	"policy-training-assistant/internal/model"
)

// EvidenceRepository is the retrieval port over the vector index. Search
// must be safe to call twice per request (initial attempt + widened retry).
type EvidenceRepository interface {
	SearchEvidence(ctx context.Context, opt SearchEvidenceOptions) ([]model.Evidence, error)
}

// RecordsRepository is the training-records backend used on the
// BACKEND_LOOKUP and MIXED routes.
type RecordsRepository interface {
	GetTrainingRecord(ctx context.Context, userID string) (model.TrainingRecord, error)
}
