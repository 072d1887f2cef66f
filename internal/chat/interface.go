package chat

import (
	"context"

	"policy-training-assistant/internal/model"
)

// UseCase defines the business logic interface for the chat domain.
type UseCase interface {
	// Handle runs one message through the full pipeline: PII masking, route
	// classification, retrieval with relevance gating, guarded generation,
	// and response assembly.
	Handle(ctx context.Context, sc model.Scope, input Input) (Output, error)
}
