package usecase

import (
	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
)

// assemble combines the final answer, surviving evidence, and routing/guard
// metadata into the outbound contract. Pure function: route, domain, and a
// guard reason (possibly "none") are always populated, including on the
// GENERATIVE_ONLY and OUT_OF_SCOPE paths, so observability never has gaps.
func assemble(decision model.RouteDecision, guard chat.GuardVerdict, kept []model.Evidence, piiDetected bool, timings chat.Timings) chat.Output {
	reason := guard.Reason
	if reason == "" {
		reason = chat.ReasonNone
	}

	return chat.Output{
		Answer:        guard.FinalText,
		Sources:       kept,
		Route:         decision.Route,
		Domain:        decision.Domain,
		GuardReason:   reason,
		Clarification: decision.Clarification,
		PIIDetected:   piiDetected,
		Timings:       timings,
	}
}
