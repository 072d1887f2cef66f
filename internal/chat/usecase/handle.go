package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
	"policy-training-assistant/internal/pii"
	"policy-training-assistant/internal/router"
)

// Handle runs one message through the pipeline. Within the request the
// steps are sequential because each depends on the prior step's output:
// mask, classify, normalize, retrieve, gate, guarded generation, unmask,
// assemble.
func (uc *implUseCase) Handle(ctx context.Context, sc model.Scope, input chat.Input) (chat.Output, error) {
	start := time.Now()

	if strings.TrimSpace(input.Message) == "" {
		return chat.Output{}, chat.ErrEmptyMessage
	}

	boundary := uc.piiFactory.New()
	masked, piiDetected := boundary.Mask(input.Message)
	if piiDetected {
		uc.l.Infof(ctx, "Handle: PII masked on input for user=%s", sc.UserID)
	}

	classifyStart := time.Now()
	decision := uc.router.Classify(ctx, masked, historyLines(input.History), router.Hint{
		Role:   sc.Role,
		Domain: input.DomainHint,
	})
	var timings chat.Timings
	timings.ClassifyMS = time.Since(classifyStart).Milliseconds()

	uc.l.Infof(ctx, "Handle: user=%s route=%s domain=%s", sc.UserID, decision.Route, decision.Domain)

	switch decision.Route {
	case model.RouteSystemHelp:
		return staticOutput(decision, AnswerSystemHelp, piiDetected, timings, start), nil
	case model.RouteOutOfScope:
		return staticOutput(decision, AnswerOutOfScope, piiDetected, timings, start), nil
	case model.RouteClarify:
		if decision.Clarification == "" {
			decision.Clarification = ClarifyFallback
		}
		return staticOutput(decision, decision.Clarification, piiDetected, timings, start), nil
	}

	return uc.respondGenerated(ctx, sc, decision, masked, input.History, boundary, piiDetected, timings, start)
}

// respondGenerated covers the routes that reach the generation port:
// RAG_EVIDENCE, MIXED, BACKEND_LOOKUP and GENERATIVE_ONLY.
func (uc *implUseCase) respondGenerated(
	ctx context.Context,
	sc model.Scope,
	decision model.RouteDecision,
	masked string,
	history []model.ChatTurn,
	boundary pii.Boundary,
	piiDetected bool,
	timings chat.Timings,
	start time.Time,
) (chat.Output, error) {
	outcome := chat.GateOutcome{Verdict: chat.VerdictEmptyInput}
	if decision.NeedsEvidence() {
		normalized := uc.normalizer.Normalize(masked)
		anchors := uc.anchors.Extract(masked)

		retrieveStart := time.Now()
		var err error
		outcome, err = uc.retrieve(ctx, normalized, anchors, decision.Domain)
		timings.RetrieveMS = time.Since(retrieveStart).Milliseconds()
		if err != nil {
			return chat.Output{}, err
		}
	}

	var record *model.TrainingRecord
	if decision.NeedsBackend() {
		rec, err := uc.recordsRepo.GetTrainingRecord(ctx, sc.UserID)
		if err != nil {
			// The record is supporting context, not the evidence base; a
			// failed lookup degrades to a hedged answer.
			uc.l.Warnf(ctx, "Handle: records lookup failed for user %s: %v", sc.UserID, err)
		} else {
			record = &rec
		}
	}

	safety := safetyInstruction(decision.Route, outcome)

	generateStart := time.Now()
	resp, err := uc.llm.GenerateContent(ctx, buildRequest(masked, history, record, outcome, safety))
	timings.GenerateMS = time.Since(generateStart).Milliseconds()
	if err != nil {
		return chat.Output{}, fmt.Errorf("%w: %v", chat.ErrGenerationUnavailable, err)
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return chat.Output{}, fmt.Errorf("%w: empty completion", chat.ErrGenerationUnavailable)
	}

	verdict := uc.postCheck(ctx, answer, decision, outcome, masked)
	verdict.FinalText = boundary.Unmask(verdict.FinalText)

	timings.TotalMS = time.Since(start).Milliseconds()
	return assemble(decision, verdict, outcome.Kept, piiDetected, timings), nil
}

func staticOutput(decision model.RouteDecision, answer string, piiDetected bool, timings chat.Timings, start time.Time) chat.Output {
	timings.TotalMS = time.Since(start).Milliseconds()
	verdict := chat.GuardVerdict{Allow: true, FinalText: answer, Reason: chat.ReasonNone}
	return assemble(decision, verdict, nil, piiDetected, timings)
}

func historyLines(history []model.ChatTurn) []string {
	if len(history) == 0 {
		return nil
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return lines
}
