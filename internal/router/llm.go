package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"policy-training-assistant/internal/model"
	"policy-training-assistant/pkg/llmprovider"
)

// classifyLLM asks the provider manager for a structured decision. Any
// failure here is reported back so the caller can fall back to rules.
func (r *SemanticRouter) classifyLLM(ctx context.Context, message string, history []string) (model.RouteDecision, error) {
	historyContext := ""
	if len(history) > 0 {
		historyContext = PromptHistoryPrefix
		for i, msg := range history {
			historyContext += fmt.Sprintf("%d. %s\n", i+1, msg)
		}
		historyContext += "\n"
	}

	prompt := historyContext + fmt.Sprintf(PromptClassifySystem, message)

	resp, err := r.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: prompt}}},
		},
		Temperature: ClassifyTemperature,
		MaxTokens:   ClassifyMaxTokens,
	})
	if err != nil {
		return model.RouteDecision{}, fmt.Errorf("%s: %w", ErrMsgLLMCallFailed, err)
	}

	text := stripCodeFences(resp.Text())
	if text == "" {
		return model.RouteDecision{}, fmt.Errorf("%s", ErrMsgEmptyResponse)
	}

	var out llmOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return model.RouteDecision{}, fmt.Errorf("%s: %w", ErrMsgJSONParseFailed, err)
	}

	route, ok := normalizeRoute(out.Route)
	if !ok {
		return model.RouteDecision{}, fmt.Errorf("%s: %q", ErrMsgUnknownRoute, out.Route)
	}

	decision := model.RouteDecision{
		Route:      route,
		Domain:     normalizeDomain(out.Domain),
		Confidence: out.Confidence,
		Reasoning:  out.Reasoning,
	}
	if route == model.RouteClarify {
		decision.Clarification = strings.TrimSpace(out.Clarification)
	}
	return decision, nil
}

// stripCodeFences removes a surrounding markdown block (```json ... ```)
// that some providers wrap JSON output in.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

func normalizeRoute(raw string) (model.Route, bool) {
	switch model.Route(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.RouteRAGEvidence:
		return model.RouteRAGEvidence, true
	case model.RouteBackendLookup:
		return model.RouteBackendLookup, true
	case model.RouteMixed:
		return model.RouteMixed, true
	case model.RouteGenerativeOnly:
		return model.RouteGenerativeOnly, true
	case model.RouteClarify:
		return model.RouteClarify, true
	case model.RouteSystemHelp:
		return model.RouteSystemHelp, true
	case model.RouteOutOfScope:
		return model.RouteOutOfScope, true
	}
	return "", false
}

func normalizeDomain(raw string) model.Domain {
	switch model.Domain(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.DomainPolicy:
		return model.DomainPolicy
	case model.DomainEducation:
		return model.DomainEducation
	case model.DomainIncident:
		return model.DomainIncident
	}
	return model.DomainGeneral
}
