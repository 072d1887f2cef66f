package http

import (
	"errors"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
)

// AnswerDegraded is returned to the end user when a required upstream
// dependency is unavailable. Raw errors never leak to the user.
const AnswerDegraded = `죄송합니다. 지금은 답변을 드릴 수 없습니다. 잠시 후 다시 시도해 주세요.`

// degradedResp builds the templated apology with empty evidence for
// upstream failures.
func degradedResp(route model.Route) chatResp {
	return chatResp{
		Answer:      AnswerDegraded,
		Sources:     []sourceResp{},
		Route:       string(route),
		Domain:      string(model.DomainGeneral),
		GuardReason: string(chat.ReasonNone),
	}
}

// isUpstreamFailure reports whether the error represents genuine
// unavailability of a required dependency.
func isUpstreamFailure(err error) bool {
	return errors.Is(err, chat.ErrRetrievalUnavailable) ||
		errors.Is(err, chat.ErrGenerationUnavailable)
}
