package http

import (
	"strings"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
)

// --- Request DTOs ---

type turnReq struct {
	Role    string `json:"role"    binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type chatReq struct {
	UserID  string    `json:"user_id" binding:"required,min=1,max=64"`
	Role    string    `json:"role"    binding:"max=64"`
	Message string    `json:"message" binding:"required,max=4000"`
	Domain  string    `json:"domain"  binding:"omitempty,oneof=POLICY EDUCATION INCIDENT GENERAL"`
	History []turnReq `json:"history" binding:"max=20,dive"`
}

func (r chatReq) validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return chat.ErrEmptyMessage
	}
	return nil
}

func (r chatReq) toScope() model.Scope {
	return model.Scope{
		UserID: r.UserID,
		Role:   r.Role,
	}
}

func (r chatReq) toInput() chat.Input {
	history := make([]model.ChatTurn, 0, len(r.History))
	for _, turn := range r.History {
		history = append(history, model.ChatTurn{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return chat.Input{
		Message:    r.Message,
		DomainHint: model.Domain(r.Domain),
		History:    history,
	}
}

// --- Response DTOs ---

type sourceResp struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Snippet         string  `json:"snippet"`
	Score           float64 `json:"score"`
	StructuralLabel string  `json:"structural_label,omitempty"`
	StructuralPath  string  `json:"structural_path,omitempty"`
}

type timingsResp struct {
	ClassifyMS int64 `json:"classify_ms"`
	RetrieveMS int64 `json:"retrieve_ms"`
	GenerateMS int64 `json:"generate_ms"`
	TotalMS    int64 `json:"total_ms"`
}

type chatResp struct {
	Answer        string       `json:"answer"`
	Sources       []sourceResp `json:"sources"`
	Route         string       `json:"route"`
	Domain        string       `json:"domain"`
	GuardReason   string       `json:"guard_reason"`
	Clarification string       `json:"clarification,omitempty"`
	PIIDetected   bool         `json:"pii_detected"`
	Timings       timingsResp  `json:"timings"`
}

func (h *handler) newChatResp(out chat.Output) chatResp {
	sources := make([]sourceResp, 0, len(out.Sources))
	for _, ev := range out.Sources {
		sources = append(sources, sourceResp{
			ID:              ev.ID,
			Title:           ev.Title,
			Snippet:         ev.Snippet,
			Score:           ev.Score,
			StructuralLabel: ev.StructuralLabel,
			StructuralPath:  ev.StructuralPath,
		})
	}
	return chatResp{
		Answer:        out.Answer,
		Sources:       sources,
		Route:         string(out.Route),
		Domain:        string(out.Domain),
		GuardReason:   string(out.GuardReason),
		Clarification: out.Clarification,
		PIIDetected:   out.PIIDetected,
		Timings: timingsResp{
			ClassifyMS: out.Timings.ClassifyMS,
			RetrieveMS: out.Timings.RetrieveMS,
			GenerateMS: out.Timings.GenerateMS,
			TotalMS:    out.Timings.TotalMS,
		},
	}
}
