package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/model"
)

func TestHandle(t *testing.T) {
	ctx := context.Background()
	sc := model.Scope{UserID: "u-1", Username: "tester", Role: "employee"}
	ragPolicy := model.RouteDecision{Route: model.RouteRAGEvidence, Domain: model.DomainPolicy, Confidence: 90}

	t.Run("Empty Message Error", func(t *testing.T) {
		uc := newTestUseCase(t, ragPolicy, &mockEvidenceRepo{}, &mockRecordsRepo{}, &mockGenerator{}, testGuard())
		_, err := uc.Handle(ctx, sc, chat.Input{Message: "   "})
		if !errors.Is(err, chat.ErrEmptyMessage) {
			t.Errorf("expected ErrEmptyMessage, got %v", err)
		}
	})

	t.Run("Annual Leave Question Full Pass", func(t *testing.T) {
		ev := &mockEvidenceRepo{
			searchFunc: func(opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
				return []model.Evidence{
					{ID: "doc-1", Title: "연차휴가 관리 규정", Snippet: "연차는 입사 1년 차에 15일 부여된다.", Score: 0.85, Domain: model.DomainPolicy},
				}, nil
			},
		}
		gen := &mockGenerator{text: "연차는 입사 1년 차에 15일 부여됩니다."}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 규정 알려줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Route != model.RouteRAGEvidence || out.Domain != model.DomainPolicy {
			t.Errorf("got %s/%s, want RAG_EVIDENCE/POLICY", out.Route, out.Domain)
		}
		if out.GuardReason != chat.ReasonNone {
			t.Errorf("guard reason = %s, want none", out.GuardReason)
		}
		if len(out.Sources) != 1 || out.Sources[0].ID != "doc-1" {
			t.Errorf("sources = %+v, want the full kept list", out.Sources)
		}
		if len(ev.calls) != 1 {
			t.Errorf("search calls = %d, want 1 (no retry on non-empty results)", len(ev.calls))
		}
		// Strong evidence means no hedging instruction in the prompt.
		system := gen.reqs[0].SystemInstruction.Parts[0].Text
		if strings.Contains(system, PromptSafetyInstruction) {
			t.Error("safety instruction injected despite PASSED evidence")
		}
	})

	t.Run("Empty Results Retry Then Hedge", func(t *testing.T) {
		ev := &mockEvidenceRepo{}
		gen := &mockGenerator{text: "일반적으로 연차는 근속 연수에 따라 늘어납니다."}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 이월 기준 알려줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ev.calls) != 2 {
			t.Errorf("search calls = %d, want 2 (initial + one widened retry)", len(ev.calls))
		}
		if out.GuardReason != chat.ReasonNoEvidence {
			t.Errorf("guard reason = %s, want no_evidence", out.GuardReason)
		}
		if len(out.Sources) != 0 {
			t.Errorf("sources = %+v, want none", out.Sources)
		}
		if !strings.Contains(out.Answer, "일반적으로") {
			t.Errorf("hedged answer replaced in permissive mode: %q", out.Answer)
		}
		system := gen.reqs[0].SystemInstruction.Parts[0].Text
		if !strings.Contains(system, PromptSafetyInstruction) {
			t.Error("safety instruction missing with empty evidence")
		}
	})

	t.Run("Safety Instruction Identical Across Routes", func(t *testing.T) {
		routes := []model.RouteDecision{
			{Route: model.RouteRAGEvidence, Domain: model.DomainPolicy},
			{Route: model.RouteMixed, Domain: model.DomainPolicy},
			{Route: model.RouteBackendLookup, Domain: model.DomainEducation},
		}

		var systems []string
		for _, decision := range routes {
			gen := &mockGenerator{text: "답변입니다."}
			uc := newTestUseCase(t, decision, &mockEvidenceRepo{}, &mockRecordsRepo{}, gen, testGuard())
			if _, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 이월 기준 알려줘"}); err != nil {
				t.Fatalf("route %s: unexpected error: %v", decision.Route, err)
			}
			systems = append(systems, gen.reqs[0].SystemInstruction.Parts[0].Text)
		}

		if systems[0] != systems[1] || systems[0] != systems[2] {
			t.Errorf("system instruction differs across routes:\n%q\n%q\n%q", systems[0], systems[1], systems[2])
		}
		if !strings.Contains(systems[0], PromptSafetyInstruction) {
			t.Error("safety instruction missing from weak-evidence prompt")
		}
	})

	t.Run("Sources Subset Of Kept On Demotion", func(t *testing.T) {
		ev := &mockEvidenceRepo{
			searchFunc: func(opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
				return []model.Evidence{
					{ID: "1", Title: "출장 규정", Score: 0.40},
					{ID: "2", Title: "급여 규정", Score: 0.31},
					{ID: "3", Title: "복무 규정", Score: 0.22},
				}, nil
			},
		}
		gen := &mockGenerator{text: "일반적인 안내입니다."}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 기준 알려줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Sources) != 1 || out.Sources[0].ID != "1" {
			t.Errorf("sources = %+v, want exactly the single kept item", out.Sources)
		}
	})

	t.Run("Retrieval Failure Propagates", func(t *testing.T) {
		ev := &mockEvidenceRepo{
			searchFunc: func(opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
				return nil, errors.New("qdrant unreachable")
			},
		}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, &mockGenerator{text: "x"}, testGuard())

		_, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 규정 알려줘"})
		if !errors.Is(err, chat.ErrRetrievalUnavailable) {
			t.Errorf("expected ErrRetrievalUnavailable, got %v", err)
		}
	})

	t.Run("Generation Failure Propagates", func(t *testing.T) {
		ev := &mockEvidenceRepo{
			searchFunc: func(opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
				return []model.Evidence{{ID: "1", Title: "연차휴가 관리 규정", Score: 0.85}}, nil
			},
		}
		gen := &mockGenerator{err: errors.New("all providers failed")}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, gen, testGuard())

		_, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 규정 알려줘"})
		if !errors.Is(err, chat.ErrGenerationUnavailable) {
			t.Errorf("expected ErrGenerationUnavailable, got %v", err)
		}
	})

	t.Run("Backend Lookup Uses Record Context", func(t *testing.T) {
		rec := &mockRecordsRepo{
			record: model.TrainingRecord{
				UserID:          "u-1",
				OverallProgress: 60,
				PendingCourses: []model.CourseProgress{
					{CourseID: "c-2", Title: "개인정보보호 교육", Progress: 0, DueDate: "2026-09-30", MandateTag: "법정의무교육"},
				},
			},
		}
		gen := &mockGenerator{text: "미이수 과정은 개인정보보호 교육 1개입니다."}
		backend := model.RouteDecision{Route: model.RouteBackendLookup, Domain: model.DomainEducation}
		ev := &mockEvidenceRepo{}
		uc := newTestUseCase(t, backend, ev, rec, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "내 수강 현황 보여줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.calls != 1 {
			t.Errorf("records calls = %d, want 1", rec.calls)
		}
		if len(ev.calls) != 0 {
			t.Errorf("search calls = %d, want 0 on pure backend lookup", len(ev.calls))
		}
		if out.GuardReason != chat.ReasonNone {
			t.Errorf("guard reason = %s, want none", out.GuardReason)
		}
		prompt := gen.reqs[0].Messages[len(gen.reqs[0].Messages)-1].Parts[0].Text
		if !strings.Contains(prompt, "개인정보보호 교육") {
			t.Errorf("record context missing from prompt:\n%s", prompt)
		}
	})

	t.Run("Records Failure Degrades Not Fails", func(t *testing.T) {
		rec := &mockRecordsRepo{err: errors.New("records API down")}
		gen := &mockGenerator{text: "기록을 확인하지 못했습니다. 교육 포털에서 직접 확인해 주세요."}
		backend := model.RouteDecision{Route: model.RouteBackendLookup, Domain: model.DomainEducation}
		uc := newTestUseCase(t, backend, &mockEvidenceRepo{}, rec, gen, testGuard())

		if _, err := uc.Handle(ctx, sc, chat.Input{Message: "내 수강 현황 보여줘"}); err != nil {
			t.Fatalf("records failure must not abort the pipeline: %v", err)
		}
	})

	t.Run("Static Routes Skip Generation", func(t *testing.T) {
		tests := []struct {
			name     string
			decision model.RouteDecision
			contains string
		}{
			{
				name:     "System Help",
				decision: model.RouteDecision{Route: model.RouteSystemHelp, Domain: model.DomainGeneral},
				contains: "질문할 수 있습니다",
			},
			{
				name:     "Out Of Scope",
				decision: model.RouteDecision{Route: model.RouteOutOfScope, Domain: model.DomainGeneral},
				contains: "규정과 교육 관련 질문만",
			},
			{
				name: "Clarify",
				decision: model.RouteDecision{
					Route: model.RouteClarify, Domain: model.DomainPolicy,
					Clarification: "사내 규정, 교육 과정 중 어느 쪽에 대한 질문인가요?",
				},
				contains: "어느 쪽에 대한 질문인가요?",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				gen := &mockGenerator{text: "unused"}
				uc := newTestUseCase(t, tc.decision, &mockEvidenceRepo{}, &mockRecordsRepo{}, gen, testGuard())

				out, err := uc.Handle(ctx, sc, chat.Input{Message: "질문입니다"})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(gen.reqs) != 0 {
					t.Error("generation port must not be called on static routes")
				}
				if !strings.Contains(out.Answer, tc.contains) {
					t.Errorf("answer = %q, want it to contain %q", out.Answer, tc.contains)
				}
				if out.GuardReason != chat.ReasonNone {
					t.Errorf("guard reason = %s, want none for observability", out.GuardReason)
				}
				if out.Route != tc.decision.Route {
					t.Errorf("route = %s, want %s", out.Route, tc.decision.Route)
				}
			})
		}
	})

	t.Run("Citation Without Evidence Recorded", func(t *testing.T) {
		gen := &mockGenerator{text: "취업규칙 제12조에 따라 연차는 15일입니다."}
		ev := &mockEvidenceRepo{}
		uc := newTestUseCase(t, ragPolicy, ev, &mockRecordsRepo{}, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "연차휴가 일수 알려줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.GuardReason != chat.ReasonCitationUnsupported {
			t.Errorf("guard reason = %s, want citation_unsupported", out.GuardReason)
		}
		if !strings.Contains(out.Answer, "제12조") {
			t.Errorf("answer must still be returned in permissive mode: %q", out.Answer)
		}
	})

	t.Run("PII Masked In Prompt And Restored In Answer", func(t *testing.T) {
		gen := &mockGenerator{text: "[전화번호] 번호로 등록된 교육 기록이 없습니다."}
		backend := model.RouteDecision{Route: model.RouteBackendLookup, Domain: model.DomainEducation}
		uc := newTestUseCase(t, backend, &mockEvidenceRepo{}, &mockRecordsRepo{}, gen, testGuard())

		out, err := uc.Handle(ctx, sc, chat.Input{Message: "010-1234-5678로 등록된 내 수강 현황 보여줘"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.PIIDetected {
			t.Error("PIIDetected = false, want true")
		}
		prompt := gen.reqs[0].Messages[0].Parts[0].Text
		if strings.Contains(prompt, "010-1234-5678") {
			t.Errorf("raw phone number leaked into the prompt:\n%s", prompt)
		}
		if !strings.Contains(out.Answer, "010-1234-5678") {
			t.Errorf("placeholder not restored in the answer: %q", out.Answer)
		}
	})
}
