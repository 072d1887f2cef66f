package router_test

import (
	"context"
	"errors"
	"testing"

	"policy-training-assistant/internal/model"
	"policy-training-assistant/internal/router"
	"policy-training-assistant/pkg/llmprovider"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llmprovider.Response{
		Content: llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: s.text}}},
	}, nil
}

func TestRuleClassification(t *testing.T) {
	r := router.New(nil, false, 0, &mockLogger{})
	ctx := context.Background()

	tests := []struct {
		name       string
		message    string
		hint       router.Hint
		wantRoute  model.Route
		wantDomain model.Domain
	}{
		{
			name:       "Policy Question",
			message:    "연차휴가 규정 알려줘",
			wantRoute:  model.RouteRAGEvidence,
			wantDomain: model.DomainPolicy,
		},
		{
			name:       "Education Question",
			message:    "법정교육 커리큘럼이 어떻게 되나요",
			wantRoute:  model.RouteRAGEvidence,
			wantDomain: model.DomainEducation,
		},
		{
			name:       "Incident Question",
			message:    "개인정보 유출 대응 절차가 궁금합니다",
			wantRoute:  model.RouteRAGEvidence,
			wantDomain: model.DomainIncident,
		},
		{
			name:       "Own Record",
			message:    "내 수강 현황 보여줘",
			wantRoute:  model.RouteBackendLookup,
			wantDomain: model.DomainEducation,
		},
		{
			name:       "Record Plus Policy",
			message:    "내 이수 현황이랑 법정교육 의무 규정 알려줘",
			wantRoute:  model.RouteMixed,
			wantDomain: model.DomainPolicy,
		},
		{
			name:      "System Help",
			message:   "이 챗봇 사용법 좀 알려줘",
			wantRoute: model.RouteSystemHelp,
		},
		{
			name:      "Small Talk",
			message:   "안녕하세요!",
			wantRoute: model.RouteGenerativeOnly,
		},
		{
			name:      "Off Scope",
			message:   "오늘 날씨 어때?",
			wantRoute: model.RouteOutOfScope,
		},
		{
			name:      "Empty Message",
			message:   "   ",
			wantRoute: model.RouteGenerativeOnly,
		},
		{
			name:      "Unclassifiable Defaults To Generative",
			message:   "음 그게 그러니까",
			wantRoute: model.RouteGenerativeOnly,
		},
		{
			name:       "Ambiguity Resolved By Hint",
			message:    "교육 중 발생한 사고 신고 절차",
			hint:       router.Hint{Domain: model.DomainIncident},
			wantRoute:  model.RouteRAGEvidence,
			wantDomain: model.DomainIncident,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Classify(ctx, tc.message, nil, tc.hint)
			if got.Route != tc.wantRoute {
				t.Errorf("route = %s, want %s (reasoning: %s)", got.Route, tc.wantRoute, got.Reasoning)
			}
			if tc.wantDomain != "" && got.Domain != tc.wantDomain {
				t.Errorf("domain = %s, want %s", got.Domain, tc.wantDomain)
			}
		})
	}
}

func TestRuleClassificationClarify(t *testing.T) {
	r := router.New(nil, false, 0, &mockLogger{})

	got := r.Classify(context.Background(), "교육 중 발생한 사고 신고 절차", nil, router.Hint{})
	if got.Route != model.RouteClarify {
		t.Fatalf("route = %s, want CLARIFY (reasoning: %s)", got.Route, got.Reasoning)
	}
	if got.Clarification == "" {
		t.Error("CLARIFY decision must carry a clarification question")
	}
}

func TestLLMClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid JSON", func(t *testing.T) {
		gen := &stubGenerator{text: `{"route":"RAG_EVIDENCE","domain":"POLICY","confidence":92,"reasoning":"규정 질문"}`}
		r := router.New(gen, true, 0, &mockLogger{})

		got := r.Classify(ctx, "연차휴가 규정 알려줘", nil, router.Hint{})
		if got.Route != model.RouteRAGEvidence || got.Domain != model.DomainPolicy {
			t.Errorf("got %s/%s, want RAG_EVIDENCE/POLICY", got.Route, got.Domain)
		}
		if got.Confidence != 92 {
			t.Errorf("confidence = %d, want 92", got.Confidence)
		}
	})

	t.Run("Fenced JSON", func(t *testing.T) {
		gen := &stubGenerator{text: "```json\n{\"route\":\"SYSTEM_HELP\",\"domain\":\"GENERAL\"}\n```"}
		r := router.New(gen, true, 0, &mockLogger{})

		got := r.Classify(ctx, "사용법", nil, router.Hint{})
		if got.Route != model.RouteSystemHelp {
			t.Errorf("route = %s, want SYSTEM_HELP", got.Route)
		}
	})

	t.Run("LLM Error Falls Back To Rules", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("provider down")}
		r := router.New(gen, true, 0, &mockLogger{})

		got := r.Classify(ctx, "연차휴가 규정 알려줘", nil, router.Hint{})
		if got.Route != model.RouteRAGEvidence || got.Domain != model.DomainPolicy {
			t.Errorf("fallback got %s/%s, want RAG_EVIDENCE/POLICY", got.Route, got.Domain)
		}
	})

	t.Run("Bad JSON Falls Back To Rules", func(t *testing.T) {
		gen := &stubGenerator{text: "not json at all"}
		r := router.New(gen, true, 0, &mockLogger{})

		got := r.Classify(ctx, "안녕하세요", nil, router.Hint{})
		if got.Route != model.RouteGenerativeOnly {
			t.Errorf("fallback route = %s, want GENERATIVE_ONLY", got.Route)
		}
	})

	t.Run("Unknown Route Falls Back To Rules", func(t *testing.T) {
		gen := &stubGenerator{text: `{"route":"SOMETHING_ELSE","domain":"POLICY"}`}
		r := router.New(gen, true, 0, &mockLogger{})

		got := r.Classify(ctx, "연차휴가 규정 알려줘", nil, router.Hint{})
		if got.Route != model.RouteRAGEvidence {
			t.Errorf("fallback route = %s, want RAG_EVIDENCE", got.Route)
		}
	})

	t.Run("Cache Skips Second Call", func(t *testing.T) {
		gen := &stubGenerator{text: `{"route":"RAG_EVIDENCE","domain":"POLICY"}`}
		r := router.New(gen, true, 8, &mockLogger{})

		r.Classify(ctx, "연차휴가 규정 알려줘", nil, router.Hint{})
		r.Classify(ctx, "연차휴가 규정 알려줘", nil, router.Hint{})
		if gen.calls != 1 {
			t.Errorf("generator calls = %d, want 1", gen.calls)
		}
	})

	t.Run("History Bypasses Cache", func(t *testing.T) {
		gen := &stubGenerator{text: `{"route":"RAG_EVIDENCE","domain":"POLICY"}`}
		r := router.New(gen, true, 8, &mockLogger{})

		history := []string{"아까 연차 얘기했잖아"}
		r.Classify(ctx, "그거 다시 알려줘", history, router.Hint{})
		r.Classify(ctx, "그거 다시 알려줘", history, router.Hint{})
		if gen.calls != 2 {
			t.Errorf("generator calls = %d, want 2", gen.calls)
		}
	})
}
