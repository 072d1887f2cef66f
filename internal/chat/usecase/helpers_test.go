package usecase

import (
	"context"
	"testing"

	"policy-training-assistant/config"
	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/model"
	"policy-training-assistant/internal/pii"
	"policy-training-assistant/internal/query"
	"policy-training-assistant/internal/router"
	"policy-training-assistant/pkg/llmprovider"
)

// Mock logger for testing
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

// fixedRouter always returns one preset decision.
type fixedRouter struct {
	decision model.RouteDecision
}

func (f *fixedRouter) Classify(ctx context.Context, message string, history []string, hint router.Hint) model.RouteDecision {
	return f.decision
}

// mockEvidenceRepo records every search call.
type mockEvidenceRepo struct {
	searchFunc func(opt repository.SearchEvidenceOptions) ([]model.Evidence, error)
	calls      []repository.SearchEvidenceOptions
}

func (m *mockEvidenceRepo) SearchEvidence(ctx context.Context, opt repository.SearchEvidenceOptions) ([]model.Evidence, error) {
	m.calls = append(m.calls, opt)
	if m.searchFunc != nil {
		return m.searchFunc(opt)
	}
	return nil, nil
}

type mockRecordsRepo struct {
	record model.TrainingRecord
	err    error
	calls  int
}

func (m *mockRecordsRepo) GetTrainingRecord(ctx context.Context, userID string) (model.TrainingRecord, error) {
	m.calls++
	if m.err != nil {
		return model.TrainingRecord{}, m.err
	}
	return m.record, nil
}

// mockGenerator records every generation request.
type mockGenerator struct {
	text string
	err  error
	reqs []*llmprovider.Request
}

func (m *mockGenerator) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{
		Content: llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: m.text}}},
	}, nil
}

func testKeywords(t *testing.T) config.KeywordConfig {
	t.Helper()
	kw, err := config.NewKeywordConfig(
		[]string{"규정", "정책", "내용", "the", "of"},
		[]string{"알려줘", "알려주세요", "보여줘", "summarize", "please"},
		`(알려줘|알려주세요|해줘|해주세요|summarize|for-me|me)$`,
		[]string{"[이름]", "[전화번호]", "[이메일]", "[주민등록번호]", "[계좌번호]"},
		2,
	)
	if err != nil {
		t.Fatalf("failed to build keyword config: %v", err)
	}
	return kw
}

func testRetrieval() config.RetrievalConfig {
	return config.RetrievalConfig{
		DefaultK:       5,
		RetryK:         10,
		ScoreThreshold: 0.55,
		Scopes: map[model.Domain]string{
			model.DomainPolicy:    "internal-regulations",
			model.DomainEducation: "training-content",
			model.DomainIncident:  "incident-reports",
			model.DomainGeneral:   "general-notices",
		},
	}
}

func testGuard() config.GuardConfig {
	return config.GuardConfig{
		StrictAnswerability: false,
		DomainContacts: map[model.Domain]string{
			model.DomainPolicy:    "인사팀",
			model.DomainEducation: "교육운영팀",
			model.DomainIncident:  "정보보안팀",
			model.DomainGeneral:   "총무팀",
		},
		TopicContacts: map[string]string{
			"연차":   "인사팀 근태파트",
			"법정교육": "교육운영팀",
		},
	}
}

func newTestUseCase(t *testing.T, decision model.RouteDecision, ev *mockEvidenceRepo, rec *mockRecordsRepo, gen *mockGenerator, guard config.GuardConfig) *implUseCase {
	t.Helper()
	kw := testKeywords(t)
	return New(
		&mockLogger{},
		&fixedRouter{decision: decision},
		gen,
		ev,
		rec,
		query.NewNormalizer(kw),
		query.NewAnchorExtractor(kw),
		pii.MaskerFactory{},
		testRetrieval(),
		guard,
	)
}
