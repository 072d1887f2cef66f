package router

// Log prefixes
const (
	LogPrefixClassify = "internal.router.Classify"
)

// Classifier prompt
const (
	PromptClassifySystem = `당신은 사내 규정/교육 안내 챗봇의 라우터입니다. 아래 메시지를 분석하여 처리 경로를 하나만 선택하세요.

메시지: "%s"

가능한 route:
1. RAG_EVIDENCE: 사내 규정, 교육 내용, 사고 대응 절차 등 문서 근거가 필요한 질문
2. BACKEND_LOOKUP: 본인의 교육 이수 현황, 수강 기록 등 개인 기록 조회
3. MIXED: 개인 기록 조회와 문서 근거가 모두 필요한 질문
4. GENERATIVE_ONLY: 인사, 감사 표현 등 업무 범위 내의 일상 대화
5. CLARIFY: 둘 이상의 분야에 걸쳐 모호하여 되물어야 하는 질문
6. SYSTEM_HELP: 챗봇 사용법이나 기능에 대한 질문
7. OUT_OF_SCOPE: 업무와 무관한 내용

가능한 domain: POLICY(인사/규정), EDUCATION(교육/연수), INCIDENT(보안사고/장애), GENERAL(기타)

JSON으로만 응답하세요:
{
  "route": "RAG_EVIDENCE|BACKEND_LOOKUP|MIXED|GENERATIVE_ONLY|CLARIFY|SYSTEM_HELP|OUT_OF_SCOPE",
  "domain": "POLICY|EDUCATION|INCIDENT|GENERAL",
  "clarification": "route가 CLARIFY일 때만 되물을 질문",
  "confidence": 0-100,
  "reasoning": "짧은 근거"
}`

	PromptHistoryPrefix = "최근 대화:\n"
)

// Classifier configuration
const (
	ClassifyTemperature = 0.1
	ClassifyMaxTokens   = 512

	FallbackConfidence = 50
)

// Error messages
const (
	ErrMsgLLMCallFailed   = "LLM call failed, falling back to rules"
	ErrMsgEmptyResponse   = "empty LLM response"
	ErrMsgJSONParseFailed = "failed to parse classifier JSON"
	ErrMsgUnknownRoute    = "classifier returned unknown route"
)

// Fallback reasons
const (
	ReasonRuleFallback  = "Rule-based fallback after classifier failure"
	ReasonUnclassified  = "No rule matched, defaulting to conversational handling"
	ReasonEmptyMessage  = "Empty message"
	ReasonCacheHit     = "cache"
)
