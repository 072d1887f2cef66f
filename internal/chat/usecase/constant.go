package usecase

// Generation parameters
const (
	GenerateTemperature = 0.3 // Lower temperature for factual answers
	GenerateMaxTokens   = 1024

	MaxEvidenceChars = 800 // Truncate each snippet to keep the prompt bounded
)

// System persona for every generated answer.
const PromptPersona = `당신은 사내 규정과 교육 내용을 안내하는 어시스턴트입니다.
- 제공된 근거와 기록에 있는 내용만 사실로 전달하세요.
- 근거에 없는 내용은 지어내지 말고 모른다고 말하세요.
- 한국어로 간결하고 명확하게 답변하세요.`

// PromptSafetyInstruction is injected when evidence is weak or absent. It
// must be byte-identical on every route that reaches generation with weak
// evidence; an earlier version applied it to only one route and let the
// others assert authority they did not have.
const PromptSafetyInstruction = `주의: 현재 검색된 근거가 약하거나 없습니다.
- 특정 조항 번호(예: 제12조)나 "회사 규정상"과 같은 단정적 표현을 사용하지 마세요.
- "일반적으로", "조직마다 다를 수 있습니다"와 같은 일반론적 표현으로 답변하세요.
- 평서문은 사용해도 됩니다. 답변 자체를 거부할 필요는 없습니다.`

// Prompt section headers
const (
	PromptEvidenceHeader = "참고 근거 (관련도 순):"
	PromptRecordHeader   = "본인 교육 이수 기록:"
)

// Canned answers for routes that skip generation.
const (
	AnswerSystemHelp = `사내 규정, 교육 과정, 보안 사고 대응 절차에 대해 질문할 수 있습니다.
예시: "연차휴가 규정 알려줘", "내 법정교육 이수 현황 보여줘", "보안 사고 신고 절차가 궁금해요".`

	AnswerOutOfScope = `죄송합니다. 사내 규정과 교육 관련 질문만 도와드릴 수 있습니다.`

	ClarifyFallback = `어떤 분야에 대한 질문인지 조금 더 구체적으로 말씀해 주시겠어요?`
)

// AnswerNoEvidence replaces the generated answer in strict mode when an
// evidence-seeking route found nothing.
const AnswerNoEvidence = `해당 내용에 대한 근거 문서를 찾지 못했습니다. 정확한 안내를 위해 담당 부서에 문의해 주세요.`

// ContactSuffixFormat appends the responsible department when evidence is
// missing for a domain.
const ContactSuffixFormat = "\n\n자세한 내용은 %s에 문의해 주세요."
