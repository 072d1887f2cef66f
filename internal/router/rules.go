package router

import (
	"fmt"
	"sort"
	"strings"

	"policy-training-assistant/internal/model"
)

// Trigger vocabularies for the rule-based classifier. Matching is
// case-insensitive substring matching on the trimmed message.
var (
	systemHelpTriggers = []string{
		"사용법", "도움말", "어떻게 사용", "무엇을 할 수", "뭘 할 수", "어떤 기능",
		"무슨 기능", "help",
	}

	// Self-reference plus a record word means the user is asking about
	// their own backend record, not about documents.
	selfTokens = []string{"내 ", "제 ", "나의 ", "저의 ", "본인"}

	recordTokens = []string{
		"이수 현황", "이수현황", "수강 현황", "수강현황", "진도", "수강 기록",
		"이수 기록", "미이수", "수료 여부", "수료했", "이수했", "들었는지",
	}

	domainTokens = map[model.Domain][]string{
		model.DomainPolicy: {
			"규정", "정책", "취업규칙", "휴가", "연차", "급여", "수당", "복리후생",
			"징계", "근태", "출장", "경조사", "퇴직",
		},
		model.DomainEducation: {
			"교육", "법정교육", "법정 교육", "연수", "강의", "훈련", "커리큘럼",
			"수강", "이수",
		},
		model.DomainIncident: {
			"사고", "침해", "유출", "보안사고", "보안 사고", "장애", "신고 절차",
			"대응 절차",
		},
	}

	smallTalkTokens = []string{
		"안녕", "고마워", "감사합니다", "감사해요", "수고", "반가워", "잘 지내",
		"hello", "hi", "thanks", "thank you",
	}

	offScopeTokens = []string{
		"주식", "날씨", "로또", "연예인", "스포츠", "요리", "게임", "영화",
		"맛집", "여행지",
	}
)

// ruleClassifier is the deterministic fallback path. It never fails.
type ruleClassifier struct{}

func (rc *ruleClassifier) classify(message string, hint Hint) model.RouteDecision {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return model.RouteDecision{
			Route:      model.RouteGenerativeOnly,
			Domain:     model.DomainGeneral,
			Confidence: FallbackConfidence,
			Reasoning:  ReasonEmptyMessage,
		}
	}

	if matchAny(msg, systemHelpTriggers) {
		return model.RouteDecision{
			Route:      model.RouteSystemHelp,
			Domain:     model.DomainGeneral,
			Confidence: 90,
			Reasoning:  "System help trigger matched",
		}
	}

	backend := matchAny(msg, selfTokens) && matchAny(msg, recordTokens)
	domains, counts := matchedDomains(msg)

	if backend {
		// Record words overlap the education vocabulary, so an education
		// hit alone does not promote to MIXED. A distinct document domain
		// alongside the record pattern does.
		for _, d := range domains {
			if d != model.DomainEducation {
				return model.RouteDecision{
					Route:      model.RouteMixed,
					Domain:     d,
					Confidence: 80,
					Reasoning:  "Own-record pattern with a document domain signal",
				}
			}
		}
		return model.RouteDecision{
			Route:      model.RouteBackendLookup,
			Domain:     model.DomainEducation,
			Confidence: 80,
			Reasoning:  "Own-record pattern matched",
		}
	}

	// A clear winner is not ambiguous even if a second domain had a
	// single stray token hit.
	if len(domains) >= 2 && counts[0] >= counts[1]+2 {
		domains = domains[:1]
	}

	if len(domains) >= 2 {
		// A caller-side domain hint resolves the tie without asking back.
		if hint.Domain != "" {
			for _, d := range domains {
				if d == hint.Domain {
					return model.RouteDecision{
						Route:      model.RouteRAGEvidence,
						Domain:     d,
						Confidence: 70,
						Reasoning:  "Ambiguous domains resolved by caller hint",
					}
				}
			}
		}
		return model.RouteDecision{
			Route:         model.RouteClarify,
			Domain:        domains[0],
			Clarification: clarifyQuestion(domains),
			Confidence:    60,
			Reasoning:     "Comparable signal across multiple domains",
		}
	}

	if len(domains) == 1 {
		return model.RouteDecision{
			Route:      model.RouteRAGEvidence,
			Domain:     domains[0],
			Confidence: 85,
			Reasoning:  "Single domain signal matched",
		}
	}

	if matchAny(msg, smallTalkTokens) {
		return model.RouteDecision{
			Route:      model.RouteGenerativeOnly,
			Domain:     model.DomainGeneral,
			Confidence: 85,
			Reasoning:  "In-scope small talk",
		}
	}

	if matchAny(msg, offScopeTokens) {
		return model.RouteDecision{
			Route:      model.RouteOutOfScope,
			Domain:     model.DomainGeneral,
			Confidence: 80,
			Reasoning:  "Off-domain content signal matched",
		}
	}

	return model.RouteDecision{
		Route:      model.RouteGenerativeOnly,
		Domain:     model.DomainGeneral,
		Confidence: FallbackConfidence,
		Reasoning:  ReasonUnclassified,
	}
}

func matchAny(msg string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}

// matchedDomains returns domains with at least one token hit and their
// hit counts, strongest first. Ties break on a fixed domain order so
// results are stable.
func matchedDomains(msg string) ([]model.Domain, []int) {
	order := map[model.Domain]int{
		model.DomainPolicy:    0,
		model.DomainEducation: 1,
		model.DomainIncident:  2,
	}

	type hit struct {
		domain model.Domain
		count  int
	}
	var hits []hit
	for domain, tokens := range domainTokens {
		count := 0
		for _, t := range tokens {
			if strings.Contains(msg, t) {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, hit{domain: domain, count: count})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return order[hits[i].domain] < order[hits[j].domain]
	})

	domains := make([]model.Domain, 0, len(hits))
	counts := make([]int, 0, len(hits))
	for _, h := range hits {
		domains = append(domains, h.domain)
		counts = append(counts, h.count)
	}
	return domains, counts
}

func clarifyQuestion(domains []model.Domain) string {
	names := map[model.Domain]string{
		model.DomainPolicy:    "사내 규정",
		model.DomainEducation: "교육 과정",
		model.DomainIncident:  "보안 사고 대응",
	}
	labels := make([]string, 0, len(domains))
	for _, d := range domains {
		if n, ok := names[d]; ok {
			labels = append(labels, n)
		}
	}
	return fmt.Sprintf("%s 중 어느 쪽에 대한 질문인가요?", strings.Join(labels, ", "))
}
