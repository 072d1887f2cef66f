package chat

import (
	"policy-training-assistant/internal/model"
)

// Input is one user turn entering the pipeline.
type Input struct {
	Message    string
	DomainHint model.Domain     // Optional caller-side domain guess
	History    []model.ChatTurn // Prior turns, caller-supplied, may be empty
}

// Output is the outbound contract: answer text, surviving evidence, and
// routing/guard metadata. Sources is exactly the evidence that survived the
// low-relevance gate, never rejected items.
type Output struct {
	Answer        string
	Sources       []model.Evidence
	Route         model.Route
	Domain        model.Domain
	GuardReason   ReasonCode
	Clarification string // Populated only on the CLARIFY route
	PIIDetected   bool
	Timings       Timings
}

// Timings is the per-request latency breakdown in milliseconds.
type Timings struct {
	ClassifyMS int64
	RetrieveMS int64
	GenerateMS int64
	TotalMS    int64
}

// GateVerdict is the low-relevance gate's judgement over retrieved evidence.
type GateVerdict string

const (
	// VerdictPassed means both gates passed; all evidence is kept.
	VerdictPassed GateVerdict = "PASSED"

	// VerdictSoftDemotedScore means every score fell below the threshold;
	// only the single best item is kept.
	VerdictSoftDemotedScore GateVerdict = "SOFT_DEMOTED_SCORE"

	// VerdictSoftDemotedAnchor means no anchor keyword appeared in any
	// evidence text; only the single best item is kept.
	VerdictSoftDemotedAnchor GateVerdict = "SOFT_DEMOTED_ANCHOR"

	// VerdictEmptyInput means retrieval returned nothing even after the
	// widened retry.
	VerdictEmptyInput GateVerdict = "EMPTY_INPUT"
)

// GateOutcome is the gate's result. If the gate's input was non-empty, Kept
// holds at least one item; Kept is empty only for VerdictEmptyInput.
type GateOutcome struct {
	Kept    []model.Evidence
	Verdict GateVerdict
}

// Weak reports whether the guard must treat the evidence as unreliable.
func (g GateOutcome) Weak() bool {
	return g.Verdict != VerdictPassed || len(g.Kept) == 0
}

// ReasonCode is the closed set of guard reason codes.
type ReasonCode string

const (
	ReasonNone                ReasonCode = "none"
	ReasonNoEvidence          ReasonCode = "no_evidence"
	ReasonCitationUnsupported ReasonCode = "citation_unsupported"
)

// GuardVerdict is the post-generation check result. Allow is false only in
// strict mode, where FinalText already carries the replacement template.
type GuardVerdict struct {
	Allow     bool
	FinalText string
	Reason    ReasonCode
}
