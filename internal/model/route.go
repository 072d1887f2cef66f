package model

// Route is the closed set of processing routes a message can take.
type Route string

const (
	RouteRAGEvidence    Route = "RAG_EVIDENCE"    // Answer from retrieved evidence
	RouteBackendLookup  Route = "BACKEND_LOOKUP"  // Answer from the user's own backend record
	RouteMixed          Route = "MIXED"           // Backend record + retrieved evidence
	RouteGenerativeOnly Route = "GENERATIVE_ONLY" // In-scope small talk, no retrieval
	RouteClarify        Route = "CLARIFY"         // Ambiguous between domains, ask back
	RouteSystemHelp     Route = "SYSTEM_HELP"     // Usage / capability question
	RouteOutOfScope     Route = "OUT_OF_SCOPE"    // Unrelated content
)

// Domain is the coarse content category a question belongs to.
type Domain string

const (
	DomainPolicy    Domain = "POLICY"
	DomainEducation Domain = "EDUCATION"
	DomainIncident  Domain = "INCIDENT"
	DomainGeneral   Domain = "GENERAL"
)

// AllDomains lists every domain that must have a collection-scope and
// contact mapping at startup.
var AllDomains = []Domain{DomainPolicy, DomainEducation, DomainIncident, DomainGeneral}

// RouteDecision is the immutable classification result for one turn.
type RouteDecision struct {
	Route         Route
	Domain        Domain
	Clarification string // Populated only for RouteClarify
	Confidence    int    // 0-100, informational
	Reasoning     string // Why this route was chosen (for logs)
}

// NeedsEvidence reports whether the route triggers retrieval.
func (d RouteDecision) NeedsEvidence() bool {
	return d.Route == RouteRAGEvidence || d.Route == RouteMixed
}

// NeedsBackend reports whether the route triggers a backend record lookup.
func (d RouteDecision) NeedsBackend() bool {
	return d.Route == RouteBackendLookup || d.Route == RouteMixed
}
