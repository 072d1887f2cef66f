package pii

// Boundary is the PII filter applied once on the incoming user message and
// once on the outgoing answer. Implementations are per-request: Unmask
// restores what the same instance masked and passes unknown text through.
type Boundary interface {
	// Mask replaces detected PII with fixed placeholder tokens and reports
	// whether anything was detected.
	Mask(text string) (string, bool)

	// Unmask restores previously masked values where their placeholders
	// survived generation; text without placeholders passes through.
	Unmask(text string) string
}

// Factory builds a fresh Boundary per request.
type Factory interface {
	New() Boundary
}
