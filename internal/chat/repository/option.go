package repository

import "policy-training-assistant/internal/model"

// SearchEvidenceOptions defines retrieval parameters for one attempt.
type SearchEvidenceOptions struct {
	Query  string       // Normalized query text
	Scope  string       // Collection resolved from the domain mapping
	Domain model.Domain // Tagged onto returned evidence
	Limit  int          // Top-K results
}
