package router

import "policy-training-assistant/internal/model"

// Hint carries optional caller-side signals into classification.
type Hint struct {
	Role   string       // Requester's role, informational only
	Domain model.Domain // Caller's domain guess, breaks ties between matched domains
}

// llmOutput is the structured response expected from the LLM classifier.
type llmOutput struct {
	Route         string `json:"route"`
	Domain        string `json:"domain"`
	Clarification string `json:"clarification"`
	Confidence    int    `json:"confidence"` // 0-100
	Reasoning     string `json:"reasoning"`
}
