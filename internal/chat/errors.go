package chat

import "errors"

var (
	// ErrEmptyMessage is returned when the user message is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRetrievalUnavailable is returned when the evidence backend errored.
	// The empty-result retry does not apply to errors, only to zero results.
	ErrRetrievalUnavailable = errors.New("retrieval backend unavailable")

	// ErrGenerationUnavailable is returned when every generation provider
	// failed or timed out.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
)
