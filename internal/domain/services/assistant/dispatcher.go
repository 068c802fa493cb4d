package assistant

import (
	"context"

	"javis/internal/domain/models/assistant"
)

// Dispatcher forwards a conversation to the AI code-generation service.
type Dispatcher interface {
	// Dispatch posts the payload and returns the parsed answer.
	// Errors: *domain.UpstreamError for non-200 answers,
	// *domain.InvalidResponseShapeError and *domain.UnknownResponseKindError
	// for unusable 200 answers.
	Dispatch(ctx context.Context, req *assistant.DispatchRequest) (assistant.Response, error)
}
