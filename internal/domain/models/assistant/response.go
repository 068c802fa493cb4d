package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"

	"javis/internal/domain"
)

// Response keys returned by the generate-code service
const (
	KeyClarification = "Sub_question"
	KeyPublishPlan   = "project_folder_list"
)

// Response is the closed set of answers the AI service can give.
// Implemented only by Clarification and PublishPlan.
type Response interface {
	isResponse()
}

// Clarification asks the user a follow-up question before code is generated.
type Clarification struct {
	Text string
}

// PublishPlan lists generated files (local paths) ready to be committed.
type PublishPlan struct {
	FilePaths []string
}

func (Clarification) isResponse() {}
func (PublishPlan) isResponse()   {}

// ParseResponse decodes a 200 body from the AI service. The body must be a
// JSON object with exactly one key; anything else fails closed.
func ParseResponse(body []byte) (Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &domain.InvalidResponseShapeError{Reason: "body is not a JSON object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &domain.InvalidResponseShapeError{Reason: err.Error()}
	}
	if len(fields) != 1 {
		return nil, &domain.InvalidResponseShapeError{
			Reason: fmt.Sprintf("expected exactly one key, got %d", len(fields)),
		}
	}

	for key, raw := range fields {
		switch key {
		case KeyClarification:
			var text *string
			if err := json.Unmarshal(raw, &text); err != nil || text == nil {
				return nil, &domain.InvalidResponseShapeError{Reason: key + " must be a string"}
			}
			return Clarification{Text: *text}, nil

		case KeyPublishPlan:
			var paths []string
			if err := json.Unmarshal(raw, &paths); err != nil || paths == nil {
				return nil, &domain.InvalidResponseShapeError{Reason: key + " must be an array of strings"}
			}
			return PublishPlan{FilePaths: paths}, nil

		default:
			return nil, &domain.UnknownResponseKindError{Key: key}
		}
	}

	// unreachable: len(fields) == 1
	return nil, &domain.InvalidResponseShapeError{Reason: "empty object"}
}
