package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"javis/internal/domain"
	"javis/internal/domain/models/assistant"
	assistantSvc "javis/internal/domain/services/assistant"
)

// GenerateCodePath is appended to the AI service base URL
const GenerateCodePath = "/generate-code/"

// serviceName labels upstream errors from the AI service
const serviceName = "generate-code"

// Client implements assistantSvc.Dispatcher over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dispatch client for the AI service at baseURL.
// A zero timeout leaves the HTTP client without one.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) assistantSvc.Dispatcher {
	return &Client{
		endpoint:   baseURL + GenerateCodePath,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Dispatch posts the conversation and parses the single-key answer.
func (c *Client) Dispatch(ctx context.Context, req *assistant.DispatchRequest) (assistant.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal dispatch request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create dispatch request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No answer at all is reported like a gateway failure
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  http.StatusBadGateway,
			Body:    fmt.Sprintf("failed to connect to %s: %v", serviceName, err),
		}
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", serviceName, err)
	}

	c.logger.Debug("generate-code responded",
		"room_id", req.Room.ID,
		"history_len", len(req.MessageHistory),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Body:    string(body),
		}
	}

	response, err := assistant.ParseResponse(body)
	if err != nil {
		c.logger.Warn("unusable generate-code response",
			"room_id", req.Room.ID,
			"error", err,
		)
		return nil, err
	}

	return response, nil
}
