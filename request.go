package fastset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries a fresh correlation id on every request.
const RequestIDHeader = "X-Req-Id"

// PostMethod posts body as JSON to the named API operation and decodes a 200 response into
// result (skipped when result is nil). Any other status yields an *APIError.
func (client *Client) PostMethod(ctx context.Context, operation string, body any, result any) (err error) {
	url := client.baseHost + strings.TrimPrefix(operation, "/")

	var (
		statusCode   int
		responseBody []byte
	)
	defer func() {
		for _, h := range client.hooks {
			h.PostRequest(ctx, http.MethodPost, url, statusCode, responseBody, err)
		}
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		client.logger.Errorf("Failed to marshal request for POST %s: %v", url, err)
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if client.limiter != nil {
		if err = client.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait for %s: %w", operation, err)
		}
	}

	for _, h := range client.hooks {
		h.PreRequest(ctx, http.MethodPost, url, payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	client.logger.Infof("POST %s (req %s)", url, reqID)
	resp, err := client.httpclient.Do(req)
	if err != nil {
		client.logger.Errorf("API POST request to %s failed: %v", url, err)
		return fmt.Errorf("%w: %s: %w", ErrNetwork, operation, err)
	}
	defer resp.Body.Close()

	statusCode = resp.StatusCode
	responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		client.logger.Errorf("Failed to read response from POST %s: %v", url, err)
		return fmt.Errorf("%w: %s: read response: %w", ErrNetwork, operation, err)
	}

	if err = handleAPIResponse(operation, statusCode, responseBody, result); err != nil {
		if _, ok := err.(*APIError); ok {
			client.logger.Errorf("API Error from POST %s: %v", url, err)
		} else {
			client.logger.Errorf("Failed to decode response from POST %s: %v", url, err)
		}
		return err
	}
	return nil
}

// handleAPIResponse turns a raw response into either a decoded result or an error.
func handleAPIResponse(operation string, statusCode int, body []byte, result any) error {
	if statusCode != http.StatusOK {
		return &APIError{
			Operation:  operation,
			StatusCode: statusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
