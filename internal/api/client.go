package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AskPath is the backend endpoint for questions.
const AskPath = "/api/ask"

// ErrRequestFailed marks transport-level failures: the backend could not be
// reached, or its reply could not be read as an answer.
var ErrRequestFailed = errors.New("request failed")

// Client talks to the question-answering backend.
type Client struct {
	httpClient *http.Client
	serverURL  string
}

// NewClient returns a client for the backend at serverURL. A zero timeout
// leaves requests unbounded.
func NewClient(serverURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		serverURL:  strings.TrimRight(serverURL, "/"),
	}
}

// ServerURL returns the base URL requests are sent to.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// Ask sends one question and decodes the tagged reply. The HTTP status is
// not consulted: any body carrying a boolean "success" is a valid reply.
// Every other failure wraps ErrRequestFailed. No retry is attempted.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+AskPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrRequestFailed, err)
	}

	return decodeAnswer(resp.StatusCode, body)
}

func decodeAnswer(status int, body []byte) (*AskResponse, error) {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("%w: decoding response (status %d): %w", ErrRequestFailed, status, err)
	}
	if w.Success == nil {
		return nil, fmt.Errorf("%w: response (status %d) has no success field", ErrRequestFailed, status)
	}
	return &AskResponse{
		Success:   *w.Success,
		Answer:    w.Answer,
		Error:     w.Error,
		SessionID: w.SessionID,
	}, nil
}
