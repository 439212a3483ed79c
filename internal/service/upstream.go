package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"survey_wizard/pkg/monitoring"
	"survey_wizard/pkg/tracing"
)

const maxErrorBody = 512

// UpstreamError describes a failed call to the survey backend. StatusCode
// is zero for network failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend error (status %d): %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: tracing.NewTransport(http.DefaultTransport)}
}

func sessionPath(path, sessionID string) string {
	return strings.ReplaceAll(path, "{session}", url.PathEscape(sessionID))
}

// doJSON sends body (when non-nil) as JSON and returns the response body
// of a 2xx reply.
func doJSON(ctx context.Context, client *http.Client, op, method, target string, body any) ([]byte, error) {
	start := time.Now()
	data, err := roundTrip(ctx, client, op, method, target, body)
	monitoring.ObserveUpstream(op, start, err)
	return data, err
}

func roundTrip(ctx context.Context, client *http.Client, op, method, target string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &UpstreamError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(tracing.WithOperation(ctx, op), method, target, reader)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       snippet,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return data, nil
}

// decodeList accepts a bare JSON array or a {"data": [...]} envelope.
func decodeList(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if len(envelope.Data) == 0 {
			return fmt.Errorf("response envelope has no data")
		}
		trimmed = envelope.Data
	}
	return json.Unmarshal(trimmed, out)
}
