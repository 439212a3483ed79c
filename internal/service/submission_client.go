package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"survey_wizard/internal/config"
	"survey_wizard/internal/model"
)

const OpSubmission = "submission"

type SubmissionClient struct {
	BaseURL string
	Path    string
	HTTP    *http.Client
}

func NewSubmissionClient(cfg config.APIConfig) *SubmissionClient {
	return &SubmissionClient{
		BaseURL: strings.TrimRight(cfg.SubmissionBaseURL, "/"),
		Path:    cfg.SubmissionPath,
		HTTP:    newHTTPClient(cfg.Timeout),
	}
}

// Submit posts the responses. The backend must answer 2xx with a JSON
// acknowledgment; an ack carrying "success": false is a failure.
func (c *SubmissionClient) Submit(ctx context.Context, sessionID string, req model.SubmissionRequest) error {
	target := c.BaseURL + sessionPath(c.Path, sessionID)
	data, err := doJSON(ctx, c.HTTP, OpSubmission, http.MethodPost, target, req)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &UpstreamError{Op: OpSubmission, Err: errors.New("empty acknowledgment")}
	}
	var ack model.SubmissionAck
	if err := json.Unmarshal(data, &ack); err != nil {
		return &UpstreamError{Op: OpSubmission, Err: err}
	}
	if ack.Success != nil && !*ack.Success {
		msg := ack.Message
		if msg == "" {
			msg = "submission rejected"
		}
		return &UpstreamError{Op: OpSubmission, Err: errors.New(msg)}
	}
	return nil
}
