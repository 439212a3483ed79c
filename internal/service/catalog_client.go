package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"survey_wizard/internal/config"
	"survey_wizard/internal/model"
)

const (
	OpQuestions     = "catalog.questions"
	OpParticipation = "catalog.participation"
	OpOptions       = "catalog.options"
)

// CatalogClient reads question definitions, participation flags and the
// single-choice option list from the survey backend.
type CatalogClient struct {
	BaseURL        string
	OptionsBaseURL string

	QuestionsPath     string
	ParticipationPath string
	OptionsPath       string

	HTTP *http.Client
}

func NewCatalogClient(cfg config.APIConfig) *CatalogClient {
	return &CatalogClient{
		BaseURL:           strings.TrimRight(cfg.CatalogBaseURL, "/"),
		OptionsBaseURL:    strings.TrimRight(cfg.OptionsBaseURL, "/"),
		QuestionsPath:     cfg.QuestionsPath,
		ParticipationPath: cfg.ParticipationPath,
		OptionsPath:       cfg.OptionsPath,
		HTTP:              newHTTPClient(cfg.Timeout),
	}
}

func (c *CatalogClient) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	data, err := doJSON(ctx, c.HTTP, OpQuestions, http.MethodGet, c.BaseURL+c.QuestionsPath, nil)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := decodeList(data, &questions); err != nil {
		return nil, &UpstreamError{Op: OpQuestions, Err: err}
	}
	return questions, nil
}

func (c *CatalogClient) FetchParticipation(ctx context.Context, sessionID string) (model.Participation, error) {
	target := c.BaseURL + sessionPath(c.ParticipationPath, sessionID)
	data, err := doJSON(ctx, c.HTTP, OpParticipation, http.MethodGet, target, nil)
	if err != nil {
		return model.Participation{}, err
	}

	var p model.Participation
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Participation{}, &UpstreamError{Op: OpParticipation, Err: err}
	}
	return p, nil
}

func (c *CatalogClient) FetchOptions(ctx context.Context) ([]model.Option, error) {
	base := c.OptionsBaseURL
	if base == "" {
		base = c.BaseURL
	}
	data, err := doJSON(ctx, c.HTTP, OpOptions, http.MethodGet, base+c.OptionsPath, nil)
	if err != nil {
		return nil, err
	}

	var options []model.Option
	if err := decodeList(data, &options); err != nil {
		return nil, &UpstreamError{Op: OpOptions, Err: err}
	}
	return options, nil
}
