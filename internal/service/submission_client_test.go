package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/model"
)

func strp(s string) *string { return &s }

func TestSubmit(t *testing.T) {
	req := model.SubmissionRequest{Response: []model.ResponseItem{
		{QuestionID: 1, Value: strp("4"), Desc: nil},
		{QuestionID: 3, Value: nil, Desc: strp("great")},
	}}

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/responses/abc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := NewSubmissionClient(testAPIConfig(srv.URL)).Submit(context.Background(), "abc", req)
	require.NoError(t, err)

	items := got["response"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, float64(1), first["questionId"])
	assert.Equal(t, "4", first["value"])
	assert.Nil(t, first["desc"])
	assert.Contains(t, first, "desc")
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, `oops`, "status 500"},
		{"rejected", http.StatusOK, `{"success":false,"message":"duplicate response"}`, "duplicate response"},
		{"rejected without message", http.StatusOK, `{"success":false}`, "submission rejected"},
		{"empty body", http.StatusOK, ``, "empty acknowledgment"},
		{"not json", http.StatusOK, `<html>`, "submission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewSubmissionClient(testAPIConfig(srv.URL)).Submit(context.Background(), "abc", model.SubmissionRequest{})
			var ue *UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, OpSubmission, ue.Op)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSubmitAcceptsAckWithoutSuccessField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"stored"}`))
	}))
	defer srv.Close()

	err := NewSubmissionClient(testAPIConfig(srv.URL)).Submit(context.Background(), "abc", model.SubmissionRequest{})
	assert.NoError(t, err)
}
