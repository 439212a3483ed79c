package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/model"
)

func TestBuildSubmissionOnePerQuestion(t *testing.T) {
	questions := []model.Question{
		{ID: 11, Type: model.QuestionRating},
		{ID: 12, Type: model.QuestionYesNo},
		{ID: 13, Type: model.QuestionFreeText},
		{ID: 14, Type: model.QuestionSingleChoice},
		{ID: 15, Type: model.QuestionRating},
	}
	answers := map[int]model.Answer{
		0: {Value: "4"},
		1: {Value: "0", Comment: "closed early"},
		2: {Value: "lovely"},
		3: {Value: "3", Comment: "dropped"},
		4: {},
	}

	req := BuildSubmission(questions, answers)
	require.Len(t, req.Response, len(questions))

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":[
		{"questionId":11,"value":"4","desc":null},
		{"questionId":12,"value":"0","desc":"closed early"},
		{"questionId":13,"value":null,"desc":"lovely"},
		{"questionId":14,"value":"3","desc":null},
		{"questionId":15,"value":null,"desc":null}
	]}`, string(body))
}

func TestBuildSubmissionMissingAnswer(t *testing.T) {
	req := BuildSubmission([]model.Question{{ID: 1, Type: model.QuestionRating}}, nil)

	require.Len(t, req.Response, 1)
	assert.Nil(t, req.Response[0].Value)
	assert.Nil(t, req.Response[0].Desc)
}
