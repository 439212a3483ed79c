package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey_wizard/internal/model"
	"survey_wizard/internal/wizard"
)

func render(t *testing.T, page Page) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageFor(page.View.Phase), page))
	return buf.String()
}

func ratingQuestion() *model.Question {
	return &model.Question{
		ID:    1,
		Title: "How satisfied were you?",
		Type:  model.QuestionRating,
		Scale: &model.RatingScale{Min: 1, Max: 5, AllowFraction: true, ExplainOn: []float64{0.5, 1}, Required: true},
	}
}

func TestMood(t *testing.T) {
	tests := map[string]string{
		"":    "🤔",
		"0":   "🤔",
		"abc": "🤔",
		"0.5": "😡",
		"1":   "😡",
		"1.5": "😞",
		"2":   "😞",
		"3":   "😐",
		"3.5": "🙂",
		"4":   "🙂",
		"4.5": "😄",
		"5":   "😄",
	}
	for in, want := range tests {
		assert.Equal(t, want, Mood(in), in)
	}
}

func TestRatingChoices(t *testing.T) {
	q := ratingQuestion()
	assert.Equal(t, []string{"1", "1.5", "2", "2.5", "3", "3.5", "4", "4.5", "5"}, RatingChoices(q))

	q.Scale.AllowFraction = false
	q.Scale.Min = 0
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, RatingChoices(q))

	assert.Nil(t, RatingChoices(&model.Question{Type: model.QuestionFreeText}))
}

func TestExplainOn(t *testing.T) {
	assert.Equal(t, "0.5 or 1", ExplainOn(ratingQuestion()))
	assert.Empty(t, ExplainOn(&model.Question{}))
}

func TestRenderStep(t *testing.T) {
	out := render(t, Page{
		Action: "/survey",
		View: wizard.View{
			Phase:       wizard.PhaseInProgress,
			SessionID:   "a&b",
			Step:        1,
			Total:       3,
			Question:    ratingQuestion(),
			Draft:       model.Answer{Value: "4"},
			FieldErrors: map[string]string{wizard.FieldComment: "please tell us the reason for this score"},
			CanGoBack:   true,
		},
	})

	assert.Contains(t, out, "Question 2 of 3")
	assert.Contains(t, out, "How satisfied were you?")
	assert.Contains(t, out, `value="4" checked`)
	assert.Contains(t, out, "🙂")
	assert.Contains(t, out, "Next question")
	assert.Contains(t, out, "Previous")
	assert.Contains(t, out, "please tell us the reason for this score")
	assert.Contains(t, out, "session=a%26b")
	assert.NotContains(t, out, "skip")
}

func TestRenderLastStep(t *testing.T) {
	out := render(t, Page{
		Action: "/survey",
		View: wizard.View{
			Phase:     wizard.PhaseInProgress,
			SessionID: "abc",
			Total:     1,
			Question: &model.Question{ID: 4, Title: "Which area?", Type: model.QuestionSingleChoice,
				Options: []model.Option{{ID: 7, Title: "Parking"}, {ID: 8, Title: "Food"}}},
			Draft:  model.Answer{Value: "8"},
			IsLast: true,
		},
	})

	assert.Contains(t, out, `action="/survey/submit?session=abc"`)
	assert.Contains(t, out, `value="8" checked`)
	assert.Contains(t, out, "Parking")
	assert.Contains(t, out, ">Submit<")
	assert.NotContains(t, out, "Previous")
}

func TestRenderErrorPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, ErrorPage, Page{Action: "/survey", View: wizard.View{SessionID: "abc"}}))
	assert.Contains(t, buf.String(), `href="/survey?session=abc"`)
}

func TestRenderPhases(t *testing.T) {
	tests := []struct {
		name string
		view wizard.View
		want []string
	}{
		{"loading", wizard.View{Phase: wizard.PhaseLoading, SessionID: "abc"}, []string{"Loading", `http-equiv="refresh"`}},
		{"load error", wizard.View{Phase: wizard.PhaseLoading, SessionID: "abc", LoadError: "catalog down"}, []string{"catalog down", "/survey/reload?session=abc"}},
		{"invalid", wizard.View{Phase: wizard.PhaseInvalidSession}, []string{"Invalid survey link"}},
		{"already", wizard.View{Phase: wizard.PhaseAlreadyParticipated}, []string{"already taken part"}},
		{"thank you", wizard.View{Phase: wizard.PhaseThankYou}, []string{"Thank you!"}},
		{"submitting", wizard.View{Phase: wizard.PhaseSubmitting, Submitting: true}, []string{"Sending your answers"}},
		{"submit error", wizard.View{Phase: wizard.PhaseSubmitError, SessionID: "abc", SubmitError: "status 502"}, []string{"status 502", "/survey/submit?session=abc", "/survey/retry?session=abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Page{Action: "/survey", View: tt.view})
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}
