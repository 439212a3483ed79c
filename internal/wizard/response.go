package wizard

import "survey_wizard/internal/model"

// BuildSubmission maps the answer map onto one response item per question,
// in question order. Empty strings are sent as null.
func BuildSubmission(questions []model.Question, answers map[int]model.Answer) model.SubmissionRequest {
	items := make([]model.ResponseItem, 0, len(questions))
	for step, q := range questions {
		a := answers[step]
		item := model.ResponseItem{QuestionID: q.ID}

		switch q.Type {
		case model.QuestionRating, model.QuestionYesNo:
			item.Value = nullable(a.Value)
			item.Desc = nullable(a.Comment)
		case model.QuestionFreeText:
			item.Desc = nullable(a.Value)
		case model.QuestionSingleChoice:
			item.Value = nullable(a.Value)
		}
		items = append(items, item)
	}
	return model.SubmissionRequest{Response: items}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
