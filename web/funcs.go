package web

import (
	"html/template"
	"strconv"
	"strings"

	"survey_wizard/internal/model"
	"survey_wizard/internal/wizard"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"mood":          Mood,
		"ratingChoices": RatingChoices,
		"explainOn":     ExplainOn,
		"stepNumber":    func(v wizard.View) int { return v.Step + 1 },
		"optionValue":   func(o model.Option) string { return strconv.Itoa(o.ID) },
		"isRating":      func(q *model.Question) bool { return q.Type == model.QuestionRating },
		"isYesNo":       func(q *model.Question) bool { return q.Type == model.QuestionYesNo },
		"isFreeText":    func(q *model.Question) bool { return q.Type == model.QuestionFreeText },
		"isChoice":      func(q *model.Question) bool { return q.Type == model.QuestionSingleChoice },
	}
}

// Mood maps a rating value to the face shown next to the stars. Unset and
// zero scores get a thinking face.
func Mood(value string) string {
	score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || score == 0 {
		return "🤔"
	}
	switch {
	case score <= 1:
		return "😡"
	case score <= 2:
		return "😞"
	case score <= 3:
		return "😐"
	case score <= 4:
		return "🙂"
	}
	return "😄"
}

// RatingChoices lists the selectable scores of q, in half steps when the
// scale allows fractions.
func RatingChoices(q *model.Question) []string {
	if q == nil || q.Scale == nil {
		return nil
	}
	step := 1.0
	if q.Scale.AllowFraction {
		step = 0.5
	}

	var out []string
	// count in steps to avoid float drift
	n := int((q.Scale.Max-q.Scale.Min)/step + 0.5)
	for i := 0; i <= n; i++ {
		out = append(out, strconv.FormatFloat(q.Scale.Min+float64(i)*step, 'f', -1, 64))
	}
	return out
}

// ExplainOn renders the scores that require a comment, e.g. "1 or 2".
func ExplainOn(q *model.Question) string {
	if q == nil || q.Scale == nil || len(q.Scale.ExplainOn) == 0 {
		return ""
	}
	parts := make([]string, len(q.Scale.ExplainOn))
	for i, s := range q.Scale.ExplainOn {
		parts[i] = strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.Join(parts, " or ")
}
