package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"survey_wizard/internal/model"
)

// Input is the raw form input for the active step.
type Input struct {
	Value   string `json:"value" form:"value"`
	Comment string `json:"comment" form:"comment"`
}

// Validate checks in against the rule for q's type and returns the normalized
// answer. q must carry its effective scale and options.
func Validate(q model.Question, in Input) (model.Answer, error) {
	switch q.Type {
	case model.QuestionRating:
		return validateRating(q, in)
	case model.QuestionYesNo:
		return validateYesNo(in)
	case model.QuestionFreeText:
		if strings.TrimSpace(in.Value) == "" {
			return model.Answer{}, fieldError(FieldValue, "an answer is required")
		}
		return model.Answer{Value: in.Value}, nil
	case model.QuestionSingleChoice:
		return validateChoice(q, in)
	}
	return model.Answer{}, fmt.Errorf("question %d: unsupported type %d", q.ID, q.Type)
}

func validateRating(q model.Question, in Input) (model.Answer, error) {
	var scale model.RatingScale
	if q.Scale != nil {
		scale = *q.Scale
	}

	raw := strings.TrimSpace(in.Value)
	if raw == "" {
		if scale.Required {
			return model.Answer{}, fieldError(FieldValue, "a score is required")
		}
		return model.Answer{Comment: in.Comment}, nil
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return model.Answer{}, fieldError(FieldValue, "score must be a number")
	}
	if score < scale.Min || score > scale.Max {
		return model.Answer{}, fieldError(FieldValue, fmt.Sprintf("score must be between %g and %g", scale.Min, scale.Max))
	}
	if scale.AllowFraction {
		if score*2 != math.Trunc(score*2) {
			return model.Answer{}, fieldError(FieldValue, "score must be a multiple of 0.5")
		}
	} else if score != math.Trunc(score) {
		return model.Answer{}, fieldError(FieldValue, "score must be a whole number")
	}

	if scale.NeedsExplanation(score) && strings.TrimSpace(in.Comment) == "" {
		return model.Answer{}, fieldError(FieldComment, "please tell us the reason for this score")
	}

	if score == 0 {
		// "-0" parses to negative zero
		score = 0
	}
	return model.Answer{
		Value:   strconv.FormatFloat(score, 'f', -1, 64),
		Comment: in.Comment,
	}, nil
}

func validateYesNo(in Input) (model.Answer, error) {
	switch strings.ToLower(strings.TrimSpace(in.Value)) {
	case "1", "yes", "y", "true":
		return model.Answer{Value: "1", Comment: in.Comment}, nil
	case "0", "no", "n", "false":
		return model.Answer{Value: "0", Comment: in.Comment}, nil
	case "":
		return model.Answer{}, fieldError(FieldValue, "please choose yes or no")
	}
	return model.Answer{}, fieldError(FieldValue, "answer must be yes or no")
}

func validateChoice(q model.Question, in Input) (model.Answer, error) {
	raw := strings.TrimSpace(in.Value)
	if raw == "" {
		return model.Answer{}, fieldError(FieldValue, "please select an option")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return model.Answer{}, fieldError(FieldValue, "unknown option")
	}
	for _, opt := range q.Options {
		if opt.ID == id {
			return model.Answer{Value: strconv.Itoa(id)}, nil
		}
	}
	return model.Answer{}, fieldError(FieldValue, "unknown option")
}
