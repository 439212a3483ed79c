package model

import (
	"encoding/json"
	"fmt"
)

// QuestionType is the closed set of input widgets a question can use.
type QuestionType int

const (
	QuestionRating       QuestionType = 1
	QuestionYesNo        QuestionType = 2
	QuestionFreeText     QuestionType = 3
	QuestionSingleChoice QuestionType = 4
)

func (t QuestionType) String() string {
	switch t {
	case QuestionRating:
		return "rating"
	case QuestionYesNo:
		return "yes_no"
	case QuestionFreeText:
		return "free_text"
	case QuestionSingleChoice:
		return "single_choice"
	}
	return "unknown"
}

func (t QuestionType) Valid() bool {
	return t >= QuestionRating && t <= QuestionSingleChoice
}

func (t *QuestionType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("question type: %w", err)
	}
	qt := QuestionType(code)
	if !qt.Valid() {
		return fmt.Errorf("unknown question type code %d", code)
	}
	*t = qt
	return nil
}

// RatingScale configures a rating question. ExplainOn lists the scores that
// require an explanatory comment.
type RatingScale struct {
	Min           float64   `mapstructure:"min" json:"min"`
	Max           float64   `mapstructure:"max" json:"max"`
	AllowFraction bool      `mapstructure:"allow_fraction" json:"allowFraction"`
	ExplainOn     []float64 `mapstructure:"explain_on" json:"explainOn"`
	Required      bool      `mapstructure:"required" json:"required"`
}

func (s RatingScale) NeedsExplanation(score float64) bool {
	for _, v := range s.ExplainOn {
		if v == score {
			return true
		}
	}
	return false
}

// Question is immutable once fetched from the catalog.
type Question struct {
	ID      int          `json:"id"`
	Title   string       `json:"title"`
	Type    QuestionType `json:"type"`
	Order   int          `json:"order"`
	Scale   *RatingScale `json:"scale,omitempty"` // overrides the configured scale
	Options []Option     `json:"options,omitempty"`
}

type Option struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
