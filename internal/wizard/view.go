package wizard

import "survey_wizard/internal/model"

// View is the render-ready projection of a State.
type View struct {
	Phase       Phase             `json:"phase"`
	SessionID   string            `json:"sessionId"`
	Step        int               `json:"step"`
	Total       int               `json:"total"`
	Question    *model.Question   `json:"question,omitempty"`
	Draft       model.Answer      `json:"draft"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	LoadError   string            `json:"loadError,omitempty"`
	SubmitError string            `json:"submitError,omitempty"`
	CanGoBack   bool              `json:"canGoBack"`
	IsLast      bool              `json:"isLast"`
	Submitting  bool              `json:"submitting"`
	Terminal    bool              `json:"terminal"`
}

func (r Reducer) View(s State) View {
	v := View{
		Phase:       s.Phase,
		SessionID:   s.SessionID,
		Step:        s.Step,
		Total:       len(s.Questions),
		Draft:       s.Draft,
		FieldErrors: s.FieldErrors,
		LoadError:   s.LoadError(),
		SubmitError: s.SubmitErr,
		Submitting:  s.Submitting(),
		Terminal:    s.Terminal(),
	}
	if s.Phase == PhaseInProgress || s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitError {
		if q, ok := r.Question(s, s.Step); ok {
			v.Question = &q
		}
		v.CanGoBack = s.Phase == PhaseInProgress && s.Step > 0
		v.IsLast = s.IsLast()
	}
	return v
}
