package wizard

import "survey_wizard/internal/model"

// State is one session's wizard snapshot. Reduce never mutates a State it
// receives; it returns a new value.
type State struct {
	Phase     Phase  `json:"phase"`
	SessionID string `json:"sessionId"`

	Questions     []model.Question    `json:"questions,omitempty"`
	Options       []model.Option      `json:"options,omitempty"`
	Participation model.Participation `json:"participation"`

	QuestionsFetch     Fetch `json:"questionsFetch"`
	ParticipationFetch Fetch `json:"participationFetch"`
	OptionsFetch       Fetch `json:"optionsFetch"`

	Step    int                  `json:"step"`
	Answers map[int]model.Answer `json:"answers,omitempty"`
	Draft   model.Answer         `json:"draft"`

	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	SubmitErr   string            `json:"submitErr,omitempty"`
}

func NewState(sessionID string) State {
	return State{Phase: PhaseLoading, SessionID: sessionID}
}

func (s State) Submitting() bool { return s.Phase == PhaseSubmitting }
func (s State) Terminal() bool   { return s.Phase.Terminal() }
func (s State) IsLast() bool     { return s.Step == len(s.Questions)-1 }

// LoadError returns the error of the first failed required fetch.
func (s State) LoadError() string {
	if s.QuestionsFetch.Failed() {
		return s.QuestionsFetch.Err
	}
	if s.OptionsFetch.Failed() && s.needsOptions() {
		return s.OptionsFetch.Err
	}
	return ""
}

// needsOptions reports whether a single-choice question relies on the
// fetched option list.
func (s State) needsOptions() bool {
	for _, q := range s.Questions {
		if q.Type == model.QuestionSingleChoice && len(q.Options) == 0 {
			return true
		}
	}
	return false
}

func (s State) stored(step int) model.Answer {
	return s.Answers[step]
}

func (s State) withAnswer(step int, a model.Answer) State {
	answers := make(map[int]model.Answer, len(s.Answers)+1)
	for k, v := range s.Answers {
		answers[k] = v
	}
	answers[step] = a
	s.Answers = answers
	return s
}
