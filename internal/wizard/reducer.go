package wizard

import (
	"errors"
	"sort"

	"survey_wizard/internal/model"
)

// Policy is the configurable part of the wizard's rules.
type Policy struct {
	// Scale applies to rating questions that carry no scale of their own.
	Scale model.RatingScale
	// FailOpen treats a failed participation check as a valid session that
	// has not responded yet. Otherwise the session is routed to
	// PhaseInvalidSession.
	FailOpen bool
	// OptionsEnabled issues the option list fetch at start.
	OptionsEnabled bool
}

type Reducer struct {
	Policy Policy
}

func NewReducer(p Policy) Reducer {
	return Reducer{Policy: p}
}

// Reduce applies a to s and returns the next state and the effects to run.
// Actions that do not fit the current phase return ErrNotApplicable with s
// unchanged. A failed validation returns *ValidationError with the field
// errors exposed on the returned state.
func (r Reducer) Reduce(s State, a Action) (State, []Effect, error) {
	switch a := a.(type) {
	case Start:
		return r.start(s)
	case Reload:
		return r.reload(s)
	case QuestionsLoaded:
		return r.questionsLoaded(s, a)
	case QuestionsFailed:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotApplicable
		}
		s.QuestionsFetch = Fetch{Status: FetchFailed, Err: a.Err.Error()}
		return r.settle(s), nil, nil
	case ParticipationLoaded:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotApplicable
		}
		s.Participation = a.Participation
		s.ParticipationFetch = Fetch{Status: FetchResolved}
		return r.settle(s), nil, nil
	case ParticipationFailed:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotApplicable
		}
		s.Participation = model.Participation{}
		s.ParticipationFetch = Fetch{Status: FetchFailed, Err: a.Err.Error()}
		return r.settle(s), nil, nil
	case OptionsLoaded:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotApplicable
		}
		s.Options = append([]model.Option(nil), a.Options...)
		s.OptionsFetch = Fetch{Status: FetchResolved}
		return r.settle(s), nil, nil
	case OptionsFailed:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotApplicable
		}
		s.OptionsFetch = Fetch{Status: FetchFailed, Err: a.Err.Error()}
		return r.settle(s), nil, nil
	case AnswerCurrent:
		if s.Phase != PhaseInProgress {
			return s, nil, ErrNotApplicable
		}
		s, _, err := r.answer(s, a.Input)
		return s, nil, err
	case Next:
		return r.next(s, a.Input)
	case Previous:
		return r.previous(s)
	case Submit:
		return r.submit(s, a.Input)
	case SubmitSucceeded:
		if s.Phase != PhaseSubmitting {
			return s, nil, ErrNotApplicable
		}
		s.Phase = PhaseThankYou
		s.SubmitErr = ""
		return s, nil, nil
	case SubmitFailed:
		if s.Phase != PhaseSubmitting {
			return s, nil, ErrNotApplicable
		}
		s.Phase = PhaseSubmitError
		s.SubmitErr = a.Err.Error()
		return s, nil, nil
	case Retry:
		if s.Phase != PhaseSubmitError {
			return s, nil, ErrNotApplicable
		}
		s.Phase = PhaseInProgress
		s.Draft = s.stored(s.Step)
		s.FieldErrors = nil
		return s, nil, nil
	}
	return s, nil, ErrNotApplicable
}

func (r Reducer) start(s State) (State, []Effect, error) {
	if s.Phase != PhaseLoading {
		return s, nil, ErrNotApplicable
	}
	if s.SessionID == "" {
		s.Phase = PhaseInvalidSession
		return s, nil, nil
	}

	s.QuestionsFetch = Fetch{}
	s.ParticipationFetch = Fetch{}
	effects := []Effect{FetchQuestions{}, FetchParticipation{SessionID: s.SessionID}}
	if r.Policy.OptionsEnabled {
		s.OptionsFetch = Fetch{}
		effects = append(effects, FetchOptions{})
	} else {
		s.OptionsFetch = Fetch{Status: FetchResolved}
	}
	return s, effects, nil
}

// reload retries the catalog fetches that failed. The participation check
// is not repeated.
func (r Reducer) reload(s State) (State, []Effect, error) {
	if s.Phase != PhaseLoading {
		return s, nil, ErrNotApplicable
	}

	var effects []Effect
	if s.QuestionsFetch.Failed() {
		s.QuestionsFetch = Fetch{}
		effects = append(effects, FetchQuestions{})
	}
	if s.OptionsFetch.Failed() && r.Policy.OptionsEnabled {
		s.OptionsFetch = Fetch{}
		effects = append(effects, FetchOptions{})
	}
	if len(effects) == 0 {
		return s, nil, ErrNotApplicable
	}
	return s, effects, nil
}

func (r Reducer) questionsLoaded(s State, a QuestionsLoaded) (State, []Effect, error) {
	if s.Phase != PhaseLoading {
		return s, nil, ErrNotApplicable
	}
	if len(a.Questions) == 0 {
		s.QuestionsFetch = Fetch{Status: FetchFailed, Err: ErrEmptyCatalog.Error()}
		return r.settle(s), nil, nil
	}

	questions := append([]model.Question(nil), a.Questions...)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	s.Questions = questions
	s.QuestionsFetch = Fetch{Status: FetchResolved}
	return r.settle(s), nil, nil
}

// settle moves a loading session out of PhaseLoading once enough fetches
// have resolved.
func (r Reducer) settle(s State) State {
	if s.Phase != PhaseLoading {
		return s
	}

	switch s.ParticipationFetch.Status {
	case FetchPending:
		return s
	case FetchFailed:
		if !r.Policy.FailOpen {
			s.Phase = PhaseInvalidSession
			return s
		}
	case FetchResolved:
		if !s.Participation.SentFlag {
			s.Phase = PhaseInvalidSession
			return s
		}
		if s.Participation.Flag {
			s.Phase = PhaseAlreadyParticipated
			return s
		}
	}

	if !s.QuestionsFetch.Resolved() {
		return s
	}
	if s.needsOptions() && !s.OptionsFetch.Resolved() {
		return s
	}
	if s.needsOptions() && len(s.Options) == 0 {
		s.OptionsFetch = Fetch{Status: FetchFailed, Err: ErrNoOptions.Error()}
		return s
	}

	s.Phase = PhaseInProgress
	s.Step = 0
	s.Draft = s.stored(0)
	s.FieldErrors = nil
	return s
}

// Question returns the question at step with its effective scale and
// options filled in.
func (r Reducer) Question(s State, step int) (model.Question, bool) {
	if step < 0 || step >= len(s.Questions) {
		return model.Question{}, false
	}
	q := s.Questions[step]
	if q.Type == model.QuestionRating && q.Scale == nil {
		scale := r.Policy.Scale
		q.Scale = &scale
	}
	if q.Type == model.QuestionSingleChoice && len(q.Options) == 0 {
		q.Options = s.Options
	}
	return q, true
}

func (r Reducer) answer(s State, in Input) (State, model.Answer, error) {
	q, ok := r.Question(s, s.Step)
	if !ok {
		return s, model.Answer{}, ErrNotApplicable
	}
	a, err := Validate(q, in)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			s.FieldErrors = ve.Fields
		}
		return s, model.Answer{}, err
	}
	s.Draft = a
	s.FieldErrors = nil
	return s, a, nil
}

func (r Reducer) current(s State, in *Input) (State, error) {
	input := Input{Value: s.Draft.Value, Comment: s.Draft.Comment}
	if in != nil {
		input = *in
	}
	s, a, err := r.answer(s, input)
	if err != nil {
		return s, err
	}
	return s.withAnswer(s.Step, a), nil
}

func (r Reducer) next(s State, in *Input) (State, []Effect, error) {
	if s.Phase != PhaseInProgress {
		return s, nil, ErrNotApplicable
	}
	s, err := r.current(s, in)
	if err != nil {
		return s, nil, err
	}
	if s.IsLast() {
		return r.beginSubmit(s)
	}

	s.Step++
	s.Draft = s.stored(s.Step)
	return s, nil, nil
}

func (r Reducer) previous(s State) (State, []Effect, error) {
	if s.Phase != PhaseInProgress || s.Step == 0 {
		return s, nil, ErrNotApplicable
	}
	s.Step--
	s.Draft = s.stored(s.Step)
	s.FieldErrors = nil
	return s, nil, nil
}

func (r Reducer) submit(s State, in *Input) (State, []Effect, error) {
	switch s.Phase {
	case PhaseInProgress:
		if !s.IsLast() {
			return s, nil, ErrNotApplicable
		}
		s, err := r.current(s, in)
		if err != nil {
			return s, nil, err
		}
		return r.beginSubmit(s)
	case PhaseSubmitError:
		return r.beginSubmit(s)
	}
	return s, nil, ErrNotApplicable
}

func (r Reducer) beginSubmit(s State) (State, []Effect, error) {
	s.Phase = PhaseSubmitting
	s.SubmitErr = ""
	s.FieldErrors = nil
	return s, []Effect{SubmitResponses{
		SessionID: s.SessionID,
		Request:   BuildSubmission(s.Questions, s.Answers),
	}}, nil
}
