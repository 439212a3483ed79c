package wizard

import "survey_wizard/internal/model"

// Action is an event fed to Reduce.
type Action interface{ action() }

type (
	Start  struct{}
	Reload struct{}

	QuestionsLoaded struct{ Questions []model.Question }
	QuestionsFailed struct{ Err error }

	ParticipationLoaded struct{ Participation model.Participation }
	ParticipationFailed struct{ Err error }

	OptionsLoaded struct{ Options []model.Option }
	OptionsFailed struct{ Err error }

	AnswerCurrent struct{ Input Input }
	// Next applies Input first when set, otherwise validates the draft.
	Next     struct{ Input *Input }
	Previous struct{}
	Submit   struct{ Input *Input }

	SubmitSucceeded struct{}
	SubmitFailed    struct{ Err error }
	Retry           struct{}
)

func (Start) action()               {}
func (Reload) action()              {}
func (QuestionsLoaded) action()     {}
func (QuestionsFailed) action()     {}
func (ParticipationLoaded) action() {}
func (ParticipationFailed) action() {}
func (OptionsLoaded) action()       {}
func (OptionsFailed) action()       {}
func (AnswerCurrent) action()       {}
func (Next) action()                {}
func (Previous) action()            {}
func (Submit) action()              {}
func (SubmitSucceeded) action()     {}
func (SubmitFailed) action()        {}
func (Retry) action()               {}

// Effect is work the caller must perform and report back as an action.
type Effect interface{ effect() }

type (
	FetchQuestions     struct{}
	FetchParticipation struct{ SessionID string }
	FetchOptions       struct{}
	SubmitResponses    struct {
		SessionID string
		Request   model.SubmissionRequest
	}
)

func (FetchQuestions) effect()     {}
func (FetchParticipation) effect() {}
func (FetchOptions) effect()       {}
func (SubmitResponses) effect()    {}
