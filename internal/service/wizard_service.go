package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"survey_wizard/internal/model"
	"survey_wizard/internal/repository"
	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
	"survey_wizard/pkg/logger"
	"survey_wizard/pkg/monitoring"
)

type Catalog interface {
	FetchQuestions(ctx context.Context) ([]model.Question, error)
	FetchParticipation(ctx context.Context, sessionID string) (model.Participation, error)
	FetchOptions(ctx context.Context) ([]model.Option, error)
}

type Submitter interface {
	Submit(ctx context.Context, sessionID string, req model.SubmissionRequest) error
}

// WizardService runs the wizard reducer for each survey session. Actions on
// one session are applied one at a time; effects run outside the session
// lock and report back as actions.
type WizardService struct {
	Repo      repository.WizardRepository
	Catalog   Catalog
	Submitter Submitter

	reducer atomic.Pointer[wizard.Reducer]
	locks   sessionLocks
}

func NewWizardService(repo repository.WizardRepository, catalog Catalog, submitter Submitter, policy wizard.Policy) *WizardService {
	s := &WizardService{
		Repo:      repo,
		Catalog:   catalog,
		Submitter: submitter,
		locks:     sessionLocks{entries: make(map[string]*lockEntry)},
	}
	s.ApplyPolicy(policy)
	return s
}

// ApplyPolicy swaps the rules used by subsequent actions.
func (s *WizardService) ApplyPolicy(p wizard.Policy) {
	r := wizard.NewReducer(p)
	s.reducer.Store(&r)
}

func (s *WizardService) Reducer() wizard.Reducer {
	return *s.reducer.Load()
}

// Start opens the session on first visit and blocks until the initial
// fetches complete. Later visits return the stored state. An empty session
// id yields the invalid-session view without storing anything.
func (s *WizardService) Start(ctx context.Context, sessionID string) (wizard.View, error) {
	r := s.Reducer()
	if sessionID == "" {
		state, _, _ := r.Reduce(wizard.NewState(""), wizard.Start{})
		return r.View(state), nil
	}

	unlock := s.locks.lock(sessionID)
	state, err := s.Repo.Find(ctx, sessionID)
	if err == nil {
		unlock()
		return r.View(state), nil
	}
	if !errors.Is(err, util.ErrSessionNotFound) {
		unlock()
		return wizard.View{}, err
	}

	state, effects, err := r.Reduce(wizard.NewState(sessionID), wizard.Start{})
	if err == nil {
		err = s.save(ctx, wizard.State{}, state)
	}
	unlock()
	if err != nil {
		return wizard.View{}, err
	}

	logger.Log.Info("survey session started", zap.String("session", sessionID))
	return s.run(ctx, state, effects)
}

func (s *WizardService) View(ctx context.Context, sessionID string) (wizard.View, error) {
	if sessionID == "" {
		return wizard.View{}, util.ErrSessionMissing
	}
	state, err := s.Repo.Find(ctx, sessionID)
	if err != nil {
		return wizard.View{}, err
	}
	return s.Reducer().View(state), nil
}

func (s *WizardService) Answer(ctx context.Context, sessionID string, in wizard.Input) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.AnswerCurrent{Input: in})
}

func (s *WizardService) Next(ctx context.Context, sessionID string, in *wizard.Input) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.Next{Input: in})
}

func (s *WizardService) Previous(ctx context.Context, sessionID string) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.Previous{})
}

func (s *WizardService) Submit(ctx context.Context, sessionID string, in *wizard.Input) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.Submit{Input: in})
}

func (s *WizardService) Retry(ctx context.Context, sessionID string) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.Retry{})
}

func (s *WizardService) Reload(ctx context.Context, sessionID string) (wizard.View, error) {
	return s.Dispatch(ctx, sessionID, wizard.Reload{})
}

// Dispatch applies a user action and runs the effects it produces. On a
// validation error the returned view carries the field errors while the
// stored state stays unchanged. ErrNotApplicable comes with the current view.
func (s *WizardService) Dispatch(ctx context.Context, sessionID string, a wizard.Action) (wizard.View, error) {
	if sessionID == "" {
		return wizard.View{}, util.ErrSessionMissing
	}

	state, effects, err := s.apply(ctx, sessionID, a)
	if err != nil {
		if state.SessionID == "" {
			return wizard.View{}, err
		}
		return s.Reducer().View(state), err
	}
	return s.run(ctx, state, effects)
}

func (s *WizardService) apply(ctx context.Context, sessionID string, a wizard.Action) (wizard.State, []wizard.Effect, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	prev, err := s.Repo.Find(ctx, sessionID)
	if err != nil {
		return wizard.State{}, nil, err
	}

	next, effects, err := s.Reducer().Reduce(prev, a)
	if err != nil {
		return next, nil, err
	}
	if err := s.save(ctx, prev, next); err != nil {
		return wizard.State{}, nil, err
	}
	return next, effects, nil
}

func (s *WizardService) save(ctx context.Context, prev, next wizard.State) error {
	if err := s.Repo.Save(ctx, next); err != nil {
		logger.Log.Error("failed to save wizard state", zap.String("session", next.SessionID), zap.Error(err))
		return err
	}
	if prev.Phase != next.Phase || prev.SessionID == "" {
		monitoring.PhaseCounter.WithLabelValues(next.Phase.String()).Inc()
		logger.Log.Debug("wizard phase changed",
			zap.String("session", next.SessionID),
			zap.String("from", prev.Phase.String()),
			zap.String("to", next.Phase.String()),
		)
	}
	return nil
}

// run performs effects concurrently. Each result is applied as soon as it
// arrives, so completion order does not matter. Effects are detached from
// request cancellation; the clients bound them with their own timeouts.
func (s *WizardService) run(ctx context.Context, state wizard.State, effects []wizard.Effect) (wizard.View, error) {
	if len(effects) == 0 {
		return s.Reducer().View(state), nil
	}

	ectx := context.WithoutCancel(ctx)
	var g errgroup.Group
	for _, e := range effects {
		e := e // per-iteration copy (go directive is 1.21, pre-loopvar semantics)
		g.Go(func() error {
			result := s.perform(ectx, e)
			_, _, err := s.apply(ectx, state.SessionID, result)
			if errors.Is(err, wizard.ErrNotApplicable) {
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return wizard.View{}, err
	}

	final, err := s.Repo.Find(ectx, state.SessionID)
	if err != nil {
		return wizard.View{}, err
	}
	return s.Reducer().View(final), nil
}

func (s *WizardService) perform(ctx context.Context, e wizard.Effect) wizard.Action {
	switch e := e.(type) {
	case wizard.FetchQuestions:
		questions, err := s.Catalog.FetchQuestions(ctx)
		if err != nil {
			logger.Log.Warn("question catalog fetch failed", zap.Error(err))
			return wizard.QuestionsFailed{Err: err}
		}
		return wizard.QuestionsLoaded{Questions: questions}

	case wizard.FetchParticipation:
		p, err := s.Catalog.FetchParticipation(ctx, e.SessionID)
		if err != nil {
			logger.Log.Warn("participation check failed",
				zap.String("session", e.SessionID),
				zap.Bool("fail_open", s.Reducer().Policy.FailOpen),
				zap.Error(err),
			)
			return wizard.ParticipationFailed{Err: err}
		}
		return wizard.ParticipationLoaded{Participation: p}

	case wizard.FetchOptions:
		options, err := s.Catalog.FetchOptions(ctx)
		if err != nil {
			logger.Log.Warn("option list fetch failed", zap.Error(err))
			return wizard.OptionsFailed{Err: err}
		}
		return wizard.OptionsLoaded{Options: options}

	case wizard.SubmitResponses:
		if err := s.Submitter.Submit(ctx, e.SessionID, e.Request); err != nil {
			monitoring.SubmissionCounter.WithLabelValues("error").Inc()
			logger.Log.Error("survey submission failed", zap.String("session", e.SessionID), zap.Error(err))
			return wizard.SubmitFailed{Err: err}
		}
		monitoring.SubmissionCounter.WithLabelValues("success").Inc()
		logger.Log.Info("survey submitted",
			zap.String("session", e.SessionID),
			zap.Int("responses", len(e.Request.Response)),
		)
		return wizard.SubmitSucceeded{}
	}
	return nil
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id and forgets it when no
// caller holds or waits for it.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
