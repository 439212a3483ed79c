package wizard

import "fmt"

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseInvalidSession
	PhaseAlreadyParticipated
	PhaseInProgress
	PhaseSubmitting
	PhaseThankYou
	PhaseSubmitError
)

var phaseNames = map[Phase]string{
	PhaseLoading:             "loading",
	PhaseInvalidSession:      "invalid_session",
	PhaseAlreadyParticipated: "already_participated",
	PhaseInProgress:          "in_progress",
	PhaseSubmitting:          "submitting",
	PhaseThankYou:            "thank_you",
	PhaseSubmitError:         "submit_error",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports phases from which no further navigation occurs.
func (p Phase) Terminal() bool {
	return p == PhaseInvalidSession || p == PhaseAlreadyParticipated || p == PhaseThankYou
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// FetchStatus tracks one of the initial fetches.
type FetchStatus int

const (
	FetchPending FetchStatus = iota
	FetchResolved
	FetchFailed
)

type Fetch struct {
	Status FetchStatus `json:"status"`
	Err    string      `json:"err,omitempty"`
}

func (f Fetch) Resolved() bool { return f.Status == FetchResolved }
func (f Fetch) Failed() bool   { return f.Status == FetchFailed }
