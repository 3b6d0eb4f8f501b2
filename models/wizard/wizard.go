package wizard

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

// Phase is where a session is in its lifecycle.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseDone       Phase = "done"
)

// Session is the whole wizard state. It is serialised into the handoff
// cache after every transition.
type Session struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Variant       Variant         `json:"variant"`
	Step          int             `json:"step"`
	Phase         Phase           `json:"phase"`
	Draft         types.TripDraft `json:"draft"`
	ProvisionalID string          `json:"provisionalId,omitempty"`
	TripID        string          `json:"tripId,omitempty"`
	LastError     string          `json:"lastError,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// View is the client-facing projection of a session.
type View struct {
	*Session
	StepName  StepName   `json:"stepName"`
	StepCount int        `json:"stepCount"`
	Steps     []StepName `json:"steps"`
	CanNext   bool       `json:"canNext"`
	CanBack   bool       `json:"canBack"`
	CanSubmit bool       `json:"canSubmit"`
}

func (s *Session) steps() []Step {
	steps, err := Steps(s.Variant)
	if err != nil {
		return nil
	}
	return steps
}

// Current returns the active step.
func (s *Session) Current() Step {
	steps := s.steps()
	if len(steps) == 0 {
		return Step{}
	}
	return steps[max(0, min(s.Step, len(steps)-1))]
}

// IsLast reports whether the active step is the final one.
func (s *Session) IsLast() bool {
	return s.Step >= len(s.steps())-1
}

// View projects the session for the API.
func (s *Session) View() View {
	steps := s.steps()
	names := make([]StepName, len(steps))
	for i, st := range steps {
		names[i] = st.Name
	}
	cur := s.Current()
	valid := cur.Valid != nil && cur.Valid(&s.Draft)
	editing := s.Phase == PhaseEditing
	return View{
		Session:   s,
		StepName:  cur.Name,
		StepCount: len(steps),
		Steps:     names,
		CanNext:   editing && !s.IsLast() && valid,
		CanBack:   editing && s.Step > 0,
		CanSubmit: editing && s.IsLast() && valid,
	}
}

func (s *Session) requireEditing() error {
	switch s.Phase {
	case PhaseSubmitting:
		return apperrors.NewConflictError("Trip is already being created", "wait for the current submission to finish")
	case PhaseDone:
		return apperrors.NewConflictError("Trip has already been created", s.TripID)
	}
	return nil
}

// Next advances one step when the current step's predicate holds.
func (s *Session) Next(ctx context.Context) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	if s.IsLast() {
		return apperrors.ValidationFailed("Already on the last step", string(s.Current().Name))
	}
	cur := s.Current()
	if !cur.Valid(&s.Draft) {
		return apperrors.ValidationFailed(fmt.Sprintf("Step %s is incomplete", cur.Name), cur.Requirement)
	}
	if cur.OnNext != nil {
		if err := cur.OnNext(ctx, &s.Draft); err != nil {
			return err
		}
	}
	s.Step++
	s.LastError = ""
	return nil
}

// Back returns to the previous step. The draft is kept as is.
func (s *Session) Back() error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	if s.Step == 0 {
		return apperrors.ValidationFailed("Already on the first step", string(s.Current().Name))
	}
	s.Step--
	return nil
}

// Edit applies fn to the draft while the session is editable.
func (s *Session) Edit(fn func(d *types.TripDraft) error) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	return fn(&s.Draft)
}

// BeginSubmit checks everything a submission needs, moves the session to
// submitting and returns the create body under a fresh provisional id.
func (s *Session) BeginSubmit(confirm bool, now time.Time) (types.CreateTripRequest, error) {
	if err := s.requireEditing(); err != nil {
		return types.CreateTripRequest{}, err
	}
	if !s.IsLast() {
		return types.CreateTripRequest{}, apperrors.ValidationFailed("Finish every step before submitting", string(s.Current().Name))
	}
	cur := s.Current()
	if !cur.Valid(&s.Draft) {
		return types.CreateTripRequest{}, apperrors.ValidationFailed(fmt.Sprintf("Step %s is incomplete", cur.Name), cur.Requirement)
	}
	if !confirm {
		return types.CreateTripRequest{}, apperrors.ValidationFailed("Submission must be confirmed", "set confirm to true")
	}
	if err := s.Draft.Validate(); err != nil {
		return types.CreateTripRequest{}, apperrors.ValidationFailed("Trip draft is invalid", err.Error())
	}

	s.ProvisionalID = types.ProvisionalTripID(now)
	s.Phase = PhaseSubmitting
	s.LastError = ""
	return types.CreateTripRequestFromDraft(s.ProvisionalID, s.Draft), nil
}

// FailSubmit returns the session to the last step with the draft untouched.
func (s *Session) FailSubmit(err error) {
	s.Phase = PhaseEditing
	s.Step = len(s.steps()) - 1
	s.LastError = err.Error()
}

// CompleteSubmit records the authoritative trip id.
func (s *Session) CompleteSubmit(tripID string) {
	s.Phase = PhaseDone
	s.TripID = tripID
	s.LastError = ""
}
