package chart

import (
	"context"

	"github.com/elderflowhq/console/internal/domain/care"
)

// PlanDetailState is the lifecycle of the care-plan detail view. Goals are
// fetched only when a plan is opened, and dropped when it closes.
type PlanDetailState string

const (
	PlanClosed    PlanDetailState = "closed"
	PlanOpening   PlanDetailState = "opening"
	PlanOpen      PlanDetailState = "open"
	PlanOpenError PlanDetailState = "open_error"
)

type planDetail struct {
	state  PlanDetailState
	planID string
	goals  []care.Goal
	err    string
}

// PlanDetail is a read-only copy of the detail view's state.
type PlanDetail struct {
	State  PlanDetailState
	PlanID string
	Goals  []care.Goal
	Err    string
}

// PlanDetail returns the current care-plan detail state.
func (s *Store) PlanDetail() PlanDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PlanDetail{
		State:  s.plan.state,
		PlanID: s.plan.planID,
		Goals:  append([]care.Goal(nil), s.plan.goals...),
		Err:    s.plan.err,
	}
}

// OpenPlan opens one plan for detail, fetching its goals lazily.
func (s *Store) OpenPlan(ctx context.Context, planID string) error {
	s.mu.Lock()
	s.plan = planDetail{state: PlanOpening, planID: planID}
	s.rev++
	s.mu.Unlock()

	goals, err := s.b.Goals(ctx, planID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan.planID != planID {
		// the view moved on while the fetch was in flight
		return nil
	}
	if err != nil {
		s.plan.state = PlanOpenError
		s.plan.err = Message(err, "Failed to load goals")
		s.rev++
		return err
	}
	s.plan.state = PlanOpen
	s.plan.goals = goals
	s.rev++
	return nil
}

// ClosePlan closes the detail view and clears the fetched goals.
func (s *Store) ClosePlan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = planDetail{state: PlanClosed}
	s.rev++
}

// AddGoal creates a goal on the currently open plan and appends it to the
// open detail.
func (s *Store) AddGoal(ctx context.Context, g care.Goal) (care.Goal, error) {
	if err := g.Validate(); err != nil {
		return care.Goal{}, err
	}
	s.mu.Lock()
	if s.plan.state != PlanOpen {
		s.mu.Unlock()
		return care.Goal{}, ErrPlanNotOpen
	}
	planID := s.plan.planID
	s.mu.Unlock()

	created, err := s.b.CreateGoal(ctx, planID, g)
	if err != nil {
		return care.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan.state == PlanOpen && s.plan.planID == planID {
		s.plan.goals = append(s.plan.goals, created)
		s.rev++
	}
	return created, nil
}
