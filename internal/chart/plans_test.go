package chart_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/api"
	"github.com/elderflowhq/console/internal/chart"
	"github.com/elderflowhq/console/internal/domain/care"
)

func TestPlanDetail_OpenClose(t *testing.T) {
	b := baseBindings()
	b.Goals = func(ctx context.Context, planID string) ([]care.Goal, error) {
		return []care.Goal{{ID: "g1", PlanID: planID, Title: "Walk daily"}}, nil
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	require.Equal(t, chart.PlanClosed, store.PlanDetail().State)

	require.NoError(t, store.OpenPlan(context.Background(), "p1"))
	detail := store.PlanDetail()
	require.Equal(t, chart.PlanOpen, detail.State)
	require.Equal(t, "p1", detail.PlanID)
	require.Len(t, detail.Goals, 1)

	store.ClosePlan()
	detail = store.PlanDetail()
	require.Equal(t, chart.PlanClosed, detail.State)
	require.Empty(t, detail.Goals, "goals are cleared on close")
}

func TestPlanDetail_OpenError(t *testing.T) {
	b := baseBindings()
	b.Goals = func(ctx context.Context, planID string) ([]care.Goal, error) {
		return nil, &api.APIError{Status: http.StatusInternalServerError, Message: "goals unavailable"}
	}

	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	require.Error(t, store.OpenPlan(context.Background(), "p1"))
	detail := store.PlanDetail()
	require.Equal(t, chart.PlanOpenError, detail.State)
	require.Equal(t, "goals unavailable", detail.Err)
}

func TestAddGoal_RequiresOpenPlan(t *testing.T) {
	store := chart.NewStore(baseBindings(), nil)
	store.Load(context.Background(), "c1")

	_, err := store.AddGoal(context.Background(), care.Goal{Title: "Walk daily"})
	require.ErrorIs(t, err, chart.ErrPlanNotOpen)
}

func TestAddGoal_AppendsToOpenDetail(t *testing.T) {
	b := baseBindings()
	store := chart.NewStore(b, nil)
	store.Load(context.Background(), "c1")

	require.NoError(t, store.OpenPlan(context.Background(), "p1"))

	created, err := store.AddGoal(context.Background(), care.Goal{Title: "Walk daily"})
	require.NoError(t, err)
	require.Equal(t, "g-created", created.ID)
	require.Equal(t, "p1", created.PlanID)

	detail := store.PlanDetail()
	require.Len(t, detail.Goals, 1)
	require.Equal(t, "g-created", detail.Goals[0].ID)
}

func TestAddGoal_Validation(t *testing.T) {
	store := chart.NewStore(baseBindings(), nil)
	store.Load(context.Background(), "c1")
	require.NoError(t, store.OpenPlan(context.Background(), "p1"))

	_, err := store.AddGoal(context.Background(), care.Goal{Title: "  "})
	require.ErrorIs(t, err, care.ErrInvalidInput)
}
