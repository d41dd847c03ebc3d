package mesocycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/repcycle/repcycle/internal/event_bus"
	"github.com/repcycle/repcycle/internal/metrics"
	"github.com/repcycle/repcycle/internal/utils"
	"github.com/repcycle/repcycle/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "athlete1", Role: user.RoleAthlete})

var mesocycleRepoStub = NewStubMesocycleRepo()
var profilesStub = NewProfileEnsurerStub()
var mockClock = &utils.MockClock{}
var eventBus *event_bus.EventBus
var metricsManager *metrics.Manager
var service Service

func setup(t *testing.T) func() {
	eventBus = event_bus.NewEventBus()
	metricsManager = metrics.NewTestManager()
	service = NewService(mesocycleRepoStub, profilesStub, eventBus, mockClock, metricsManager)
	return func() {
		t.Log("Teardown after test")
		mesocycleRepoStub.Reset()
		profilesStub.Reset()
	}
}

func validPlan() Mesocycle {
	return Mesocycle{Name: "Hypertrophy Block 1", Focus: FocusHypertrophy, Weeks: 4}
}

func TestServiceImpl_Save_Validation(t *testing.T) {
	t.Run("should reject an invalid plan without touching storage", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		plan := validPlan()
		plan.Name = "   "

		// when
		_, err := service.Save(ctx, plan, false)

		// then
		var validationErr ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "name", validationErr.Field)
		assert.Equal(t, 0, mesocycleRepoStub.TotalCalls())
		assert.Equal(t, 0, profilesStub.Calls())
	})

	t.Run("should reject an unknown focus", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		plan := validPlan()
		plan.Focus = "endurance"

		// when
		_, err := service.Save(ctx, plan, false)

		// then
		var validationErr ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "focus", validationErr.Field)
		assert.Equal(t, 0, mesocycleRepoStub.TotalCalls())
	})

	t.Run("should reject weeks outside 1 to 52", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		for _, weeks := range []int{0, -1, 53} {
			// given
			plan := validPlan()
			plan.Weeks = weeks

			// when
			_, err := service.Save(ctx, plan, false)

			// then
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "weeks", validationErr.Field)
		}
		assert.Equal(t, 0, mesocycleRepoStub.TotalCalls())
		assert.Equal(t, 0, profilesStub.Calls())
	})

	t.Run("should trim the plan name before storing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		plan := validPlan()
		plan.Name = "  Strength Block  "
		plan.Focus = FocusStrength

		// when
		result, err := service.Save(ctx, plan, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Strength Block", result.Plan.Name)
	})
}

func TestServiceImpl_Save_Dependency(t *testing.T) {
	t.Run("should ensure the profile before writing the plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		result, err := service.Save(ctx, validPlan(), false)

		// then
		require.NoError(t, err)
		assert.True(t, profilesStub.Ensured(1))
		assert.NotZero(t, result.Plan.Id)
	})

	t.Run("should abort before the plan write when the profile step fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		profilesStub.SetEnsureError(errors.New("profiles table is on fire"))

		// when
		_, err := service.Save(ctx, validPlan(), false)

		// then
		var depErr DependencyError
		require.ErrorAs(t, err, &depErr)
		assert.Contains(t, err.Error(), "could not ensure profile")
		assert.Equal(t, 0, mesocycleRepoStub.TotalCalls())
	})
}

func TestServiceImpl_Save_ParentWrite(t *testing.T) {
	t.Run("should create a new plan when not editing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		result, err := service.Save(ctx, validPlan(), false)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, mesocycleRepoStub.Calls("CreatePlan"))
		assert.Equal(t, 0, mesocycleRepoStub.Calls("UpdatePlan"))
		assert.Empty(t, result.Warnings)
	})

	t.Run("should update the existing plan when editing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)
		plan := created.Plan
		plan.Name = "Renamed Block"

		// when
		result, err := service.Save(ctx, plan, true)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Renamed Block", result.Plan.Name)
		assert.Equal(t, 1, mesocycleRepoStub.Calls("UpdatePlan"))
	})

	t.Run("should fail the save when the plan write fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		mesocycleRepoStub.SetCreateError(errors.New("disk full"))

		// when
		_, err := service.Save(ctx, validPlan(), false)

		// then
		var parentErr ParentWriteError
		require.ErrorAs(t, err, &parentErr)
		assert.Equal(t, 0, mesocycleRepoStub.Calls("deleteAssignments"))
		assert.Equal(t, 0, mesocycleRepoStub.Calls("createAssignments"))
	})

	t.Run("should report ErrPlanNotFound when editing a missing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		plan := validPlan()
		plan.Id = 123

		// when
		_, err := service.Save(ctx, plan, true)

		// then
		var parentErr ParentWriteError
		require.ErrorAs(t, err, &parentErr)
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestServiceImpl_Save_DayReconciliation(t *testing.T) {
	t.Run("should write one placeholder row per week for an empty grid", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		result, err := service.Save(ctx, validPlan(), false)

		// then
		require.NoError(t, err)
		loaded, err := service.GetForEdit(ctx, result.Plan.Id)
		require.NoError(t, err)
		require.Len(t, loaded.Assignments, 4)
		for i, assignment := range loaded.Assignments {
			assert.Equal(t, i+1, assignment.WeekIndex)
			assert.True(t, assignment.Placeholder())
		}
	})

	t.Run("should replace previous day rows instead of merging", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		routineId := 7
		plan := validPlan()
		plan.Assignments = []Assignment{
			{WeekIndex: 1, DayIndex: 1, Kind: DayKindRoutine, RoutineId: &routineId},
			{WeekIndex: 1, DayIndex: 3, Kind: DayKindRest},
			{WeekIndex: 2, DayIndex: 1, Kind: DayKindDeload},
		}
		created, err := service.Save(ctx, plan, false)
		require.NoError(t, err)

		// when
		replacement := created.Plan
		replacement.Assignments = []Assignment{
			{WeekIndex: 4, DayIndex: 5, Kind: DayKindRest},
		}
		_, err = service.Save(ctx, replacement, true)

		// then
		require.NoError(t, err)
		loaded, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)
		require.Len(t, loaded.Assignments, 1)
		assert.Equal(t, 4, loaded.Assignments[0].WeekIndex)
		assert.Equal(t, 5, loaded.Assignments[0].DayIndex)
		assert.Equal(t, DayKindRest, loaded.Assignments[0].Kind)
	})

	t.Run("should drop the routine reference from rest and deload days", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		routineId := 7
		plan := validPlan()
		plan.Assignments = []Assignment{
			{WeekIndex: 1, DayIndex: 1, Kind: DayKindRest, RoutineId: &routineId},
			{WeekIndex: 1, DayIndex: 2, Kind: DayKindDeload, RoutineId: &routineId},
		}

		// when
		result, err := service.Save(ctx, plan, false)

		// then
		require.NoError(t, err)
		loaded, err := service.GetForEdit(ctx, result.Plan.Id)
		require.NoError(t, err)
		require.Len(t, loaded.Assignments, 2)
		assert.Equal(t, DayKindRest, loaded.Assignments[0].Kind)
		assert.Nil(t, loaded.Assignments[0].RoutineId)
		assert.Equal(t, DayKindDeload, loaded.Assignments[1].Kind)
		assert.Nil(t, loaded.Assignments[1].RoutineId)
	})

	t.Run("should keep the save successful when the day write fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		mesocycleRepoStub.SetCreateDaysError(errors.New("day table is locked"))

		// when
		result, err := service.Save(ctx, validPlan(), false)

		// then
		require.NoError(t, err)
		assert.NotZero(t, result.Plan.Id)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "could not store day rows")
		assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterReconcileWarnings))

		// the plan itself survived
		loaded, err := service.GetForEdit(ctx, result.Plan.Id)
		require.NoError(t, err)
		assert.Equal(t, "Hypertrophy Block 1", loaded.Name)
		assert.Empty(t, loaded.Assignments)
	})

	t.Run("should warn but continue when clearing old rows fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)
		mesocycleRepoStub.SetDeleteDaysError(errors.New("delete blocked"))

		// when
		plan := created.Plan
		plan.Assignments = []Assignment{{WeekIndex: 1, DayIndex: 1, Kind: DayKindRest}}
		result, err := service.Save(ctx, plan, true)

		// then
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "could not clear previous day rows")
		// the insert still ran after the failed delete
		assert.Equal(t, 2, mesocycleRepoStub.Calls("createAssignments"))
	})
}

func TestServiceImpl_Save_RoundTrip(t *testing.T) {
	t.Run("should save loaded placeholder rows back unchanged", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given a plan stored with placeholder rows only
		created, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)
		firstLoad, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)
		require.Len(t, firstLoad.Assignments, 4)

		// when the loaded plan is saved again as-is
		result, err := service.Save(ctx, firstLoad, true)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)

		// then a second load shows the identical grid
		secondLoad, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)
		assert.Equal(t, firstLoad.Assignments, secondLoad.Assignments)
	})

	t.Run("should carry a full grid through load and save", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		routineId := 7
		plan := validPlan()
		plan.Assignments = []Assignment{
			{WeekIndex: 1, DayIndex: 1, Kind: DayKindRoutine, RoutineId: &routineId},
			{WeekIndex: 1, DayIndex: 2, Kind: DayKindRest},
			{WeekIndex: 2, DayIndex: 1, Kind: DayKindDeload},
		}
		created, err := service.Save(ctx, plan, false)
		require.NoError(t, err)

		// when
		firstLoad, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)
		_, err = service.Save(ctx, firstLoad, true)
		require.NoError(t, err)
		secondLoad, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)

		// then
		assert.Equal(t, firstLoad.Assignments, secondLoad.Assignments)
		require.Len(t, secondLoad.Assignments, 3)
		require.NotNil(t, secondLoad.Assignments[0].RoutineId)
		assert.Equal(t, 7, *secondLoad.Assignments[0].RoutineId)
	})
}

func TestServiceImpl_Save_NoUser(t *testing.T) {
	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Save(context.Background(), validPlan(), false)

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
		assert.Equal(t, 0, mesocycleRepoStub.TotalCalls())
	})
}

func TestServiceImpl_GetForEdit(t *testing.T) {
	t.Run("should return ErrPlanNotFound for an unknown plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetForEdit(ctx, 123)

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("should not leak plans between users", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)
		otherCtx := user.WithUser(context.Background(), user.User{Id: 2, Username: "athlete2", Role: user.RoleAthlete})

		// when
		_, err = service.GetForEdit(otherCtx, created.Plan.Id)

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestServiceImpl_ListMesocycles(t *testing.T) {
	t.Run("should report the current week for a started plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given a plan that started 15 days ago
		startDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		mockClock.SetNow(startDate.AddDate(0, 0, 15))
		plan := validPlan()
		plan.StartDate = &startDate
		_, err := service.Save(ctx, plan, false)
		require.NoError(t, err)

		// when
		progress, err := service.ListMesocycles(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.Equal(t, 3, progress[0].CurrentWeek)
	})

	t.Run("should report week zero for plans without a start date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)

		// when
		progress, err := service.ListMesocycles(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.Equal(t, 0, progress[0].CurrentWeek)
	})

	t.Run("should report week zero for a finished plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given a 4 week plan that started 10 weeks ago
		startDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		mockClock.SetNow(startDate.AddDate(0, 0, 70))
		plan := validPlan()
		plan.StartDate = &startDate
		_, err := service.Save(ctx, plan, false)
		require.NoError(t, err)

		// when
		progress, err := service.ListMesocycles(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.Equal(t, 0, progress[0].CurrentWeek)
	})
}

func TestServiceImpl_DeleteMesocycle(t *testing.T) {
	t.Run("should delete an existing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Save(ctx, validPlan(), false)
		require.NoError(t, err)

		// when
		deleted, err := service.DeleteMesocycle(ctx, created.Plan.Id)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
		_, err = service.GetForEdit(ctx, created.Plan.Id)
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("should return false for an unknown plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		deleted, err := service.DeleteMesocycle(ctx, 123)

		// then
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestServiceImpl_RoutineDeleting(t *testing.T) {
	t.Run("should clear routine references when a routine is deleted", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		routineId := 7
		plan := validPlan()
		plan.Assignments = []Assignment{
			{WeekIndex: 1, DayIndex: 1, Kind: DayKindRoutine, RoutineId: &routineId},
			{WeekIndex: 1, DayIndex: 3, Kind: DayKindRest},
		}
		created, err := service.Save(ctx, plan, false)
		require.NoError(t, err)

		// when
		err = eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventRoutineDeleting, event_bus.RoutineDeleting{
			Id:     routineId,
			UserId: 1,
			Name:   "Push Day",
		}))

		// then
		require.NoError(t, err)
		loaded, err := service.GetForEdit(ctx, created.Plan.Id)
		require.NoError(t, err)
		require.Len(t, loaded.Assignments, 2)
		assert.Equal(t, DayKindRoutine, loaded.Assignments[0].Kind)
		assert.Nil(t, loaded.Assignments[0].RoutineId)
		assert.Equal(t, DayKindRest, loaded.Assignments[1].Kind)
	})
}
