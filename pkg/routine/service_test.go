package routine

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/repcycle/repcycle/internal/event_bus"
	"github.com/repcycle/repcycle/internal/metrics"
	"github.com/repcycle/repcycle/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var athleteCtx = user.WithUser(context.Background(), user.User{Id: 1, Username: "athlete1", Role: user.RoleAthlete})
var trainerCtx = user.WithUser(context.Background(), user.User{Id: 2, Username: "coach", Role: user.RoleTrainer})

var routineRepoStub = NewStubRoutineRepo()
var eventBus *event_bus.EventBus
var metricsManager *metrics.Manager
var service Service

func setup(t *testing.T) func() {
	eventBus = event_bus.NewEventBus()
	metricsManager = metrics.NewTestManager()
	service = NewService(routineRepoStub, eventBus, metricsManager)
	return func() {
		t.Log("Teardown after test")
		routineRepoStub.Cleanup()
	}
}

func TestServiceImpl_CreateRoutine(t *testing.T) {
	t.Run("should create a routine with exercises", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateRoutine(athleteCtx, Routine{
			Name: "Push Day",
			Exercises: []RoutineExercise{
				{ExerciseId: 2, TargetSets: 4, TargetReps: "5-8", RestSeconds: 180},
				{ExerciseId: 4},
			},
		})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, "Push Day", created.Name)
		assert.False(t, created.IsPro)
		require.Len(t, created.Exercises, 2)
		assert.Equal(t, 1, created.Exercises[0].Position)
		assert.Equal(t, 2, created.Exercises[1].Position)
	})

	t.Run("should apply defaults to exercise targets", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateRoutine(athleteCtx, Routine{
			Name:      "Pull Day",
			Exercises: []RoutineExercise{{ExerciseId: 5}},
		})

		// then
		require.NoError(t, err)
		require.Len(t, created.Exercises, 1)
		assert.Equal(t, 3, created.Exercises[0].TargetSets)
		assert.Equal(t, "8-12", created.Exercises[0].TargetReps)
	})

	t.Run("should reject a routine without a name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateRoutine(athleteCtx, Routine{Name: "   "})

		// then
		assert.ErrorIs(t, err, ErrRoutineDataInvalid)
	})

	t.Run("should reject an exercise without a catalog reference", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateRoutine(athleteCtx, Routine{
			Name:      "Leg Day",
			Exercises: []RoutineExercise{{TargetSets: 3}},
		})

		// then
		assert.ErrorIs(t, err, ErrRoutineDataInvalid)
	})

	t.Run("should forbid pro authoring for athletes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateRoutine(athleteCtx, Routine{Name: "Template", IsPro: true})

		// then
		assert.ErrorIs(t, err, ErrProAuthoringForbidden)
	})

	t.Run("should allow pro authoring for trainers", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateRoutine(trainerCtx, Routine{Name: "Template", IsPro: true})

		// then
		require.NoError(t, err)
		assert.True(t, created.IsPro)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateRoutine(context.Background(), Routine{Name: "Test"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_UpdateRoutine(t *testing.T) {
	t.Run("should replace the exercise list on update", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateRoutine(athleteCtx, Routine{
			Name: "Push Day",
			Exercises: []RoutineExercise{
				{ExerciseId: 2},
				{ExerciseId: 4},
			},
		})
		require.NoError(t, err)

		// when
		updated, err := service.UpdateRoutine(athleteCtx, Routine{
			Id:        created.Id,
			Name:      "Push Day v2",
			Exercises: []RoutineExercise{{ExerciseId: 9}},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Push Day v2", updated.Name)
		require.Len(t, updated.Exercises, 1)
		assert.Equal(t, 9, updated.Exercises[0].ExerciseId)
	})

	t.Run("should return ErrRoutineNotFound for an unknown routine", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.UpdateRoutine(athleteCtx, Routine{Id: 123, Name: "Ghost"})

		// then
		assert.ErrorIs(t, err, ErrRoutineNotFound)
	})
}

func TestServiceImpl_DeleteRoutine(t *testing.T) {
	t.Run("should announce the deletion while the routine still exists", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateRoutine(athleteCtx, Routine{Name: "Push Day"})
		require.NoError(t, err)

		var announced event_bus.RoutineDeleting
		var existedAtPublish bool
		event_bus.SubscribeTyped[event_bus.RoutineDeleting](eventBus, event_bus.EventRoutineDeleting,
			func(e event_bus.EventT[event_bus.RoutineDeleting]) error {
				announced = e.Data
				_, err := routineRepoStub.GetRoutine(e.Context(), 1, e.Data.Id)
				existedAtPublish = err == nil
				return nil
			})

		// when
		deleted, err := service.DeleteRoutine(athleteCtx, created.Id)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, created.Id, announced.Id)
		assert.Equal(t, 1, announced.UserId)
		assert.Equal(t, "Push Day", announced.Name)
		assert.True(t, existedAtPublish)

		_, err = service.GetRoutine(athleteCtx, created.Id)
		assert.ErrorIs(t, err, ErrRoutineNotFound)
	})

	t.Run("should still delete when a handler fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateRoutine(athleteCtx, Routine{Name: "Push Day"})
		require.NoError(t, err)
		eventBus.Subscribe(event_bus.EventRoutineDeleting, func(e event_bus.Event) error {
			return errors.New("handler failed")
		})

		// when
		deleted, err := service.DeleteRoutine(athleteCtx, created.Id)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("should return false for an unknown routine", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		var published bool
		eventBus.Subscribe(event_bus.EventRoutineDeleting, func(e event_bus.Event) error {
			published = true
			return nil
		})

		// when
		deleted, err := service.DeleteRoutine(athleteCtx, 123)

		// then
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.False(t, published)
	})
}

func TestServiceImpl_CopyProRoutine(t *testing.T) {
	t.Run("should copy a pro template into the user's library", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		template, err := service.CreateRoutine(trainerCtx, Routine{
			Name:        "PPL Template",
			Description: "Push pull legs",
			IsPro:       true,
			Exercises: []RoutineExercise{
				{ExerciseId: 1, TargetSets: 5, TargetReps: "5", RestSeconds: 240},
			},
		})
		require.NoError(t, err)

		// when
		copied, err := service.CopyProRoutine(athleteCtx, template.Id)

		// then
		require.NoError(t, err)
		assert.NotEqual(t, template.Id, copied.Id)
		assert.Equal(t, "PPL Template", copied.Name)
		assert.False(t, copied.IsPro)
		require.Len(t, copied.Exercises, 1)
		assert.Equal(t, 1, copied.Exercises[0].ExerciseId)
		assert.Equal(t, 5, copied.Exercises[0].TargetSets)
		assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterProRoutineCopies))

		routines, err := service.ListRoutines(athleteCtx)
		require.NoError(t, err)
		assert.Len(t, routines, 1)
	})

	t.Run("should return ErrRoutineNotFound for a non-pro routine", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		own, err := service.CreateRoutine(athleteCtx, Routine{Name: "Own Routine"})
		require.NoError(t, err)

		// when
		_, err = service.CopyProRoutine(athleteCtx, own.Id)

		// then
		assert.ErrorIs(t, err, ErrRoutineNotFound)
		assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterProRoutineCopies))
	})
}
