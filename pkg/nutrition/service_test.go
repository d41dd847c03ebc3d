package nutrition

import (
	"context"
	"testing"

	"github.com/repcycle/repcycle/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "athlete1", Role: user.RoleAthlete})

var nutritionRepoStub = NewStubNutritionRepo()
var service = NewService(nutritionRepoStub)

func setup(t *testing.T) func() {
	return func() {
		t.Log("Teardown after test")
		nutritionRepoStub.Cleanup()
	}
}

func TestServiceImpl_SetCurrentGoal(t *testing.T) {
	t.Run("should store a goal for the current user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		goal := Goal{Calories: 2600, ProteinG: 180, CarbsG: 280, FatG: 70}

		// when
		stored, err := service.SetCurrentGoal(ctx, goal)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stored.UserId)
		assert.Equal(t, 2600, stored.Calories)
		assert.Equal(t, 180, stored.ProteinG)
		assert.False(t, stored.UpdatedAt.IsZero())
	})

	t.Run("should replace an existing goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.SetCurrentGoal(ctx, Goal{Calories: 2600, ProteinG: 180, CarbsG: 280, FatG: 70})
		require.NoError(t, err)

		// when
		_, err = service.SetCurrentGoal(ctx, Goal{Calories: 2100, ProteinG: 190, CarbsG: 150, FatG: 65})

		// then
		require.NoError(t, err)
		goal, err := service.GetCurrentGoal(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2100, goal.Calories)
		assert.Equal(t, 150, goal.CarbsG)
	})

	t.Run("should allow a zero macro target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		stored, err := service.SetCurrentGoal(ctx, Goal{Calories: 1800, ProteinG: 160, CarbsG: 0, FatG: 120})

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, stored.CarbsG)
	})

	t.Run("should reject non-positive calories", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		for _, calories := range []int{0, -100} {
			// when
			_, err := service.SetCurrentGoal(ctx, Goal{Calories: calories, ProteinG: 150, CarbsG: 200, FatG: 60})

			// then
			assert.ErrorIs(t, err, ErrGoalDataInvalid)
		}
	})

	t.Run("should reject implausibly high calories", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SetCurrentGoal(ctx, Goal{Calories: 25000, ProteinG: 150, CarbsG: 200, FatG: 60})

		// then
		assert.ErrorIs(t, err, ErrGoalDataInvalid)
	})

	t.Run("should reject negative macros", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SetCurrentGoal(ctx, Goal{Calories: 2200, ProteinG: -1, CarbsG: 200, FatG: 60})

		// then
		assert.ErrorIs(t, err, ErrGoalDataInvalid)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SetCurrentGoal(context.Background(), Goal{Calories: 2200, ProteinG: 150, CarbsG: 200, FatG: 60})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GetCurrentGoal(t *testing.T) {
	t.Run("should return ErrGoalNotFound when no goal is set", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetCurrentGoal(ctx)

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})

	t.Run("should not return another user's goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.SetCurrentGoal(ctx, Goal{Calories: 2600, ProteinG: 180, CarbsG: 280, FatG: 70})
		require.NoError(t, err)
		otherCtx := user.WithUser(context.Background(), user.User{Id: 2, Username: "athlete2", Role: user.RoleAthlete})

		// when
		_, err = service.GetCurrentGoal(otherCtx)

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}
