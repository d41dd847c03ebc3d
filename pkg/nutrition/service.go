package nutrition

import (
	"context"
	"errors"
	"fmt"

	"github.com/repcycle/repcycle/pkg/user"
)

var ErrGoalDataInvalid = errors.New("nutrition goal data is invalid")

// maxCalories rejects obvious unit mistakes, not real diets.
const maxCalories = 20000

type Service interface {
	GetCurrentGoal(ctx context.Context) (Goal, error)
	SetCurrentGoal(ctx context.Context, goal Goal) (Goal, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCurrentGoal(ctx context.Context) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId)
}

func (s *ServiceImpl) SetCurrentGoal(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if goal.Calories <= 0 || goal.Calories > maxCalories {
		return Goal{}, ErrGoalDataInvalid
	}
	// a zero macro is a valid target, a negative one is not
	if goal.ProteinG < 0 || goal.CarbsG < 0 || goal.FatG < 0 {
		return Goal{}, ErrGoalDataInvalid
	}

	goal.UserId = userId
	return s.repo.Upsert(ctx, goal)
}
