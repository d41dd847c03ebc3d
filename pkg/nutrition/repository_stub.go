package nutrition

import (
	"context"
	"time"
)

type RepositoryStub struct {
	goals map[int]Goal
}

func NewStubNutritionRepo() *RepositoryStub {
	return &RepositoryStub{goals: make(map[int]Goal)}
}

func (s *RepositoryStub) Get(_ context.Context, userId int) (Goal, error) {
	goal, ok := s.goals[userId]
	if !ok {
		return Goal{}, ErrGoalNotFound
	}
	return goal, nil
}

func (s *RepositoryStub) Upsert(_ context.Context, goal Goal) (Goal, error) {
	goal.UpdatedAt = time.Now()
	s.goals[goal.UserId] = goal
	return goal, nil
}

func (s *RepositoryStub) Cleanup() {
	s.goals = make(map[int]Goal)
}
