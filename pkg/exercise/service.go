package exercise

import (
	"context"
	"strings"
)

type Service interface {
	ListExercises(ctx context.Context, filter Filter) ([]Exercise, error)
	GetExercise(ctx context.Context, exerciseId int) (Exercise, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) ListExercises(ctx context.Context, filter Filter) ([]Exercise, error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Muscle = strings.ToLower(strings.TrimSpace(filter.Muscle))
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.ListExercises(ctx, filter)
}

func (s *ServiceImpl) GetExercise(ctx context.Context, exerciseId int) (Exercise, error) {
	return s.repo.GetExercise(ctx, exerciseId)
}
