package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/repcycle/repcycle/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrProfileDataInvalid = errors.New("profile data is invalid")

type Service interface {
	Ensure(ctx context.Context, userId int) error
	GetCurrentProfile(ctx context.Context) (Profile, error)
	UpdateCurrentProfile(ctx context.Context, profile Profile) (Profile, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// Ensure makes sure a profile row exists for the given user. Safe to call
// repeatedly; the first call creates the row, later calls do nothing.
func (s *ServiceImpl) Ensure(ctx context.Context, userId int) error {
	if userId <= 0 {
		return fmt.Errorf("invalid user id: %d", userId)
	}
	if err := s.repo.Ensure(ctx, userId); err != nil {
		log.Errorf("failed to ensure profile for user %d: %v", userId, err)
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

func (s *ServiceImpl) GetCurrentProfile(ctx context.Context) (Profile, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId)
}

func (s *ServiceImpl) UpdateCurrentProfile(ctx context.Context, profile Profile) (Profile, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if strings.TrimSpace(profile.DisplayName) == "" {
		return Profile{}, ErrProfileDataInvalid
	}
	if profile.Experience == "" {
		profile.Experience = ExperienceBeginner
	}
	if !profile.Experience.IsValid() {
		return Profile{}, ErrProfileDataInvalid
	}
	if profile.BodyweightKg != nil && *profile.BodyweightKg <= 0 {
		return Profile{}, ErrProfileDataInvalid
	}

	return s.repo.Update(ctx, userId, profile)
}
