package profile

import (
	"context"
	"fmt"
)

type RepositoryStub struct {
	profiles   map[int]Profile
	knownUsers map[int]bool
	ensureErr  error
}

func NewStubProfileRepo() *RepositoryStub {
	return &RepositoryStub{
		profiles:   map[int]Profile{},
		knownUsers: map[int]bool{},
	}
}

// AddKnownUser registers a user id for which Ensure may create a profile.
func (s *RepositoryStub) AddKnownUser(userId int) {
	s.knownUsers[userId] = true
}

// FailEnsureWith makes every following Ensure call return the given error.
func (s *RepositoryStub) FailEnsureWith(err error) {
	s.ensureErr = err
}

func (s *RepositoryStub) Ensure(ctx context.Context, userId int) error {
	if s.ensureErr != nil {
		return s.ensureErr
	}
	if _, exists := s.profiles[userId]; exists {
		return nil
	}
	if !s.knownUsers[userId] {
		return fmt.Errorf("cannot create profile: user %d does not exist", userId)
	}
	s.profiles[userId] = Profile{UserId: userId, Experience: ExperienceBeginner}
	return nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int) (Profile, error) {
	if profile, exists := s.profiles[userId]; exists {
		return profile, nil
	}
	return Profile{}, ErrProfileNotFound
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, profile Profile) (Profile, error) {
	if _, exists := s.profiles[userId]; !exists {
		return Profile{}, ErrProfileNotFound
	}
	profile.UserId = userId
	s.profiles[userId] = profile
	return profile, nil
}

func (s *RepositoryStub) Cleanup() {
	s.profiles = map[int]Profile{}
	s.knownUsers = map[int]bool{}
	s.ensureErr = nil
}
