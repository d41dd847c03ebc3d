package mesocycle

import (
	"context"
)

// ProfileEnsurerStub is a test stub implementation of ProfileEnsurer.
type ProfileEnsurerStub struct {
	ensured   map[int]bool
	calls     int
	ensureErr error
}

func NewProfileEnsurerStub() *ProfileEnsurerStub {
	return &ProfileEnsurerStub{ensured: map[int]bool{}}
}

func (s *ProfileEnsurerStub) Ensure(ctx context.Context, userId int) error {
	s.calls++
	if s.ensureErr != nil {
		return s.ensureErr
	}
	s.ensured[userId] = true
	return nil
}

func (s *ProfileEnsurerStub) Calls() int {
	return s.calls
}

func (s *ProfileEnsurerStub) Ensured(userId int) bool {
	return s.ensured[userId]
}

func (s *ProfileEnsurerStub) SetEnsureError(err error) {
	s.ensureErr = err
}

func (s *ProfileEnsurerStub) Reset() {
	s.ensured = map[int]bool{}
	s.calls = 0
	s.ensureErr = nil
}
