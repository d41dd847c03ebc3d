package user

import (
	"context"
)

type StubUserRepository struct {
	nextId     int
	data       map[int]User
	createErr  error
	usernameAv bool
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{
		nextId:     2,
		data:       map[int]User{},
		usernameAv: true,
	}
}

func (s *StubUserRepository) SetCreateError(err error) {
	s.createErr = err
}

func (s *StubUserRepository) SetUsernameAvailable(available bool) {
	s.usernameAv = available
}

func (s *StubUserRepository) Reset() {
	s.nextId = 2
	s.data = map[int]User{}
	s.createErr = nil
	s.usernameAv = true
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (int, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextId++
	user.Id = s.nextId
	s.data[s.nextId] = user
	return s.nextId, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	if _, ok := s.data[userId]; !ok {
		return User{}, ErrUserNotFound
	}
	user.Id = userId
	s.data[userId] = user
	return user, nil
}

func (s *StubUserRepository) DeleteUser(ctx context.Context, id int) error {
	if _, ok := s.data[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubUserRepository) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	for _, user := range s.data {
		users = append(users, user)
	}
	return users, nil
}

func (s *StubUserRepository) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if !s.usernameAv {
		return false, nil
	}
	for _, user := range s.data {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}
