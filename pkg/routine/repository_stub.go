package routine

import (
	"context"
)

type stubRoutine struct {
	routine Routine
	userId  int
}

type RepositoryStub struct {
	nextId   int
	routines map[int]stubRoutine
}

func NewStubRoutineRepo() *RepositoryStub {
	return &RepositoryStub{routines: map[int]stubRoutine{}}
}

func (s *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	return fn(s)
}

func (s *RepositoryStub) ListRoutines(ctx context.Context, userId int) ([]Routine, error) {
	var routines []Routine
	for _, stored := range s.routines {
		if stored.userId == userId {
			routines = append(routines, stored.routine)
		}
	}
	return routines, nil
}

func (s *RepositoryStub) ListProRoutines(ctx context.Context) ([]Routine, error) {
	var routines []Routine
	for _, stored := range s.routines {
		if stored.routine.IsPro {
			routines = append(routines, stored.routine)
		}
	}
	return routines, nil
}

func (s *RepositoryStub) GetRoutine(ctx context.Context, userId int, routineId int) (Routine, error) {
	if stored, exists := s.routines[routineId]; exists && stored.userId == userId {
		return stored.routine, nil
	}
	return Routine{}, ErrRoutineNotFound
}

func (s *RepositoryStub) GetProRoutine(ctx context.Context, proRoutineId int) (Routine, error) {
	if stored, exists := s.routines[proRoutineId]; exists && stored.routine.IsPro {
		return stored.routine, nil
	}
	return Routine{}, ErrRoutineNotFound
}

func (s *RepositoryStub) DeleteRoutine(ctx context.Context, userId int, routineId int) (bool, error) {
	if stored, exists := s.routines[routineId]; exists && stored.userId == userId {
		delete(s.routines, routineId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) createRoutine(ctx context.Context, userId int, routine Routine) (Routine, error) {
	s.nextId++
	routine.Id = s.nextId
	routine.Exercises = nil
	s.routines[routine.Id] = stubRoutine{routine: routine, userId: userId}
	return routine, nil
}

func (s *RepositoryStub) updateRoutine(ctx context.Context, userId int, routine Routine) error {
	stored, exists := s.routines[routine.Id]
	if !exists || stored.userId != userId {
		return ErrRoutineNotFound
	}
	stored.routine.Name = routine.Name
	stored.routine.Description = routine.Description
	stored.routine.IsPro = routine.IsPro
	s.routines[routine.Id] = stored
	return nil
}

func (s *RepositoryStub) createExercises(ctx context.Context, routineId int, exercises []RoutineExercise) ([]RoutineExercise, error) {
	stored, exists := s.routines[routineId]
	if !exists {
		return nil, ErrRoutineNotFound
	}
	var created []RoutineExercise
	for _, exercise := range exercises {
		s.nextId++
		exercise.Id = s.nextId
		created = append(created, exercise)
	}
	stored.routine.Exercises = created
	s.routines[routineId] = stored
	return created, nil
}

func (s *RepositoryStub) deleteExercises(ctx context.Context, routineId int) (int, error) {
	stored, exists := s.routines[routineId]
	if !exists {
		return 0, nil
	}
	count := len(stored.routine.Exercises)
	stored.routine.Exercises = nil
	s.routines[routineId] = stored
	return count, nil
}

func (s *RepositoryStub) Cleanup() {
	s.routines = map[int]stubRoutine{}
	s.nextId = 0
}
