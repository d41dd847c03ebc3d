package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/repcycle/repcycle/internal/event_bus"
	"github.com/repcycle/repcycle/internal/metrics"
	"github.com/repcycle/repcycle/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrRoutineDataInvalid = errors.New("routine data is invalid")
var ErrProAuthoringForbidden = errors.New("only trainers can author pro routines")

type Service interface {
	ListRoutines(ctx context.Context) ([]Routine, error)
	ListProRoutines(ctx context.Context) ([]Routine, error)
	GetRoutine(ctx context.Context, routineId int) (Routine, error)
	CreateRoutine(ctx context.Context, routine Routine) (Routine, error)
	UpdateRoutine(ctx context.Context, routine Routine) (Routine, error)
	DeleteRoutine(ctx context.Context, routineId int) (bool, error)
	CopyProRoutine(ctx context.Context, proRoutineId int) (Routine, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	metrics  *metrics.Manager
}

func NewService(repo Repository, eventBus *event_bus.EventBus, metrics *metrics.Manager) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, metrics: metrics}
}

func (s *ServiceImpl) ListRoutines(ctx context.Context) ([]Routine, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListRoutines(ctx, userId)
}

func (s *ServiceImpl) ListProRoutines(ctx context.Context) ([]Routine, error) {
	return s.repo.ListProRoutines(ctx)
}

func (s *ServiceImpl) GetRoutine(ctx context.Context, routineId int) (Routine, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Routine{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetRoutine(ctx, userId, routineId)
}

func (s *ServiceImpl) CreateRoutine(ctx context.Context, routine Routine) (Routine, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Routine{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := normalizeRoutine(&routine); err != nil {
		return Routine{}, err
	}
	if err := s.checkProAuthoring(ctx, routine); err != nil {
		return Routine{}, err
	}

	var created Routine
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		var err error
		created, err = repo.createRoutine(ctx, userId, routine)
		if err != nil {
			return err
		}
		created.Exercises, err = repo.createExercises(ctx, created.Id, routine.Exercises)
		return err
	})
	if err != nil {
		return Routine{}, err
	}
	return s.repo.GetRoutine(ctx, userId, created.Id)
}

// UpdateRoutine replaces the whole routine, exercise rows included.
func (s *ServiceImpl) UpdateRoutine(ctx context.Context, routine Routine) (Routine, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Routine{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := normalizeRoutine(&routine); err != nil {
		return Routine{}, err
	}
	if err := s.checkProAuthoring(ctx, routine); err != nil {
		return Routine{}, err
	}

	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		if err := repo.updateRoutine(ctx, userId, routine); err != nil {
			return err
		}
		if _, err := repo.deleteExercises(ctx, routine.Id); err != nil {
			return err
		}
		_, err := repo.createExercises(ctx, routine.Id, routine.Exercises)
		return err
	})
	if err != nil {
		return Routine{}, err
	}
	return s.repo.GetRoutine(ctx, userId, routine.Id)
}

// DeleteRoutine announces the deletion on the event bus first, so other
// modules can detach their references while the routine still exists.
func (s *ServiceImpl) DeleteRoutine(ctx context.Context, routineId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	routine, err := s.repo.GetRoutine(ctx, userId, routineId)
	if errors.Is(err, ErrRoutineNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	event := event_bus.NewEvent(ctx, event_bus.EventRoutineDeleting, event_bus.RoutineDeleting{
		Id:     routine.Id,
		UserId: userId,
		Name:   routine.Name,
	})
	if err := s.eventBus.Publish(event); err != nil {
		// Deletion proceeds anyway; dangling references are cleared by the schema.
		log.Warnf("routine.deleting handlers reported errors: %v", err)
	}

	return s.repo.DeleteRoutine(ctx, userId, routineId)
}

// CopyProRoutine snapshots a pro template into the current user's library.
// The copy is independent of the template and stays editable.
func (s *ServiceImpl) CopyProRoutine(ctx context.Context, proRoutineId int) (Routine, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Routine{}, fmt.Errorf("failed to get current user: %w", err)
	}

	var copied Routine
	err = s.repo.WithTransaction(ctx, func(repo Repository) error {
		source, err := repo.GetProRoutine(ctx, proRoutineId)
		if err != nil {
			return err
		}

		copied, err = repo.createRoutine(ctx, userId, Routine{
			Name:        source.Name,
			Description: source.Description,
		})
		if err != nil {
			return err
		}
		copied.Exercises, err = repo.createExercises(ctx, copied.Id, source.Exercises)
		return err
	})
	if err != nil {
		return Routine{}, err
	}

	s.metrics.CounterProRoutineCopies.Inc()
	log.Infof("copied pro routine %d for user %d", proRoutineId, userId)
	return s.repo.GetRoutine(ctx, userId, copied.Id)
}

func (s *ServiceImpl) checkProAuthoring(ctx context.Context, routine Routine) error {
	if !routine.IsPro {
		return nil
	}
	role, err := user.CurrentRole(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if role != user.RoleTrainer {
		return ErrProAuthoringForbidden
	}
	return nil
}

func normalizeRoutine(routine *Routine) error {
	routine.Name = strings.TrimSpace(routine.Name)
	if routine.Name == "" {
		return ErrRoutineDataInvalid
	}
	routine.Description = strings.TrimSpace(routine.Description)

	for i := range routine.Exercises {
		exercise := &routine.Exercises[i]
		if exercise.ExerciseId <= 0 {
			return ErrRoutineDataInvalid
		}
		if exercise.TargetSets < 0 || exercise.RestSeconds < 0 {
			return ErrRoutineDataInvalid
		}
		if exercise.TargetSets == 0 {
			exercise.TargetSets = 3
		}
		if exercise.TargetReps == "" {
			exercise.TargetReps = "8-12"
		}
		// Request order is authoritative for positions.
		exercise.Position = i + 1
	}
	return nil
}
