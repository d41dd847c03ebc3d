package mesocycle

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/repcycle/repcycle/internal/event_bus"
	"github.com/repcycle/repcycle/internal/metrics"
	"github.com/repcycle/repcycle/internal/utils"
	"github.com/repcycle/repcycle/pkg/user"
	log "github.com/sirupsen/logrus"
)

// DependencyError marks a save aborted while ensuring the profile row.
// Nothing was written yet.
type DependencyError struct {
	Err error
}

func (e DependencyError) Error() string { return "could not ensure profile: " + e.Err.Error() }
func (e DependencyError) Unwrap() error { return e.Err }

// ParentWriteError marks a save aborted on the plan write. Day rows were not
// touched.
type ParentWriteError struct {
	Err error
}

func (e ParentWriteError) Error() string { return "could not write mesocycle: " + e.Err.Error() }
func (e ParentWriteError) Unwrap() error { return e.Err }

// ProfileEnsurer is the slice of the profile module a save depends on.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, userId int) error
}

// SaveResult is what a finished save reports: the stored plan and any
// warnings from the day reconciliation step.
type SaveResult struct {
	Plan     Mesocycle
	Warnings []string
}

// PlanProgress pairs a plan with the week it is currently in.
type PlanProgress struct {
	Plan        Mesocycle
	CurrentWeek int
}

type Service interface {
	ListMesocycles(ctx context.Context) ([]PlanProgress, error)
	// GetForEdit loads the plan together with all of its day rows.
	GetForEdit(ctx context.Context, mesocycleId int) (Mesocycle, error)
	// Save validates and stores the plan, then replaces all of its day rows.
	// Day row failures do not fail the save; they come back as warnings.
	Save(ctx context.Context, plan Mesocycle, isEditing bool) (SaveResult, error)
	DeleteMesocycle(ctx context.Context, mesocycleId int) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	profiles ProfileEnsurer
	clock    utils.Clock
	metrics  *metrics.Manager
	locks    *planLocks
}

func NewService(
	repo Repository,
	profiles ProfileEnsurer,
	eventBus *event_bus.EventBus,
	clock utils.Clock,
	metricsManager *metrics.Manager,
) Service {
	service := &ServiceImpl{
		repo:     repo,
		profiles: profiles,
		clock:    clock,
		metrics:  metricsManager,
		locks:    newPlanLocks(),
	}
	event_bus.SubscribeTyped[event_bus.RoutineDeleting](
		eventBus,
		event_bus.EventRoutineDeleting,
		func(e event_bus.EventT[event_bus.RoutineDeleting]) error {
			log.Debugf("received routine deleting event: %v", e.Data)
			detached, err := service.repo.DetachRoutine(e.Context(), e.Data.UserId, e.Data.Id)
			if err != nil {
				log.Errorf("failed to detach routine %d from mesocycle days: %v", e.Data.Id, err)
				return err
			}
			if detached > 0 {
				log.Warnf("routine %q deleted: cleared %d mesocycle day reference(s)", e.Data.Name, detached)
			}
			return nil
		},
	)
	return service
}

func (s *ServiceImpl) ListMesocycles(ctx context.Context) ([]PlanProgress, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	plans, err := s.repo.ListPlans(ctx, userId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	progress := make([]PlanProgress, 0, len(plans))
	for _, plan := range plans {
		progress = append(progress, PlanProgress{Plan: plan, CurrentWeek: plan.CurrentWeek(now)})
	}
	return progress, nil
}

func (s *ServiceImpl) GetForEdit(ctx context.Context, mesocycleId int) (Mesocycle, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Mesocycle{}, fmt.Errorf("failed to get current user: %w", err)
	}

	plan, err := s.repo.GetPlan(ctx, userId, mesocycleId)
	if err != nil {
		return Mesocycle{}, err
	}
	plan.Assignments, err = s.repo.GetAssignments(ctx, plan.Id)
	if err != nil {
		return Mesocycle{}, err
	}

	placeholders := 0
	for _, assignment := range plan.Assignments {
		if assignment.Placeholder() {
			placeholders++
		}
	}
	if placeholders > 0 {
		log.Debugf("mesocycle %d: %d placeholder day row(s) loaded as routine days", plan.Id, placeholders)
	}
	return plan, nil
}

// Save runs the steps in a fixed order: validate, ensure the profile row,
// write the plan, then replace the day rows. The first three steps abort the
// save on failure; the day step only degrades it with warnings, since the
// plan write must stand on its own.
func (s *ServiceImpl) Save(ctx context.Context, plan Mesocycle, isEditing bool) (SaveResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to get current user: %w", err)
	}

	if isEditing {
		// A second submit for the same plan waits for the first to finish.
		unlock := s.locks.lock(plan.Id)
		defer unlock()
	}

	plan.Name = strings.TrimSpace(plan.Name)
	if err := plan.Validate(); err != nil {
		return SaveResult{}, err
	}

	if err := s.profiles.Ensure(ctx, userId); err != nil {
		return SaveResult{}, DependencyError{Err: err}
	}

	var stored Mesocycle
	if isEditing {
		stored, err = s.repo.UpdatePlan(ctx, userId, plan)
	} else {
		stored, err = s.repo.CreatePlan(ctx, userId, plan)
	}
	if err != nil {
		return SaveResult{}, ParentWriteError{Err: err}
	}

	result := SaveResult{Plan: stored}
	result.Plan.Assignments, result.Warnings = s.reconcileDays(ctx, stored.Id, stored.Weeks, plan.Assignments)
	if len(result.Warnings) == 0 {
		log.Infof("saved mesocycle %d with %d day row(s)", stored.Id, len(result.Plan.Assignments))
	}
	return result, nil
}

// reconcileDays wipes and rewrites the day rows of a plan. The delete and the
// insert are independent statements; either failing is downgraded to a warning.
func (s *ServiceImpl) reconcileDays(ctx context.Context, planId int, weeks int, assignments []Assignment) ([]Assignment, []string) {
	var warnings []string

	if _, err := s.repo.deleteAssignments(ctx, planId); err != nil {
		warning := fmt.Sprintf("could not clear previous day rows: %v", err)
		log.Warnf("mesocycle %d: %s", planId, warning)
		s.metrics.CounterReconcileWarnings.Inc()
		warnings = append(warnings, warning)
	}

	rows := assignmentRows(weeks, assignments)
	if _, err := s.repo.createAssignments(ctx, planId, rows); err != nil {
		warning := fmt.Sprintf("could not store day rows: %v", err)
		log.Warnf("mesocycle %d: %s", planId, warning)
		s.metrics.CounterReconcileWarnings.Inc()
		warnings = append(warnings, warning)
		return nil, warnings
	}

	stored := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		stored = append(stored, assignmentFromRow(row))
	}
	return stored, warnings
}

func (s *ServiceImpl) DeleteMesocycle(ctx context.Context, mesocycleId int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.DeletePlan(ctx, userId, mesocycleId)
}

// planLocks hands out one mutex per plan id so that edits of the same plan
// are serialized without blocking saves of other plans.
type planLocks struct {
	mu   sync.Mutex
	byId map[int]*sync.Mutex
}

func newPlanLocks() *planLocks {
	return &planLocks{byId: map[int]*sync.Mutex{}}
}

func (l *planLocks) lock(planId int) func() {
	l.mu.Lock()
	m, ok := l.byId[planId]
	if !ok {
		m = &sync.Mutex{}
		l.byId[planId] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
