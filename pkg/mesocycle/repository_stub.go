package mesocycle

import (
	"context"
	"sort"
)

type stubPlan struct {
	plan   Mesocycle
	userId int
}

// RepositoryStub keeps plans and day rows in memory and counts every call,
// so tests can assert that a save stopped before reaching storage.
type RepositoryStub struct {
	nextId        int
	plans         map[int]stubPlan
	days          map[int][]dayRow
	calls         map[string]int
	createErr     error
	updateErr     error
	deleteDaysErr error
	createDaysErr error
}

func NewStubMesocycleRepo() *RepositoryStub {
	return &RepositoryStub{
		plans: map[int]stubPlan{},
		days:  map[int][]dayRow{},
		calls: map[string]int{},
	}
}

func (s *RepositoryStub) Calls(method string) int {
	return s.calls[method]
}

func (s *RepositoryStub) TotalCalls() int {
	total := 0
	for _, count := range s.calls {
		total += count
	}
	return total
}

func (s *RepositoryStub) SetCreateError(err error)     { s.createErr = err }
func (s *RepositoryStub) SetUpdateError(err error)     { s.updateErr = err }
func (s *RepositoryStub) SetDeleteDaysError(err error) { s.deleteDaysErr = err }
func (s *RepositoryStub) SetCreateDaysError(err error) { s.createDaysErr = err }

func (s *RepositoryStub) ListPlans(ctx context.Context, userId int) ([]Mesocycle, error) {
	s.calls["ListPlans"]++
	var plans []Mesocycle
	for _, stored := range s.plans {
		if stored.userId == userId {
			plans = append(plans, stored.plan)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Id < plans[j].Id })
	return plans, nil
}

func (s *RepositoryStub) GetPlan(ctx context.Context, userId int, planId int) (Mesocycle, error) {
	s.calls["GetPlan"]++
	if stored, exists := s.plans[planId]; exists && stored.userId == userId {
		return stored.plan, nil
	}
	return Mesocycle{}, ErrPlanNotFound
}

func (s *RepositoryStub) CreatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error) {
	s.calls["CreatePlan"]++
	if s.createErr != nil {
		return Mesocycle{}, s.createErr
	}
	s.nextId++
	plan.Id = s.nextId
	plan.Assignments = nil
	s.plans[plan.Id] = stubPlan{plan: plan, userId: userId}
	return plan, nil
}

func (s *RepositoryStub) UpdatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error) {
	s.calls["UpdatePlan"]++
	if s.updateErr != nil {
		return Mesocycle{}, s.updateErr
	}
	stored, exists := s.plans[plan.Id]
	if !exists || stored.userId != userId {
		return Mesocycle{}, ErrPlanNotFound
	}
	plan.Assignments = nil
	s.plans[plan.Id] = stubPlan{plan: plan, userId: userId}
	return plan, nil
}

func (s *RepositoryStub) DeletePlan(ctx context.Context, userId int, planId int) (bool, error) {
	s.calls["DeletePlan"]++
	if stored, exists := s.plans[planId]; exists && stored.userId == userId {
		delete(s.plans, planId)
		delete(s.days, planId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) GetAssignments(ctx context.Context, planId int) ([]Assignment, error) {
	s.calls["GetAssignments"]++
	rows := s.days[planId]
	var assignments []Assignment
	for _, row := range rows {
		assignments = append(assignments, assignmentFromRow(row))
	}
	return assignments, nil
}

func (s *RepositoryStub) DetachRoutine(ctx context.Context, userId int, routineId int) (int, error) {
	s.calls["DetachRoutine"]++
	detached := 0
	for planId, stored := range s.plans {
		if stored.userId != userId {
			continue
		}
		rows := s.days[planId]
		for i := range rows {
			if rows[i].RoutineId != nil && *rows[i].RoutineId == routineId {
				rows[i].RoutineId = nil
				detached++
			}
		}
		s.days[planId] = rows
	}
	return detached, nil
}

func (s *RepositoryStub) deleteAssignments(ctx context.Context, planId int) (int, error) {
	s.calls["deleteAssignments"]++
	if s.deleteDaysErr != nil {
		return 0, s.deleteDaysErr
	}
	count := len(s.days[planId])
	delete(s.days, planId)
	return count, nil
}

func (s *RepositoryStub) createAssignments(ctx context.Context, planId int, rows []dayRow) (int, error) {
	s.calls["createAssignments"]++
	if s.createDaysErr != nil {
		return 0, s.createDaysErr
	}
	s.days[planId] = append(s.days[planId], rows...)
	return len(rows), nil
}

func (s *RepositoryStub) Reset() {
	s.nextId = 0
	s.plans = map[int]stubPlan{}
	s.days = map[int][]dayRow{}
	s.calls = map[string]int{}
	s.createErr = nil
	s.updateErr = nil
	s.deleteDaysErr = nil
	s.createDaysErr = nil
}
