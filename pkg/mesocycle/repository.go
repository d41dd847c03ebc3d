package mesocycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("mesocycle not found")

// Repository stores plans and their day rows. Plan writes and day writes are
// separate calls on purpose: a failed day write must never take the plan
// write down with it.
type Repository interface {
	ListPlans(ctx context.Context, userId int) ([]Mesocycle, error)
	GetPlan(ctx context.Context, userId int, planId int) (Mesocycle, error)
	CreatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error)
	UpdatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error)
	DeletePlan(ctx context.Context, userId int, planId int) (bool, error)
	GetAssignments(ctx context.Context, planId int) ([]Assignment, error)
	// DetachRoutine clears the routine reference from all day rows of the
	// user's plans. The rows keep their slot and week.
	DetachRoutine(ctx context.Context, userId int, routineId int) (int, error)
	deleteAssignments(ctx context.Context, planId int) (int, error)
	createAssignments(ctx context.Context, planId int, rows []dayRow) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewMesocycleRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) ListPlans(ctx context.Context, userId int) ([]Mesocycle, error) {
	query := `SELECT id, name, focus, weeks, start_date FROM mesocycles WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var plans []Mesocycle
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r RepositoryImpl) GetPlan(ctx context.Context, userId int, planId int) (Mesocycle, error) {
	query := `SELECT id, name, focus, weeks, start_date FROM mesocycles WHERE id = $1 AND user_id = $2`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, planId, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mesocycle{}, ErrPlanNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get mesocycle: %w", err)
		log.Error(err)
		return Mesocycle{}, err
	}
	return plan, nil
}

func (r RepositoryImpl) CreatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error) {
	query := `INSERT INTO mesocycles (user_id, name, focus, weeks, start_date)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, name, focus, weeks, start_date`

	created, err := scanPlan(r.db.QueryRow(ctx, query,
		userId,
		plan.Name,
		plan.Focus,
		plan.Weeks,
		startDateArg(plan.StartDate),
	))
	if err != nil {
		err := fmt.Errorf("could not create mesocycle: %w", err)
		log.Error(err)
		return Mesocycle{}, err
	}
	return created, nil
}

func (r RepositoryImpl) UpdatePlan(ctx context.Context, userId int, plan Mesocycle) (Mesocycle, error) {
	query := `UPDATE mesocycles SET name = $1, focus = $2, weeks = $3, start_date = $4, updated_at = now()
				WHERE id = $5 AND user_id = $6
				RETURNING id, name, focus, weeks, start_date`

	updated, err := scanPlan(r.db.QueryRow(ctx, query,
		plan.Name,
		plan.Focus,
		plan.Weeks,
		startDateArg(plan.StartDate),
		plan.Id,
		userId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mesocycle{}, ErrPlanNotFound
	} else if err != nil {
		err := fmt.Errorf("could not update mesocycle: %w", err)
		log.Error(err)
		return Mesocycle{}, err
	}
	return updated, nil
}

func (r RepositoryImpl) DeletePlan(ctx context.Context, userId int, planId int) (bool, error) {
	query := `DELETE FROM mesocycles WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, planId, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r RepositoryImpl) GetAssignments(ctx context.Context, planId int) ([]Assignment, error) {
	query := `SELECT week_index, day_index, routine_id, day_type
				FROM mesocycle_days
				WHERE mesocycle_id = $1
				ORDER BY week_index, day_index, id`
	rows, err := r.db.Query(ctx, query, planId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var row dayRow
		var dayIndex, routineId sql.NullInt64
		var dayType sql.NullString
		if err := rows.Scan(&row.WeekIndex, &dayIndex, &routineId, &dayType); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		if dayIndex.Valid {
			day := int(dayIndex.Int64)
			row.DayIndex = &day
		}
		if routineId.Valid {
			routine := int(routineId.Int64)
			row.RoutineId = &routine
		}
		if dayType.Valid {
			row.DayType = &dayType.String
		}
		assignments = append(assignments, assignmentFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r RepositoryImpl) DetachRoutine(ctx context.Context, userId int, routineId int) (int, error) {
	query := `UPDATE mesocycle_days SET routine_id = NULL
				WHERE routine_id = $1
				AND mesocycle_id IN (SELECT id FROM mesocycles WHERE user_id = $2)`
	result, err := r.db.Exec(ctx, query, routineId, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r RepositoryImpl) deleteAssignments(ctx context.Context, planId int) (int, error) {
	query := `DELETE FROM mesocycle_days WHERE mesocycle_id = $1`
	result, err := r.db.Exec(ctx, query, planId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r RepositoryImpl) createAssignments(ctx context.Context, planId int, rows []dayRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var valuesBuilder strings.Builder
	args := make([]any, 0, len(rows)*5)
	placeholder := 1
	for idx, row := range rows {
		if idx > 0 {
			valuesBuilder.WriteByte(',')
		}
		valuesBuilder.WriteString("(")
		for i := 0; i < 5; i++ {
			if i > 0 {
				valuesBuilder.WriteByte(',')
			}
			fmt.Fprintf(&valuesBuilder, "$%d", placeholder)
			placeholder++
		}
		valuesBuilder.WriteString(")")

		args = append(args,
			planId,
			row.WeekIndex,
			row.DayIndex,
			row.RoutineId,
			row.DayType,
		)
	}

	query := fmt.Sprintf(`INSERT INTO mesocycle_days (
                            mesocycle_id,
                            week_index,
                            day_index,
                            routine_id,
                            day_type
                  ) VALUES %s`, valuesBuilder.String())

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func scanPlan(row pgx.Row) (Mesocycle, error) {
	var plan Mesocycle
	var startDate sql.NullTime
	err := row.Scan(&plan.Id, &plan.Name, &plan.Focus, &plan.Weeks, &startDate)
	if err != nil {
		return Mesocycle{}, err
	}
	if startDate.Valid {
		plan.StartDate = &startDate.Time
	}
	return plan, nil
}

func startDateArg(startDate *time.Time) sql.NullTime {
	if startDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *startDate, Valid: true}
}
