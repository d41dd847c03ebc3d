package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrRoutineNotFound = errors.New("routine not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	ListRoutines(ctx context.Context, userId int) ([]Routine, error)
	ListProRoutines(ctx context.Context) ([]Routine, error)
	GetRoutine(ctx context.Context, userId int, routineId int) (Routine, error)
	GetProRoutine(ctx context.Context, proRoutineId int) (Routine, error)
	DeleteRoutine(ctx context.Context, userId int, routineId int) (bool, error)
	createRoutine(ctx context.Context, userId int, routine Routine) (Routine, error)
	updateRoutine(ctx context.Context, userId int, routine Routine) error
	createExercises(ctx context.Context, routineId int, exercises []RoutineExercise) ([]RoutineExercise, error)
	// deleteExercises removes all exercise rows of a routine.
	deleteExercises(ctx context.Context, routineId int) (int, error)
}

type repositoryImpl struct {
	db *pgxpool.Pool
	tx pgx.Tx
}

func NewRepo(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *repositoryImpl) getQueryer() interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &repositoryImpl{db: r.db, tx: tx}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *repositoryImpl) ListRoutines(ctx context.Context, userId int) ([]Routine, error) {
	query := `SELECT id, name, description, is_pro FROM routines WHERE user_id = $1 ORDER BY name`
	rows, err := r.getQueryer().Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanRoutines(rows)
}

func (r *repositoryImpl) ListProRoutines(ctx context.Context) ([]Routine, error) {
	query := `SELECT id, name, description, is_pro FROM routines WHERE is_pro = true ORDER BY name`
	rows, err := r.getQueryer().Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanRoutines(rows)
}

func (r *repositoryImpl) GetRoutine(ctx context.Context, userId int, routineId int) (Routine, error) {
	query := `SELECT id, name, description, is_pro FROM routines WHERE id = $1 AND user_id = $2`

	var routine Routine
	err := r.getQueryer().QueryRow(ctx, query, routineId, userId).Scan(
		&routine.Id,
		&routine.Name,
		&routine.Description,
		&routine.IsPro,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Routine{}, ErrRoutineNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get routine: %w", err)
		log.Error(err)
		return Routine{}, err
	}

	routine.Exercises, err = r.getExercises(ctx, routine.Id)
	if err != nil {
		return Routine{}, err
	}
	return routine, nil
}

// GetProRoutine fetches a pro template regardless of who owns it.
func (r *repositoryImpl) GetProRoutine(ctx context.Context, proRoutineId int) (Routine, error) {
	query := `SELECT id, name, description, is_pro FROM routines WHERE id = $1 AND is_pro = true`

	var routine Routine
	err := r.getQueryer().QueryRow(ctx, query, proRoutineId).Scan(
		&routine.Id,
		&routine.Name,
		&routine.Description,
		&routine.IsPro,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Routine{}, ErrRoutineNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get pro routine: %w", err)
		log.Error(err)
		return Routine{}, err
	}

	routine.Exercises, err = r.getExercises(ctx, routine.Id)
	if err != nil {
		return Routine{}, err
	}
	return routine, nil
}

func (r *repositoryImpl) DeleteRoutine(ctx context.Context, userId int, routineId int) (bool, error) {
	query := `DELETE FROM routines WHERE id = $1 AND user_id = $2`
	result, err := r.getQueryer().Exec(ctx, query, routineId, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *repositoryImpl) createRoutine(ctx context.Context, userId int, routine Routine) (Routine, error) {
	query := `INSERT INTO routines (user_id, name, description, is_pro)
				VALUES ($1, $2, $3, $4)
				RETURNING id, name, description, is_pro`

	var created Routine
	err := r.getQueryer().QueryRow(ctx, query,
		userId,
		routine.Name,
		routine.Description,
		routine.IsPro,
	).Scan(&created.Id, &created.Name, &created.Description, &created.IsPro)
	if err != nil {
		err := fmt.Errorf("could not create routine: %w", err)
		log.Error(err)
		return Routine{}, err
	}
	return created, nil
}

func (r *repositoryImpl) updateRoutine(ctx context.Context, userId int, routine Routine) error {
	query := `UPDATE routines SET name = $1, description = $2, is_pro = $3, updated_at = now()
				WHERE id = $4 AND user_id = $5`
	result, err := r.getQueryer().Exec(ctx, query,
		routine.Name,
		routine.Description,
		routine.IsPro,
		routine.Id,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update routine: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *repositoryImpl) getExercises(ctx context.Context, routineId int) ([]RoutineExercise, error) {
	query := `SELECT re.id, re.exercise_id, e.name, re.position, re.target_sets, re.target_reps, re.rest_seconds
				FROM routine_exercises re
				JOIN exercises e ON re.exercise_id = e.id
				WHERE re.routine_id = $1
				ORDER BY re.position`
	rows, err := r.getQueryer().Query(ctx, query, routineId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var exercises []RoutineExercise
	for rows.Next() {
		var exercise RoutineExercise
		if err := rows.Scan(
			&exercise.Id,
			&exercise.ExerciseId,
			&exercise.ExerciseName,
			&exercise.Position,
			&exercise.TargetSets,
			&exercise.TargetReps,
			&exercise.RestSeconds,
		); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *repositoryImpl) createExercises(ctx context.Context, routineId int, exercises []RoutineExercise) ([]RoutineExercise, error) {
	if len(exercises) == 0 {
		return nil, nil
	}

	var valuesBuilder strings.Builder
	args := make([]any, 0, len(exercises)*6)
	placeholder := 1
	for idx, exercise := range exercises {
		if idx > 0 {
			valuesBuilder.WriteByte(',')
		}
		valuesBuilder.WriteString("(")
		for i := 0; i < 6; i++ {
			if i > 0 {
				valuesBuilder.WriteByte(',')
			}
			fmt.Fprintf(&valuesBuilder, "$%d", placeholder)
			placeholder++
		}
		valuesBuilder.WriteString(")")

		args = append(args,
			routineId,
			exercise.ExerciseId,
			exercise.Position,
			exercise.TargetSets,
			exercise.TargetReps,
			exercise.RestSeconds,
		)
	}

	query := fmt.Sprintf(`INSERT INTO routine_exercises (
                            routine_id,
                            exercise_id,
                            position,
                            target_sets,
                            target_reps,
                            rest_seconds
                  ) VALUES %s RETURNING
                            id,
                            exercise_id,
                            position,
                            target_sets,
                            target_reps,
                            rest_seconds`, valuesBuilder.String())

	rows, err := r.getQueryer().Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var created []RoutineExercise
	for rows.Next() {
		var exercise RoutineExercise
		err := rows.Scan(
			&exercise.Id,
			&exercise.ExerciseId,
			&exercise.Position,
			&exercise.TargetSets,
			&exercise.TargetReps,
			&exercise.RestSeconds,
		)
		if err != nil {
			return nil, err
		}
		created = append(created, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return created, nil
}

func (r *repositoryImpl) deleteExercises(ctx context.Context, routineId int) (int, error) {
	query := `DELETE FROM routine_exercises WHERE routine_id = $1`
	result, err := r.getQueryer().Exec(ctx, query, routineId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func scanRoutines(rows pgx.Rows) ([]Routine, error) {
	var routines []Routine
	for rows.Next() {
		var routine Routine
		if err := rows.Scan(&routine.Id, &routine.Name, &routine.Description, &routine.IsPro); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		routines = append(routines, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}
