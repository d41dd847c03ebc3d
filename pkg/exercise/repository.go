package exercise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type Repository interface {
	ListExercises(ctx context.Context, filter Filter) ([]Exercise, error)
	GetExercise(ctx context.Context, exerciseId int) (Exercise, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewExerciseRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) ListExercises(ctx context.Context, filter Filter) ([]Exercise, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT id, name, category, primary_muscle, secondary_muscle, equipment, difficulty, is_compound
				FROM exercises`)

	var conditions []string
	var args []interface{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Muscle != "" {
		args = append(args, filter.Muscle)
		conditions = append(conditions, fmt.Sprintf("(primary_muscle = $%d OR secondary_muscle = $%d)", len(args), len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY name")

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("could not iterate rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return exercises, nil
}

func (r RepositoryImpl) GetExercise(ctx context.Context, exerciseId int) (Exercise, error) {
	query := `SELECT id, name, category, primary_muscle, secondary_muscle, equipment, difficulty, is_compound
				FROM exercises WHERE id = $1`

	row := r.db.QueryRow(ctx, query, exerciseId)
	exercise, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Exercise{}, ErrExerciseNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get exercise: %w", err)
		log.Error(err)
		return Exercise{}, err
	}
	return exercise, nil
}

func scanExercise(row pgx.Row) (Exercise, error) {
	var exercise Exercise
	var secondaryMuscle, equipment sql.NullString
	err := row.Scan(
		&exercise.Id,
		&exercise.Name,
		&exercise.Category,
		&exercise.PrimaryMuscle,
		&secondaryMuscle,
		&equipment,
		&exercise.Difficulty,
		&exercise.IsCompound,
	)
	if err != nil {
		return Exercise{}, err
	}
	if secondaryMuscle.Valid {
		exercise.SecondaryMuscle = &secondaryMuscle.String
	}
	if equipment.Valid {
		exercise.Equipment = &equipment.String
	}
	return exercise, nil
}
