package nutrition

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrGoalNotFound = errors.New("nutrition goal not found")

type Repository interface {
	Get(ctx context.Context, userId int) (Goal, error)
	Upsert(ctx context.Context, goal Goal) (Goal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewNutritionRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) Get(ctx context.Context, userId int) (Goal, error) {
	query := `SELECT user_id, calories, protein_g, carbs_g, fat_g, updated_at
				FROM nutrition_goals WHERE user_id = $1`

	var goal Goal
	err := r.db.QueryRow(ctx, query, userId).
		Scan(&goal.UserId, &goal.Calories, &goal.ProteinG, &goal.CarbsG, &goal.FatG, &goal.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get nutrition goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return goal, nil
}

func (r RepositoryImpl) Upsert(ctx context.Context, goal Goal) (Goal, error) {
	query := `INSERT INTO nutrition_goals (user_id, calories, protein_g, carbs_g, fat_g, updated_at)
				VALUES ($1, $2, $3, $4, $5, now())
				ON CONFLICT (user_id) DO UPDATE
					SET calories = EXCLUDED.calories,
						protein_g = EXCLUDED.protein_g,
						carbs_g = EXCLUDED.carbs_g,
						fat_g = EXCLUDED.fat_g,
						updated_at = now()
				RETURNING user_id, calories, protein_g, carbs_g, fat_g, updated_at`

	var stored Goal
	err := r.db.QueryRow(ctx, query,
		goal.UserId,
		goal.Calories,
		goal.ProteinG,
		goal.CarbsG,
		goal.FatG,
	).Scan(&stored.UserId, &stored.Calories, &stored.ProteinG, &stored.CarbsG, &stored.FatG, &stored.UpdatedAt)
	if err != nil {
		err := fmt.Errorf("could not upsert nutrition goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return stored, nil
}
