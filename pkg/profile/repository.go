package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	Ensure(ctx context.Context, userId int) error
	Get(ctx context.Context, userId int) (Profile, error)
	Update(ctx context.Context, userId int, profile Profile) (Profile, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewProfileRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// Ensure creates the profile row for a user if it does not exist yet.
// The display name is seeded from the user record. Calling it again for the
// same user is a no-op.
func (r RepositoryImpl) Ensure(ctx context.Context, userId int) error {
	query := `INSERT INTO profiles (user_id, display_name)
				SELECT id, display_name FROM users WHERE id = $1
				ON CONFLICT (user_id) DO NOTHING`
	result, err := r.db.Exec(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	if result.RowsAffected() == 0 {
		// Either the profile already existed or the user id is unknown.
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, userId,
		).Scan(&exists); err != nil {
			err := fmt.Errorf("could not verify profile existence: %w", err)
			log.Error(err)
			return err
		}
		if !exists {
			return fmt.Errorf("cannot create profile: user %d does not exist", userId)
		}
	}
	return nil
}

func (r RepositoryImpl) Get(ctx context.Context, userId int) (Profile, error) {
	query := `SELECT user_id, display_name, bodyweight_kg, experience FROM profiles WHERE user_id = $1`

	var profile Profile
	var bodyweight sql.NullFloat64
	err := r.db.QueryRow(ctx, query, userId).
		Scan(
			&profile.UserId,
			&profile.DisplayName,
			&bodyweight,
			&profile.Experience,
		)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get profile: %w", err)
		log.Error(err)
		return Profile{}, err
	}
	if bodyweight.Valid {
		profile.BodyweightKg = &bodyweight.Float64
	}
	return profile, nil
}

func (r RepositoryImpl) Update(ctx context.Context, userId int, profile Profile) (Profile, error) {
	query := `UPDATE profiles
				SET display_name = $1, bodyweight_kg = $2, experience = $3, updated_at = now()
				WHERE user_id = $4`

	var bodyweight sql.NullFloat64
	if profile.BodyweightKg != nil {
		bodyweight = sql.NullFloat64{Float64: *profile.BodyweightKg, Valid: true}
	}

	result, err := r.db.Exec(ctx, query,
		profile.DisplayName,
		bodyweight,
		profile.Experience,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Profile{}, err
	}
	if result.RowsAffected() == 0 {
		return Profile{}, ErrProfileNotFound
	}
	profile.UserId = userId
	return profile, nil
}
