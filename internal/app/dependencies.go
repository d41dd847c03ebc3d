package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/repcycle/repcycle/internal/config"
	"github.com/repcycle/repcycle/internal/event_bus"
	"github.com/repcycle/repcycle/internal/metrics"
	"github.com/repcycle/repcycle/internal/utils"
	"github.com/repcycle/repcycle/pkg/exercise"
	"github.com/repcycle/repcycle/pkg/mesocycle"
	"github.com/repcycle/repcycle/pkg/nutrition"
	"github.com/repcycle/repcycle/pkg/profile"
	"github.com/repcycle/repcycle/pkg/routine"
	"github.com/repcycle/repcycle/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Metrics  *metrics.Manager
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	ProfileService profile.Service
	ProfileHandler *profile.Handler

	ExerciseService exercise.Service
	ExerciseHandler *exercise.Handler

	RoutineService routine.Service
	RoutineHandler *routine.Handler

	MesocycleService mesocycle.Service
	MesocycleHandler *mesocycle.Handler

	NutritionService nutrition.Service
	NutritionHandler *nutrition.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Metrics = metrics.NewManager("repcycle", "api", prometheus.DefaultRegisterer)
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	profileService := profile.NewService(profile.NewProfileRepo(db))
	deps.ProfileService = profileService
	deps.ProfileHandler = profile.NewHandler(profileService)

	deps.ExerciseService = exercise.NewService(exercise.NewExerciseRepo(db))
	deps.ExerciseHandler = exercise.NewHandler(deps.ExerciseService)

	deps.RoutineService = routine.NewService(routine.NewRepo(db), deps.EventBus, deps.Metrics)
	deps.RoutineHandler = routine.NewHandler(deps.RoutineService)

	// subscribes to routine deleting events on the shared bus
	deps.MesocycleService = mesocycle.NewService(
		mesocycle.NewMesocycleRepo(db),
		profileService,
		deps.EventBus,
		deps.Clock,
		deps.Metrics,
	)
	deps.MesocycleHandler = mesocycle.NewHandler(deps.MesocycleService)

	deps.NutritionService = nutrition.NewService(nutrition.NewNutritionRepo(db))
	deps.NutritionHandler = nutrition.NewHandler(deps.NutritionService)

	return deps
}
