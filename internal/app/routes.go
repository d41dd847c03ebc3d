package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/repcycle/repcycle/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Mesocycle plans
	r.HandleFunc("/api/mesocycle", deps.MesocycleHandler.ListMesocycles).Methods("GET")
	r.HandleFunc("/api/mesocycle", deps.MesocycleHandler.CreateMesocycle).Methods("POST")
	r.HandleFunc("/api/mesocycle/{mesocycleId}", deps.MesocycleHandler.GetMesocycle).Methods("GET")
	r.HandleFunc("/api/mesocycle/{mesocycleId}", deps.MesocycleHandler.UpdateMesocycle).Methods("PUT")
	r.HandleFunc("/api/mesocycle/{mesocycleId}", deps.MesocycleHandler.DeleteMesocycle).Methods("DELETE")

	// Routines; the pro routes must come before the {routineId} ones
	r.HandleFunc("/api/routine/pro", deps.RoutineHandler.ListProRoutines).Methods("GET")
	r.HandleFunc("/api/routine/pro/{proRoutineId}/copy", deps.RoutineHandler.CopyProRoutine).Methods("POST")
	r.HandleFunc("/api/routine", deps.RoutineHandler.ListRoutines).Methods("GET")
	r.HandleFunc("/api/routine", deps.RoutineHandler.CreateRoutine).Methods("POST")
	r.HandleFunc("/api/routine/{routineId}", deps.RoutineHandler.GetRoutine).Methods("GET")
	r.HandleFunc("/api/routine/{routineId}", deps.RoutineHandler.UpdateRoutine).Methods("PUT")
	r.HandleFunc("/api/routine/{routineId}", deps.RoutineHandler.DeleteRoutine).Methods("DELETE")

	// Exercise catalog
	r.HandleFunc("/api/exercise", deps.ExerciseHandler.ListExercises).Methods("GET")
	r.HandleFunc("/api/exercise/{exerciseId}", deps.ExerciseHandler.GetExercise).Methods("GET")

	// Training profile
	r.HandleFunc("/api/profile", deps.ProfileHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/profile", deps.ProfileHandler.UpdateProfile).Methods("PUT")

	// Nutrition goal
	r.HandleFunc("/api/nutrition/goal", deps.NutritionHandler.GetGoal).Methods("GET")
	r.HandleFunc("/api/nutrition/goal", deps.NutritionHandler.SetGoal).Methods("PUT")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}
