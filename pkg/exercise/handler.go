package exercise

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ExerciseDTO struct {
	Id              int     `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	PrimaryMuscle   string  `json:"primaryMuscle"`
	SecondaryMuscle *string `json:"secondaryMuscle,omitempty"`
	Equipment       *string `json:"equipment,omitempty"`
	Difficulty      string  `json:"difficulty"`
	IsCompound      bool    `json:"isCompound"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListExercises godoc
// @Summary List catalog exercises
// @Description Retrieve the exercise catalog, optionally filtered by category, muscle or name
// @Tags Exercise
// @Produce json
// @Param category query string false "Exercise category"
// @Param muscle query string false "Primary or secondary muscle"
// @Param q query string false "Name fragment"
// @Success 200 {array} ExerciseDTO
// @Router /api/exercise [get]
// @Security XUserId
func (handler *Handler) ListExercises(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing exercises")
	w.Header().Set("Content-Type", "application/json")

	filter := Filter{
		Category: r.URL.Query().Get("category"),
		Muscle:   r.URL.Query().Get("muscle"),
		Query:    r.URL.Query().Get("q"),
	}

	exercises, err := handler.service.ListExercises(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ExerciseDTO, 0, len(exercises))
	for _, exercise := range exercises {
		dtos = append(dtos, ExerciseToDTO(exercise))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetExercise godoc
// @Summary Get a single exercise
// @Description Retrieve one exercise from the catalog by its id
// @Tags Exercise
// @Produce json
// @Param exerciseId path int true "Exercise ID"
// @Success 200 {object} ExerciseDTO
// @Failure 400 {string} string "Invalid exercise ID"
// @Failure 404 {string} string "Exercise Not Found"
// @Router /api/exercise/{exerciseId} [get]
// @Security XUserId
func (handler *Handler) GetExercise(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting exercise")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	exerciseId, err := strconv.Atoi(vars["exerciseId"])
	if err != nil {
		http.Error(w, "Invalid exercise ID", http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.GetExercise(r.Context(), exerciseId)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExerciseToDTO(exercise)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ExerciseToDTO(exercise Exercise) ExerciseDTO {
	return ExerciseDTO{
		Id:              exercise.Id,
		Name:            exercise.Name,
		Category:        exercise.Category,
		PrimaryMuscle:   exercise.PrimaryMuscle,
		SecondaryMuscle: exercise.SecondaryMuscle,
		Equipment:       exercise.Equipment,
		Difficulty:      exercise.Difficulty,
		IsCompound:      exercise.IsCompound,
	}
}
