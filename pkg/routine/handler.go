package routine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type RoutineDTO struct {
	Id          int                  `json:"id,omitempty"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	IsPro       bool                 `json:"isPro"`
	Exercises   []RoutineExerciseDTO `json:"exercises,omitempty"`
}

type RoutineExerciseDTO struct {
	Id           int    `json:"id,omitempty"`
	ExerciseId   int    `json:"exerciseId"`
	ExerciseName string `json:"exerciseName,omitempty"`
	Position     int    `json:"position,omitempty"`
	TargetSets   int    `json:"targetSets"`
	TargetReps   string `json:"targetReps"`
	RestSeconds  int    `json:"restSeconds"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListRoutines godoc
// @Summary List user's routines
// @Description Retrieve all routines of the current user
// @Tags Routine
// @Produce json
// @Success 200 {array} RoutineDTO
// @Failure 403 {string} string "User not found"
// @Router /api/routine [get]
// @Security XUserId
func (handler *Handler) ListRoutines(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing routines")
	w.Header().Set("Content-Type", "application/json")

	routines, err := handler.service.ListRoutines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]RoutineDTO, 0, len(routines))
	for _, routine := range routines {
		dtos = append(dtos, RoutineToDTO(routine))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ListProRoutines godoc
// @Summary List pro routine templates
// @Description Retrieve all pro templates authored by trainers
// @Tags Routine
// @Produce json
// @Success 200 {array} RoutineDTO
// @Router /api/routine/pro [get]
// @Security XUserId
func (handler *Handler) ListProRoutines(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing pro routines")
	w.Header().Set("Content-Type", "application/json")

	routines, err := handler.service.ListProRoutines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]RoutineDTO, 0, len(routines))
	for _, routine := range routines {
		dtos = append(dtos, RoutineToDTO(routine))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetRoutine godoc
// @Summary Get a routine
// @Description Retrieve a single routine with its exercises
// @Tags Routine
// @Produce json
// @Param routineId path int true "Routine ID"
// @Success 200 {object} RoutineDTO
// @Failure 400 {string} string "Invalid routine ID"
// @Failure 404 {string} string "Routine Not Found"
// @Router /api/routine/{routineId} [get]
// @Security XUserId
func (handler *Handler) GetRoutine(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting routine")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	routineId, err := strconv.Atoi(vars["routineId"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}

	routine, err := handler.service.GetRoutine(r.Context(), routineId)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(RoutineToDTO(routine)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateRoutine godoc
// @Summary Create a routine
// @Description Create a new routine with its exercises
// @Tags Routine
// @Accept json
// @Produce json
// @Param routine body RoutineDTO true "Routine"
// @Success 201 {object} RoutineDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "Forbidden"
// @Router /api/routine [post]
// @Security XUserId
func (handler *Handler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating routine")
	w.Header().Set("Content-Type", "application/json")

	var routineDTO RoutineDTO
	if err := json.NewDecoder(r.Body).Decode(&routineDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.CreateRoutine(r.Context(), DTOToRoutine(routineDTO))
	if err != nil {
		handleRoutineError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(RoutineToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateRoutine godoc
// @Summary Update a routine
// @Description Replace a routine and all of its exercises
// @Tags Routine
// @Accept json
// @Produce json
// @Param routineId path int true "Routine ID"
// @Param routine body RoutineDTO true "Routine"
// @Success 200 {object} RoutineDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Routine Not Found"
// @Router /api/routine/{routineId} [put]
// @Security XUserId
func (handler *Handler) UpdateRoutine(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating routine")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	routineId, err := strconv.Atoi(vars["routineId"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}

	var routineDTO RoutineDTO
	if err := json.NewDecoder(r.Body).Decode(&routineDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if routineDTO.Id != 0 && routineDTO.Id != routineId {
		http.Error(w, "Invalid routine id in request body", http.StatusBadRequest)
		return
	}

	routine := DTOToRoutine(routineDTO)
	routine.Id = routineId

	updated, err := handler.service.UpdateRoutine(r.Context(), routine)
	if err != nil {
		handleRoutineError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(RoutineToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Description Delete a routine; mesocycle days referencing it keep their slot but lose the reference
// @Tags Routine
// @Param routineId path int true "Routine ID"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid routine ID"
// @Failure 404 {string} string "Routine Not Found"
// @Router /api/routine/{routineId} [delete]
// @Security XUserId
func (handler *Handler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting routine")

	vars := mux.Vars(r)
	routineId, err := strconv.Atoi(vars["routineId"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}

	deleted, err := handler.service.DeleteRoutine(r.Context(), routineId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CopyProRoutine godoc
// @Summary Copy a pro template
// @Description Copy a pro routine template into the current user's library
// @Tags Routine
// @Produce json
// @Param proRoutineId path int true "Pro routine ID"
// @Success 201 {object} RoutineDTO
// @Failure 400 {string} string "Invalid routine ID"
// @Failure 404 {string} string "Routine Not Found"
// @Router /api/routine/pro/{proRoutineId}/copy [post]
// @Security XUserId
func (handler *Handler) CopyProRoutine(w http.ResponseWriter, r *http.Request) {
	log.Debug("Copying pro routine")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	proRoutineId, err := strconv.Atoi(vars["proRoutineId"])
	if err != nil {
		http.Error(w, "Invalid routine ID", http.StatusBadRequest)
		return
	}

	copied, err := handler.service.CopyProRoutine(r.Context(), proRoutineId)
	if err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(RoutineToDTO(copied)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func handleRoutineError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrRoutineDataInvalid) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, ErrProAuthoringForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func RoutineToDTO(routine Routine) RoutineDTO {
	exercises := make([]RoutineExerciseDTO, 0, len(routine.Exercises))
	for _, exercise := range routine.Exercises {
		exercises = append(exercises, RoutineExerciseDTO{
			Id:           exercise.Id,
			ExerciseId:   exercise.ExerciseId,
			ExerciseName: exercise.ExerciseName,
			Position:     exercise.Position,
			TargetSets:   exercise.TargetSets,
			TargetReps:   exercise.TargetReps,
			RestSeconds:  exercise.RestSeconds,
		})
	}
	return RoutineDTO{
		Id:          routine.Id,
		Name:        routine.Name,
		Description: routine.Description,
		IsPro:       routine.IsPro,
		Exercises:   exercises,
	}
}

func DTOToRoutine(dto RoutineDTO) Routine {
	exercises := make([]RoutineExercise, 0, len(dto.Exercises))
	for _, exercise := range dto.Exercises {
		exercises = append(exercises, RoutineExercise{
			Id:          exercise.Id,
			ExerciseId:  exercise.ExerciseId,
			Position:    exercise.Position,
			TargetSets:  exercise.TargetSets,
			TargetReps:  exercise.TargetReps,
			RestSeconds: exercise.RestSeconds,
		})
	}
	return Routine{
		Id:          dto.Id,
		Name:        dto.Name,
		Description: dto.Description,
		IsPro:       dto.IsPro,
		Exercises:   exercises,
	}
}
