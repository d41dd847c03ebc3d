package mesocycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/repcycle/repcycle/internal/rest"
	log "github.com/sirupsen/logrus"
)

type AssignmentDTO struct {
	WeekIndex int    `json:"weekIndex"`
	DayIndex  int    `json:"dayIndex,omitempty"`
	Kind      string `json:"kind"`
	RoutineId *int   `json:"routineId,omitempty"`
}

type MesocycleDTO struct {
	Id          int             `json:"id,omitempty"`
	Name        string          `json:"name"`
	Focus       string          `json:"focus"`
	Weeks       int             `json:"weeks"`
	StartDate   string          `json:"startDate,omitempty"`
	Assignments []AssignmentDTO `json:"assignments"`
}

type PlanProgressDTO struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Focus       string `json:"focus"`
	Weeks       int    `json:"weeks"`
	StartDate   string `json:"startDate,omitempty"`
	CurrentWeek int    `json:"currentWeek,omitempty"`
}

// SaveResponseDTO carries the stored plan together with day reconciliation
// warnings. A response with warnings is still a successful save.
type SaveResponseDTO struct {
	Plan     MesocycleDTO `json:"plan"`
	Warnings []string     `json:"warnings,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListMesocycles godoc
// @Summary List user's mesocycles
// @Description Retrieve all training plans of the current user with their progress
// @Tags Mesocycle
// @Produce json
// @Success 200 {array} PlanProgressDTO
// @Failure 403 {string} string "User not found"
// @Router /api/mesocycle [get]
// @Security XUserId
func (handler *Handler) ListMesocycles(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing mesocycles")
	w.Header().Set("Content-Type", "application/json")

	progress, err := handler.service.ListMesocycles(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]PlanProgressDTO, 0, len(progress))
	for _, entry := range progress {
		dtos = append(dtos, PlanProgressToDTO(entry))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetMesocycle godoc
// @Summary Get a mesocycle for editing
// @Description Retrieve a training plan together with all of its day assignments
// @Tags Mesocycle
// @Produce json
// @Param mesocycleId path int true "Mesocycle ID"
// @Success 200 {object} MesocycleDTO
// @Failure 400 {string} string "Invalid mesocycle ID"
// @Failure 404 {string} string "Mesocycle Not Found"
// @Router /api/mesocycle/{mesocycleId} [get]
// @Security XUserId
func (handler *Handler) GetMesocycle(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting mesocycle")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	mesocycleId, err := strconv.Atoi(vars["mesocycleId"])
	if err != nil {
		http.Error(w, "Invalid mesocycle ID", http.StatusBadRequest)
		return
	}

	plan, err := handler.service.GetForEdit(r.Context(), mesocycleId)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(MesocycleToDTO(plan)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateMesocycle godoc
// @Summary Create a mesocycle
// @Description Create a new training plan and store its day assignments
// @Tags Mesocycle
// @Accept json
// @Produce json
// @Param mesocycle body MesocycleDTO true "Mesocycle"
// @Success 201 {object} SaveResponseDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid mesocycle data"
// @Failure 403 {string} string "User not found"
// @Router /api/mesocycle [post]
// @Security XUserId
func (handler *Handler) CreateMesocycle(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating mesocycle")
	w.Header().Set("Content-Type", "application/json")

	var planDTO MesocycleDTO
	if err := json.NewDecoder(r.Body).Decode(&planDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := DTOToMesocycle(planDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid mesocycle data",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	result, err := handler.service.Save(r.Context(), plan, false)
	if err != nil {
		handleSaveError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SaveResultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateMesocycle godoc
// @Summary Update a mesocycle
// @Description Update a training plan and replace all of its day assignments
// @Tags Mesocycle
// @Accept json
// @Produce json
// @Param mesocycleId path int true "Mesocycle ID"
// @Param mesocycle body MesocycleDTO true "Mesocycle"
// @Success 200 {object} SaveResponseDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid mesocycle data"
// @Failure 404 {string} string "Mesocycle Not Found"
// @Router /api/mesocycle/{mesocycleId} [put]
// @Security XUserId
func (handler *Handler) UpdateMesocycle(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating mesocycle")
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	mesocycleId, err := strconv.Atoi(vars["mesocycleId"])
	if err != nil {
		http.Error(w, "Invalid mesocycle ID", http.StatusBadRequest)
		return
	}

	var planDTO MesocycleDTO
	if err := json.NewDecoder(r.Body).Decode(&planDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if planDTO.Id != 0 && planDTO.Id != mesocycleId {
		http.Error(w, "Invalid mesocycle id in request body", http.StatusBadRequest)
		return
	}

	plan, err := DTOToMesocycle(planDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid mesocycle data",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	plan.Id = mesocycleId

	result, err := handler.service.Save(r.Context(), plan, true)
	if err != nil {
		handleSaveError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SaveResultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteMesocycle godoc
// @Summary Delete a mesocycle
// @Description Delete a training plan together with its day assignments
// @Tags Mesocycle
// @Param mesocycleId path int true "Mesocycle ID"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid mesocycle ID"
// @Failure 404 {string} string "Mesocycle Not Found"
// @Router /api/mesocycle/{mesocycleId} [delete]
// @Security XUserId
func (handler *Handler) DeleteMesocycle(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting mesocycle")

	vars := mux.Vars(r)
	mesocycleId, err := strconv.Atoi(vars["mesocycleId"])
	if err != nil {
		http.Error(w, "Invalid mesocycle ID", http.StatusBadRequest)
		return
	}

	deleted, err := handler.service.DeleteMesocycle(r.Context(), mesocycleId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "mesocycle not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleSaveError(w http.ResponseWriter, err error) {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid mesocycle data",
			Details: validationErr.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	if errors.Is(err, ErrPlanNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func MesocycleToDTO(plan Mesocycle) MesocycleDTO {
	assignments := make([]AssignmentDTO, 0, len(plan.Assignments))
	for _, assignment := range plan.Assignments {
		assignments = append(assignments, AssignmentDTO{
			WeekIndex: assignment.WeekIndex,
			DayIndex:  assignment.DayIndex,
			Kind:      string(assignment.Kind),
			RoutineId: assignment.RoutineId,
		})
	}
	dto := MesocycleDTO{
		Id:          plan.Id,
		Name:        plan.Name,
		Focus:       string(plan.Focus),
		Weeks:       plan.Weeks,
		Assignments: assignments,
	}
	if plan.StartDate != nil {
		dto.StartDate = plan.StartDate.Format(time.DateOnly)
	}
	return dto
}

func DTOToMesocycle(dto MesocycleDTO) (Mesocycle, error) {
	assignments := make([]Assignment, 0, len(dto.Assignments))
	for _, assignment := range dto.Assignments {
		kind := DayKind(assignment.Kind)
		if kind == "" {
			kind = DayKindRoutine
		}
		assignments = append(assignments, Assignment{
			WeekIndex: assignment.WeekIndex,
			DayIndex:  assignment.DayIndex,
			Kind:      kind,
			RoutineId: assignment.RoutineId,
		})
	}
	plan := Mesocycle{
		Id:          dto.Id,
		Name:        dto.Name,
		Focus:       Focus(dto.Focus),
		Weeks:       dto.Weeks,
		Assignments: assignments,
	}
	if dto.StartDate != "" {
		startDate, err := time.Parse(time.DateOnly, dto.StartDate)
		if err != nil {
			return Mesocycle{}, fmt.Errorf("startDate must be in YYYY-MM-DD format")
		}
		plan.StartDate = &startDate
	}
	return plan, nil
}

func PlanProgressToDTO(progress PlanProgress) PlanProgressDTO {
	dto := PlanProgressDTO{
		Id:          progress.Plan.Id,
		Name:        progress.Plan.Name,
		Focus:       string(progress.Plan.Focus),
		Weeks:       progress.Plan.Weeks,
		CurrentWeek: progress.CurrentWeek,
	}
	if progress.Plan.StartDate != nil {
		dto.StartDate = progress.Plan.StartDate.Format(time.DateOnly)
	}
	return dto
}

func SaveResultToDTO(result SaveResult) SaveResponseDTO {
	return SaveResponseDTO{
		Plan:     MesocycleToDTO(result.Plan),
		Warnings: result.Warnings,
	}
}
