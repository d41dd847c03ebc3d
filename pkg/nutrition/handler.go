package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type GoalDTO struct {
	Calories  int    `json:"calories"`
	ProteinG  int    `json:"proteinG"`
	CarbsG    int    `json:"carbsG"`
	FatG      int    `json:"fatG"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetGoal godoc
// @Summary Get current user's nutrition goal
// @Description Retrieve the daily nutrition targets of the current user
// @Tags Nutrition
// @Produce json
// @Success 200 {object} GoalDTO
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Goal Not Found"
// @Router /api/nutrition/goal [get]
// @Security XUserId
func (handler *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting current nutrition goal")
	w.Header().Set("Content-Type", "application/json")

	goal, err := handler.service.GetCurrentGoal(r.Context())
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(GoalToDTO(goal)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// SetGoal godoc
// @Summary Set current user's nutrition goal
// @Description Create or replace the daily nutrition targets of the current user
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param goal body GoalDTO true "Nutrition goal"
// @Success 200 {object} GoalDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Router /api/nutrition/goal [put]
// @Security XUserId
func (handler *Handler) SetGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting current nutrition goal")
	w.Header().Set("Content-Type", "application/json")

	var goalDTO GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&goalDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := handler.service.SetCurrentGoal(r.Context(), DTOToGoal(goalDTO))
	if err != nil {
		if errors.Is(err, ErrGoalDataInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(GoalToDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func GoalToDTO(goal Goal) GoalDTO {
	dto := GoalDTO{
		Calories: goal.Calories,
		ProteinG: goal.ProteinG,
		CarbsG:   goal.CarbsG,
		FatG:     goal.FatG,
	}
	if !goal.UpdatedAt.IsZero() {
		dto.UpdatedAt = goal.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func DTOToGoal(dto GoalDTO) Goal {
	return Goal{
		Calories: dto.Calories,
		ProteinG: dto.ProteinG,
		CarbsG:   dto.CarbsG,
		FatG:     dto.FatG,
	}
}
