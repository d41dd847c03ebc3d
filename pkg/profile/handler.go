package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ProfileDTO struct {
	DisplayName  string   `json:"displayName"`
	BodyweightKg *float64 `json:"bodyweightKg,omitempty"`
	Experience   string   `json:"experience,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetProfile godoc
// @Summary Get current user's profile
// @Description Retrieve the training profile of the current user
// @Tags Profile
// @Produce json
// @Success 200 {object} ProfileDTO
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Profile Not Found"
// @Router /api/profile [get]
// @Security XUserId
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting current profile")
	w.Header().Set("Content-Type", "application/json")

	profile, err := handler.service.GetCurrentProfile(r.Context())
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProfileToDTO(profile)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateProfile godoc
// @Summary Update current user's profile
// @Description Update the training profile of the current user
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body ProfileDTO true "Profile"
// @Success 200 {object} ProfileDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "User not found"
// @Failure 404 {string} string "Profile Not Found"
// @Router /api/profile [put]
// @Security XUserId
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating current profile")
	w.Header().Set("Content-Type", "application/json")

	var profileDTO ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&profileDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdateCurrentProfile(r.Context(), DTOToProfile(profileDTO))
	if err != nil {
		if errors.Is(err, ErrProfileDataInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProfileToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func ProfileToDTO(profile Profile) ProfileDTO {
	return ProfileDTO{
		DisplayName:  profile.DisplayName,
		BodyweightKg: profile.BodyweightKg,
		Experience:   string(profile.Experience),
	}
}

func DTOToProfile(dto ProfileDTO) Profile {
	return Profile{
		DisplayName:  dto.DisplayName,
		BodyweightKg: dto.BodyweightKg,
		Experience:   Experience(dto.Experience),
	}
}
