package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"heroes-service/repository"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// CharacterPowerHandler handles the character↔power association routes
type CharacterPowerHandler struct {
	repo  *repository.CharacterPowerRepo
	cache cache.Cache
}

// NewCharacterPowerHandler creates a new association handler
func NewCharacterPowerHandler(repo *repository.CharacterPowerRepo, cache cache.Cache) *CharacterPowerHandler {
	return &CharacterPowerHandler{
		repo:  repo,
		cache: cache,
	}
}

// pathIDs parses the character_id/power_id path variables.
func pathIDs(r *http.Request) (characterID, powerID int64, err error) {
	vars := mux.Vars(r)
	characterID, err = parseID(vars["character_id"])
	if err != nil {
		return 0, 0, err
	}
	powerID, err = parseID(vars["power_id"])
	if err != nil {
		return 0, 0, err
	}
	return characterID, powerID, nil
}

// AssignPower handles POST /characters/{character_id}/powers/{power_id}
func (h *CharacterPowerHandler) AssignPower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	characterID, powerID, err := pathIDs(r)
	if err != nil {
		logRequest(ctx, "error", "Invalid path ids", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character or power ID"))
		return
	}

	logRequest(ctx, "info", "Assigning power",
		zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))

	err = h.repo.Assign(characterID, powerID)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Character or power not found",
			zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character or power not found"))
		return
	}
	if errors.Is(err, repository.ErrConflict) {
		logRequest(ctx, "info", "Power already assigned",
			zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errs.NewValidationError("Power already assigned to the character"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to assign power", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to assign power"))
		return
	}

	// Clear the cached listing for this character
	h.cache.Delete("character:" + mux.Vars(r)["character_id"] + ":powers")

	logRequest(ctx, "info", "Power assigned successfully",
		zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Power successfully assigned to the character"})
}

// GetCharacterPowers handles GET /characters/{character_id}/powers
// Returns the character and its powers derived through the join table.
func (h *CharacterPowerHandler) GetCharacterPowers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["character_id"]

	characterID, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid character ID", zap.String("character_id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character ID"))
		return
	}

	// Try cache first
	// The redis backend round-trips stored values through JSON, so a hit
	// comes back as a string. Anything else is treated as a miss.
	cacheKey := "character:" + idStr + ":powers"
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.(string); ok {
			logRequest(ctx, "debug", "Serving character powers from cache", zap.Int64("character_id", characterID))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
			return
		}
	}

	result, err := h.repo.ListForCharacter(characterID)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Character not found", zap.Int64("character_id", characterID))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to list character powers", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	response, _ := json.Marshal(result)
	h.cache.Set(cacheKey, string(response), 5*time.Minute)

	logRequest(ctx, "info", "Character powers retrieved successfully",
		zap.Int64("character_id", characterID), zap.Int("count", len(result.Powers)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// UnassignPower handles DELETE /characters/{character_id}/powers/{power_id}
func (h *CharacterPowerHandler) UnassignPower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	characterID, powerID, err := pathIDs(r)
	if err != nil {
		logRequest(ctx, "error", "Invalid path ids", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character or power ID"))
		return
	}

	logRequest(ctx, "info", "Unassigning power",
		zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))

	removed, err := h.repo.Unassign(characterID, powerID)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Association not found",
			zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character, power or association not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to unassign power", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to unassign power"))
		return
	}

	// Clear the cached listing for this character
	h.cache.Delete("character:" + mux.Vars(r)["character_id"] + ":powers")

	logRequest(ctx, "info", "Power unassigned successfully",
		zap.Int64("character_id", characterID), zap.Int64("power_id", powerID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(removed)
}
