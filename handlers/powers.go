package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"heroes-service/models"
	"heroes-service/repository"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// PowerHandler handles power-related operations
// Creation and deletion are registered with bearer auth; the remaining
// routes are open.
type PowerHandler struct {
	repo  *repository.PowerRepo
	cache cache.Cache
}

// NewPowerHandler creates a new power handler
func NewPowerHandler(repo *repository.PowerRepo, cache cache.Cache) *PowerHandler {
	return &PowerHandler{
		repo:  repo,
		cache: cache,
	}
}

// CreatePower handles POST /powers (bearer token required)
func (h *PowerHandler) CreatePower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreatePowerRequest
	if err := decodeStrict(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid power body"))
		return
	}

	if req.PowerName == "" || req.PowerDamage == nil {
		logRequest(ctx, "error", "Missing required fields")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("power_name and power_damage are required"))
		return
	}
	if !models.DamageInRange(*req.PowerDamage) {
		logRequest(ctx, "error", "Power damage out of range", zap.Int("power_damage", *req.PowerDamage))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("power_damage must be between 0 and 1000"))
		return
	}

	logRequest(ctx, "info", "Creating power", zap.String("power_name", req.PowerName))

	power, err := h.repo.Create(req.PowerName, *req.PowerDamage)
	if errors.Is(err, repository.ErrConflict) {
		logRequest(ctx, "info", "Power name already exists", zap.String("power_name", req.PowerName))
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errs.NewValidationError("Power name already exists"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to create power", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to create power"))
		return
	}

	logRequest(ctx, "info", "Power created successfully", zap.Int64("power_id", power.PowerID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(power)
}

// GetPowers handles GET /powers - paginated list
func (h *PowerHandler) GetPowers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	logRequest(ctx, "info", "Listing powers", zap.Int("offset", offset), zap.Int("limit", limit))

	powers, err := h.repo.List(offset, limit)
	if err != nil {
		logRequest(ctx, "error", "Failed to list powers", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	logRequest(ctx, "info", "Powers retrieved successfully", zap.Int("count", len(powers)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(powers)
}

// GetPower handles GET /powers/{id} - always the single power for the
// given id, never the whole list.
func (h *PowerHandler) GetPower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid power ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid power ID"))
		return
	}

	// Try cache first
	// The redis backend round-trips stored values through JSON, so a hit
	// comes back as a string. Anything else is treated as a miss.
	cacheKey := "power:" + idStr
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.(string); ok {
			logRequest(ctx, "debug", "Serving power from cache", zap.Int64("power_id", id))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
			return
		}
	}

	power, err := h.repo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Power not found", zap.Int64("power_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Power not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query power", zap.Error(err), zap.Int64("power_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	response, _ := json.Marshal(power)
	h.cache.Set(cacheKey, string(response), 10*time.Minute)

	logRequest(ctx, "info", "Power retrieved successfully", zap.Int64("power_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// UpdatePower handles PATCH /powers/{id} - partial update
func (h *PowerHandler) UpdatePower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid power ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid power ID"))
		return
	}

	var req models.UpdatePowerRequest
	if err := decodeStrict(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid power body"))
		return
	}
	if req.PowerDamage != nil && !models.DamageInRange(*req.PowerDamage) {
		logRequest(ctx, "error", "Power damage out of range", zap.Int("power_damage", *req.PowerDamage))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("power_damage must be between 0 and 1000"))
		return
	}

	logRequest(ctx, "info", "Updating power", zap.Int64("power_id", id))

	// Characters holding this power serve it through their cached
	// listings; capture them before the mutation for invalidation.
	staleCharacters, err := h.repo.CharacterIDs(id)
	if err != nil {
		logRequest(ctx, "error", "Failed to resolve characters for cache invalidation", zap.Error(err))
	}

	power, err := h.repo.Update(id, req)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Power not found for update", zap.Int64("power_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Power not found"))
		return
	}
	if errors.Is(err, repository.ErrConflict) {
		logRequest(ctx, "info", "Power name already exists", zap.Int64("power_id", id))
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errs.NewValidationError("Power name already exists"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to update power", zap.Error(err), zap.Int64("power_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to update power"))
		return
	}

	// Clear cache, including listings that embed the old name
	h.cache.Delete("power:" + idStr)
	for _, characterID := range staleCharacters {
		h.cache.Delete("character:" + strconv.FormatInt(characterID, 10) + ":powers")
	}

	logRequest(ctx, "info", "Power updated successfully", zap.Int64("power_id", id))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(power)
}

// DeletePower handles DELETE /powers/{id} (bearer token required)
// Association rows are removed with the power (cascade).
func (h *PowerHandler) DeletePower(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid power ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid power ID"))
		return
	}

	logRequest(ctx, "info", "Deleting power", zap.Int64("power_id", id))

	// The cascade removes the join rows, so resolve the affected
	// characters before the delete to invalidate their listings.
	staleCharacters, err := h.repo.CharacterIDs(id)
	if err != nil {
		logRequest(ctx, "error", "Failed to resolve characters for cache invalidation", zap.Error(err))
	}

	power, err := h.repo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Power not found for deletion", zap.Int64("power_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Power not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to delete power", zap.Error(err), zap.Int64("power_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to delete power"))
		return
	}

	// Clear cache, including listings that still embed the power
	h.cache.Delete("power:" + idStr)
	for _, characterID := range staleCharacters {
		h.cache.Delete("character:" + strconv.FormatInt(characterID, 10) + ":powers")
	}

	logRequest(ctx, "info", "Power deleted successfully", zap.Int64("power_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(power)
}
