package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"heroes-service/models"
	"heroes-service/repository"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// CharacterHandler handles character-related operations
type CharacterHandler struct {
	repo  *repository.CharacterRepo
	cache cache.Cache
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(repo *repository.CharacterRepo, cache cache.Cache) *CharacterHandler {
	return &CharacterHandler{
		repo:  repo,
		cache: cache,
	}
}

// CreateCharacter handles POST /characters
func (h *CharacterHandler) CreateCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateCharacterRequest
	if err := decodeStrict(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character body"))
		return
	}

	if req.Name == "" {
		logRequest(ctx, "error", "Missing character name")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Name is required"))
		return
	}
	if !req.CharacterType.Valid() {
		logRequest(ctx, "error", "Invalid character type", zap.String("character_type", string(req.CharacterType)))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("character_type must be Hero or Villain"))
		return
	}

	logRequest(ctx, "info", "Creating character", zap.String("name", req.Name))

	character, err := h.repo.Create(req)
	if err != nil {
		logRequest(ctx, "error", "Failed to create character", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to create character"))
		return
	}

	logRequest(ctx, "info", "Character created successfully", zap.Int64("character_id", character.CharacterID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(character)
}

// GetCharacters handles GET /characters - paginated list
func (h *CharacterHandler) GetCharacters(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	logRequest(ctx, "info", "Listing characters", zap.Int("offset", offset), zap.Int("limit", limit))

	characters, err := h.repo.List(offset, limit)
	if err != nil {
		logRequest(ctx, "error", "Failed to list characters", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	logRequest(ctx, "info", "Characters retrieved successfully", zap.Int("count", len(characters)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(characters)
}

// GetCharacter handles GET /characters/{id}
func (h *CharacterHandler) GetCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid character ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character ID"))
		return
	}

	// Try cache first
	// The redis backend round-trips stored values through JSON, so a hit
	// comes back as a string. Anything else is treated as a miss.
	cacheKey := "character:" + idStr
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.(string); ok {
			logRequest(ctx, "debug", "Serving character from cache", zap.Int64("character_id", id))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
			return
		}
	}

	character, err := h.repo.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Character not found", zap.Int64("character_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query character", zap.Error(err), zap.Int64("character_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	response, _ := json.Marshal(character)
	h.cache.Set(cacheKey, string(response), 10*time.Minute)

	logRequest(ctx, "info", "Character retrieved successfully", zap.Int64("character_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// GetCharactersByType handles GET /characters/type/{character_type}
func (h *CharacterHandler) GetCharactersByType(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	typeStr := vars["character_type"]

	characterType, ok := models.ParseCategory(typeStr)
	if !ok {
		logRequest(ctx, "error", "Invalid character type", zap.String("character_type", typeStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("character_type must be hero or villain"))
		return
	}

	logRequest(ctx, "info", "Listing characters by type", zap.String("character_type", string(characterType)))

	characters, err := h.repo.ListByType(characterType)
	if err != nil {
		logRequest(ctx, "error", "Failed to list characters by type", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	logRequest(ctx, "info", "Characters retrieved successfully", zap.Int("count", len(characters)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(characters)
}

// UpdateCharacter handles PATCH /characters/{id} - partial update
func (h *CharacterHandler) UpdateCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid character ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character ID"))
		return
	}

	var req models.UpdateCharacterRequest
	if err := decodeStrict(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character body"))
		return
	}
	if req.CharacterType != nil && !req.CharacterType.Valid() {
		logRequest(ctx, "error", "Invalid character type", zap.String("character_type", string(*req.CharacterType)))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("character_type must be Hero or Villain"))
		return
	}

	logRequest(ctx, "info", "Updating character", zap.Int64("character_id", id))

	character, err := h.repo.Update(id, req)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Character not found for update", zap.Int64("character_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to update character", zap.Error(err), zap.Int64("character_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to update character"))
		return
	}

	// Clear caches
	h.cache.Delete("character:" + idStr)
	h.cache.Delete("character:" + idStr + ":powers")

	logRequest(ctx, "info", "Character updated successfully", zap.Int64("character_id", id))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(character)
}

// DeleteCharacter handles DELETE /characters/{id}
// Association rows are removed with the character (cascade).
func (h *CharacterHandler) DeleteCharacter(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := parseID(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid character ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid character ID"))
		return
	}

	logRequest(ctx, "info", "Deleting character", zap.Int64("character_id", id))

	character, err := h.repo.Delete(id)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Character not found for deletion", zap.Int64("character_id", id))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Character not found"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to delete character", zap.Error(err), zap.Int64("character_id", id))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to delete character"))
		return
	}

	// Clear caches
	h.cache.Delete("character:" + idStr)
	h.cache.Delete("character:" + idStr + ":powers")

	logRequest(ctx, "info", "Character deleted successfully", zap.Int64("character_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(character)
}
