package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joyeria-diana-laura/backend/internal/repository"
	"github.com/joyeria-diana-laura/backend/internal/usecase"
	"github.com/joyeria-diana-laura/backend/internal/validation"
)

// UsersHandler serves the /api/users endpoints.
type UsersHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validation.Validator
	logger      *zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(
	userUsecase usecase.UserUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *UsersHandler {
	return &UsersHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.userUsecase.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to get user")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondSuccess(w, http.StatusOK, "", user)
}

func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Nombre == nil && req.Activo == nil {
		respondError(w, http.StatusBadRequest, "No hay campos para actualizar")
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), id, repository.UpdateUserParams{
		Nombre: req.Nombre,
		Activo: req.Activo,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to update user")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondSuccess(w, http.StatusOK, "Usuario actualizado correctamente", user)
}

func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.userUsecase.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete user")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondSuccess(w, http.StatusOK, "Usuario eliminado correctamente", nil)
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondSuccess(w, http.StatusOK, "", users)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID de usuario inválido")
		return 0, false
	}
	return id, true
}
