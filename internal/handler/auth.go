package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/joyeria-diana-laura/backend/internal/usecase"
	"github.com/joyeria-diana-laura/backend/internal/validation"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	emailChecker usecase.EmailChecker
	validator    *validation.Validator
	frontendURL  string
	logger       *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	emailChecker usecase.EmailChecker,
	validator *validation.Validator,
	frontendURL string,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		emailChecker: emailChecker,
		validator:    validator,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Nombre:   req.Nombre,
	})
	if err != nil {
		var verr *usecase.ValidationError
		var uerr *usecase.UpstreamError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, usecase.ErrEmailRegistered):
			respondError(w, http.StatusBadRequest, "El email ya está registrado")
		case errors.As(err, &uerr):
			respondError(w, http.StatusBadRequest, uerr.Message)
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			respondError(w, http.StatusInternalServerError, "Error al registrar usuario en la base de datos")
		}
		return
	}

	respondSuccess(w, http.StatusCreated,
		"Usuario registrado correctamente. Revisa tu email para verificar tu cuenta.",
		map[string]any{
			"uid":           result.UID,
			"email":         result.Email,
			"nombre":        result.Nombre,
			"emailVerified": result.EmailVerified,
		})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "El usuario no existe. Por favor, verifica tu correo electrónico.")
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Contraseña incorrecta. Por favor, intenta nuevamente.")
		case errors.Is(err, usecase.ErrEmailNotVerified):
			respondError(w, http.StatusUnauthorized, "Debes verificar tu correo electrónico antes de iniciar sesión.")
		default:
			h.logger.Error().Err(err).Msg("failed to log in user")
			respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	respondSuccess(w, http.StatusOK, "Login exitoso", map[string]any{
		"user": map[string]any{
			"id":     result.ID,
			"email":  result.Email,
			"nombre": result.Nombre,
		},
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.authUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		var uerr *usecase.UpstreamError
		if errors.As(err, &uerr) {
			respondError(w, http.StatusBadRequest, uerr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("failed to handle forgot password")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondSuccess(w, http.StatusOK, "Se ha enviado un enlace de recuperación a tu email", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		var verr *usecase.ValidationError
		var uerr *usecase.UpstreamError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "Usuario no encontrado")
		case errors.As(err, &uerr):
			respondError(w, http.StatusBadRequest, uerr.Message)
		default:
			h.logger.Error().Err(err).Msg("failed to reset password")
			respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	respondSuccess(w, http.StatusOK, "Contraseña actualizada correctamente", nil)
}

func (h *AuthHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.authUsecase.CheckUser(r.Context(), req.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to check user existence")
		respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"exists":  exists,
	})
}

func (h *AuthHandler) ValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	result := h.authUsecase.ValidateEmail(r.Context(), req.Email)
	if !result.Accepted {
		respondError(w, http.StatusBadRequest, result.Reason)
		return
	}

	message := result.Reason
	if message == "" {
		message = "Email válido"
	}
	respondSuccess(w, http.StatusOK, message, nil)
}

func (h *AuthHandler) SyncVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := h.validator.Struct(req); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	verified, err := h.authUsecase.SyncVerification(r.Context(), req.Email)
	if err != nil {
		var uerr *usecase.UpstreamError
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "Usuario no encontrado")
		case errors.As(err, &uerr):
			respondError(w, http.StatusBadRequest, uerr.Message)
		default:
			h.logger.Error().Err(err).Msg("failed to sync verification state")
			respondError(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	respondSuccess(w, http.StatusOK, "", map[string]any{"emailVerified": verified})
}

func (h *AuthHandler) EmailCredits(w http.ResponseWriter, r *http.Request) {
	credits, message := h.emailChecker.Credits(r.Context())

	respondSuccess(w, http.StatusOK, "", map[string]any{
		"credits": credits,
		"message": message,
	})
}

func (h *AuthHandler) CheckEmailConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.CheckEmailConfig(r.Context()); err != nil {
		var uerr *usecase.UpstreamError
		if errors.As(err, &uerr) {
			respondError(w, http.StatusBadRequest, uerr.Message)
			return
		}
		respondError(w, http.StatusBadRequest, "Error verificando configuración de email")
		return
	}

	respondSuccess(w, http.StatusOK,
		"Configuración de email verificada correctamente. Los links redirigirán a: "+h.frontendURL+"/login", nil)
}
