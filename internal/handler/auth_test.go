package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyeria-diana-laura/backend/internal/emailcheck"
	"github.com/joyeria-diana-laura/backend/internal/usecase"
	"github.com/joyeria-diana-laura/backend/internal/validation"
)

type stubAuthUsecase struct {
	registerResult *usecase.RegisterResult
	registerErr    error
	loginResult    *usecase.LoginResult
	loginErr       error
	forgotErr      error
	resetErr       error
	checkExists    bool
	validateResult emailcheck.Result
	syncVerified   bool
	syncErr        error
	configErr      error
}

func (s *stubAuthUsecase) Register(_ context.Context, _ usecase.RegisterParams) (*usecase.RegisterResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthUsecase) Login(_ context.Context, _ usecase.LoginParams) (*usecase.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthUsecase) ForgotPassword(_ context.Context, _ string) error { return s.forgotErr }

func (s *stubAuthUsecase) ResetPassword(_ context.Context, _, _ string) error { return s.resetErr }

func (s *stubAuthUsecase) CheckUser(_ context.Context, _ string) (bool, error) {
	return s.checkExists, nil
}

func (s *stubAuthUsecase) ValidateEmail(_ context.Context, _ string) emailcheck.Result {
	return s.validateResult
}

func (s *stubAuthUsecase) SyncVerification(_ context.Context, _ string) (bool, error) {
	return s.syncVerified, s.syncErr
}

func (s *stubAuthUsecase) CheckEmailConfig(_ context.Context) error { return s.configErr }

type stubEmailChecker struct {
	credits int
	message string
}

func (s *stubEmailChecker) CheckDeliverability(_ context.Context, _ string) emailcheck.Result {
	return emailcheck.Result{Accepted: true}
}

func (s *stubEmailChecker) Credits(_ context.Context) (int, string) { return s.credits, s.message }

func newAuthTestHandler(t *testing.T, stub *stubAuthUsecase) *AuthHandler {
	t.Helper()

	validator, err := validation.New()
	require.NoError(t, err)

	logger := zerolog.Nop()
	return NewAuthHandler(stub, &stubEmailChecker{credits: 42, message: "Tienes 42 créditos disponibles"},
		validator, "http://localhost:3000", &logger)
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterHandler_Success(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{
		registerResult: &usecase.RegisterResult{
			UID:    "uid-1",
			Email:  "cliente@gmail.com",
			Nombre: "Diana",
		},
	})

	rec := postJSON(h.Register, `{"email":"cliente@gmail.com","password":"secreta123","nombre":"Diana"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Usuario registrado correctamente. Revisa tu email para verificar tu cuenta.", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "uid-1", data["uid"])
	assert.Equal(t, false, data["emailVerified"])
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{})

	rec := postJSON(h.Register, `{"email":"cliente@gmail.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeEnvelope(t, rec)["success"])
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{registerErr: usecase.ErrEmailRegistered})

	rec := postJSON(h.Register, `{"email":"cliente@gmail.com","password":"secreta123","nombre":"Diana"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El email ya está registrado", decodeEnvelope(t, rec)["message"])
}

func TestRegisterHandler_ValidationReason(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{
		registerErr: &usecase.ValidationError{Reason: "No se permiten emails temporales o desechables"},
	})

	rec := postJSON(h.Register, `{"email":"c@mailinator.com","password":"secreta123","nombre":"Diana"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No se permiten emails temporales o desechables", decodeEnvelope(t, rec)["message"])
}

func TestLoginHandler_Success(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{
		loginResult: &usecase.LoginResult{ID: 3, Email: "cliente@gmail.com", Nombre: "Diana"},
	})

	rec := postJSON(h.Login, `{"email":"cliente@gmail.com","password":"secreta123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Login exitoso", body["message"])

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, float64(3), user["id"])
	assert.Equal(t, "Diana", user["nombre"])
}

func TestLoginHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "unknown user",
			err:     usecase.ErrUserNotFound,
			status:  http.StatusUnauthorized,
			message: "El usuario no existe. Por favor, verifica tu correo electrónico.",
		},
		{
			name:    "wrong password",
			err:     usecase.ErrInvalidCredentials,
			status:  http.StatusUnauthorized,
			message: "Contraseña incorrecta. Por favor, intenta nuevamente.",
		},
		{
			name:    "email not verified",
			err:     usecase.ErrEmailNotVerified,
			status:  http.StatusUnauthorized,
			message: "Debes verificar tu correo electrónico antes de iniciar sesión.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthTestHandler(t, &stubAuthUsecase{loginErr: tt.err})

			rec := postJSON(h.Login, `{"email":"cliente@gmail.com","password":"secreta123"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeEnvelope(t, rec)["message"])
		})
	}
}

func TestForgotPasswordHandler_AlwaysReportsSuccess(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{})

	rec := postJSON(h.ForgotPassword, `{"email":"desconocido@gmail.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Se ha enviado un enlace de recuperación a tu email", decodeEnvelope(t, rec)["message"])
}

func TestForgotPasswordHandler_UpstreamFailure(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{
		forgotErr: &usecase.UpstreamError{Message: "Error al enviar email: quota exceeded"},
	})

	rec := postJSON(h.ForgotPassword, `{"email":"cliente@gmail.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Error al enviar email: quota exceeded", decodeEnvelope(t, rec)["message"])
}

func TestResetPasswordHandler_UnknownUser(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{resetErr: usecase.ErrUserNotFound})

	rec := postJSON(h.ResetPassword, `{"email":"cliente@gmail.com","newPassword":"nueva-clave"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Usuario no encontrado", decodeEnvelope(t, rec)["message"])
}

func TestCheckUserHandler(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{checkExists: true})

	rec := postJSON(h.CheckUser, `{"email":"cliente@gmail.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["exists"])
}

func TestValidateEmailHandler_Rejected(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{
		validateResult: emailcheck.Result{Reason: "El correo electrónico no existe"},
	})

	rec := postJSON(h.ValidateEmail, `{"email":"cliente@gmail.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El correo electrónico no existe", decodeEnvelope(t, rec)["message"])
}

func TestEmailCreditsHandler(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.EmailCredits(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(42), data["credits"])
	assert.Equal(t, "Tienes 42 créditos disponibles", data["message"])
}

func TestCheckEmailConfigHandler(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.CheckEmailConfig(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"Configuración de email verificada correctamente. Los links redirigirán a: http://localhost:3000/login",
		decodeEnvelope(t, rec)["message"])
}

func TestInvalidBody(t *testing.T) {
	h := newAuthTestHandler(t, &stubAuthUsecase{})

	rec := postJSON(h.Register, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cuerpo de la petición inválido", decodeEnvelope(t, rec)["message"])
}
