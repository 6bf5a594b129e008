package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyeria-diana-laura/backend/internal/model"
	"github.com/joyeria-diana-laura/backend/internal/repository"
	"github.com/joyeria-diana-laura/backend/internal/usecase"
	"github.com/joyeria-diana-laura/backend/internal/validation"
)

type stubUserUsecase struct {
	user    *model.User
	users   []*model.User
	err     error
	deleted []int64
}

func (s *stubUserUsecase) GetUser(_ context.Context, _ int64) (*model.User, error) {
	return s.user, s.err
}

func (s *stubUserUsecase) UpdateUser(_ context.Context, _ int64, _ repository.UpdateUserParams) (*model.User, error) {
	return s.user, s.err
}

func (s *stubUserUsecase) DeleteUser(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubUserUsecase) ListUsers(_ context.Context) ([]*model.User, error) {
	return s.users, s.err
}

func newUsersTestRouter(t *testing.T, stub usecase.UserUsecase) http.Handler {
	t.Helper()

	validator, err := validation.New()
	require.NoError(t, err)

	logger := zerolog.Nop()
	h := NewUsersHandler(stub, validator, &logger)

	r := chi.NewRouter()
	r.Get("/api/users/{id}", h.GetUser)
	r.Put("/api/users/{id}", h.UpdateUser)
	r.Delete("/api/users/{id}", h.DeleteUser)
	r.Get("/api/users", h.ListUsers)
	return r
}

func TestGetUserHandler(t *testing.T) {
	router := newUsersTestRouter(t, &stubUserUsecase{
		user: &model.User{ID: 3, Email: "cliente@gmail.com", Nombre: "Diana", Activo: true},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cliente@gmail.com")
}

func TestGetUserHandler_NotFound(t *testing.T) {
	router := newUsersTestRouter(t, &stubUserUsecase{err: repository.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/users/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario no encontrado")
}

func TestGetUserHandler_InvalidID(t *testing.T) {
	router := newUsersTestRouter(t, &stubUserUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ID de usuario inválido")
}

func TestUpdateUserHandler_NoFields(t *testing.T) {
	router := newUsersTestRouter(t, &stubUserUsecase{})

	req := httptest.NewRequest(http.MethodPut, "/api/users/3", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No hay campos para actualizar")
}

func TestDeleteUserHandler(t *testing.T) {
	stub := &stubUserUsecase{}
	router := newUsersTestRouter(t, stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3}, stub.deleted)
}
