package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/joyeria-diana-laura/backend/internal/model"
	"github.com/joyeria-diana-laura/backend/internal/security"
)

// UserRepository defines the interface for the usuarios table.
type UserRepository interface {
	// CreateUser inserts a new row keyed by the Firebase UID. The password is
	// hashed before storage; a unique constraint violation on email or
	// firebase_uid is reported as ErrDuplicateEmail.
	CreateUser(ctx context.Context, email, password, nombre, firebaseUID string) (*model.User, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// UpdatePassword replaces the informational password hash.
	UpdatePassword(ctx context.Context, id int64, newPassword string) error

	UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Nombre *string
	Activo *bool
}

const userColumns = `id, firebase_uid, email, password_hash, nombre, activo, fecha_creacion, fecha_actualizacion`

type userPostgresRepository struct {
	db *sql.DB
}

// NewUserPostgresRepository creates the PostgreSQL-backed user repository.
func NewUserPostgresRepository(db *sql.DB) UserRepository {
	return &userPostgresRepository{db: db}
}

func (r *userPostgresRepository) CreateUser(
	ctx context.Context,
	email, password, nombre, firebaseUID string,
) (*model.User, error) {
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hash error: %w", err)
	}

	query := `INSERT INTO usuarios (firebase_uid, email, password_hash, nombre)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + userColumns

	user := &model.User{}
	err = r.db.QueryRowContext(ctx, query, firebaseUID, email, passwordHash, nombre).
		Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.PasswordHash,
			&user.Nombre, &user.Activo, &user.FechaCreacion, &user.FechaActualizacion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *userPostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *userPostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userPostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userPostgresRepository) UpdatePassword(ctx context.Context, id int64, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password hash error: %w", err)
	}

	query := `UPDATE usuarios
	          SET password_hash = $1, fecha_actualizacion = $2
	          WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userPostgresRepository) UpdateUser(
	ctx context.Context,
	id int64,
	params UpdateUserParams,
) (*model.User, error) {
	assignments := []string{}
	args := []any{}

	if params.Nombre != nil {
		args = append(args, *params.Nombre)
		assignments = append(assignments, fmt.Sprintf("nombre = $%d", len(args)))
	}
	if params.Activo != nil {
		args = append(args, *params.Activo)
		assignments = append(assignments, fmt.Sprintf("activo = $%d", len(args)))
	}

	if len(assignments) == 0 {
		return nil, errors.New("no user fields to update")
	}

	args = append(args, time.Now())
	assignments = append(assignments, fmt.Sprintf("fecha_actualizacion = $%d", len(args)))

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE usuarios SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(assignments, ", "), len(args), userColumns)

	return r.scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *userPostgresRepository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userPostgresRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY fecha_creacion DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.PasswordHash,
			&user.Nombre, &user.Activo, &user.FechaCreacion, &user.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *userPostgresRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.PasswordHash,
		&user.Nombre, &user.Activo, &user.FechaCreacion, &user.FechaActualizacion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
