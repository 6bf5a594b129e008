package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joyeria-diana-laura/backend/internal/emailcheck"
	"github.com/joyeria-diana-laura/backend/internal/identity"
	"github.com/joyeria-diana-laura/backend/internal/model"
	"github.com/joyeria-diana-laura/backend/internal/repository"
)

// AuthUsecase defines the registration and login orchestration across the
// identity provider, the relational mirror and the document store.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	CheckUser(ctx context.Context, email string) (bool, error)
	ValidateEmail(ctx context.Context, email string) emailcheck.Result
	SyncVerification(ctx context.Context, email string) (bool, error)
	CheckEmailConfig(ctx context.Context) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string
	Nombre   string
}

// RegisterResult is the data returned for a successful registration.
type RegisterResult struct {
	UID           string
	Email         string
	Nombre        string
	EmailVerified bool
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// LoginResult is the data returned for a successful login.
type LoginResult struct {
	ID     int64
	Email  string
	Nombre string
}

var (
	ErrEmailRegistered    = errors.New("el email ya está registrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrEmailNotVerified   = errors.New("el email no ha sido verificado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
)

// ValidationError rejects a request because of its input, carrying the
// human-readable reason produced by the email checker or a length gate.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UpstreamError reports a definitive identity-provider failure whose message
// is surfaced to the caller.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }
func (e *UpstreamError) Unwrap() error { return e.Err }

// EmailChecker is the deliverability surface the orchestrator depends on.
type EmailChecker interface {
	CheckDeliverability(ctx context.Context, email string) emailcheck.Result
	Credits(ctx context.Context) (int, string)
}

// LinkSender delivers generated links by mail. It is optional: a nil sender
// means the provider delivers its own mails.
type LinkSender interface {
	SendVerificationLink(to, nombre, link string) error
	SendResetLink(to, link string) error
}

type authUsecase struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	activityRepo repository.ActivityRepository
	credentials  identity.CredentialStore
	emailChecker EmailChecker
	linkSender   LinkSender
	frontendURL  string
	logger       *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	activityRepo repository.ActivityRepository,
	credentials identity.CredentialStore,
	emailChecker EmailChecker,
	linkSender LinkSender,
	frontendURL string,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		credentials:  credentials,
		emailChecker: emailChecker,
		linkSender:   linkSender,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// Register creates the identity at the provider and mirrors it into the
// relational and document stores. The relational insert is the only step
// with a compensation: when it fails the just-created identity is deleted.
// Everything after it is best-effort and never fails the registration.
func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	if result := emailcheck.CheckFormat(params.Email); !result.Accepted {
		return nil, &ValidationError{Reason: result.Reason}
	}

	if result := u.emailChecker.CheckDeliverability(ctx, params.Email); !result.Accepted {
		return nil, &ValidationError{Reason: result.Reason}
	}

	if len(params.Password) < 6 {
		return nil, &ValidationError{Reason: "La contraseña debe tener al menos 6 caracteres"}
	}

	// Fast path: the common duplicate registration is caught here without
	// touching the identity provider. The unique constraint on the insert
	// below stays authoritative for the concurrent case.
	exists, err := u.userRepo.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	uid, err := u.credentials.CreateUser(ctx, params.Email, params.Password, params.Nombre)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			return nil, ErrEmailRegistered
		}
		return nil, &UpstreamError{Message: "Error al crear el usuario en el proveedor de identidad", Err: err}
	}

	if _, err := u.userRepo.CreateUser(ctx, params.Email, params.Password, params.Nombre, uid); err != nil {
		u.rollbackIdentity(ctx, uid, params.Email)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("failed to create user record: %w", err)
	}

	u.createProfile(ctx, uid, params.Email, params.Nombre)
	u.recordActivity(ctx, uid, model.ActivityRegistered, map[string]any{"email": params.Email})
	u.issueVerificationLink(ctx, uid, params.Email, params.Nombre)

	return &RegisterResult{
		UID:           uid,
		Email:         params.Email,
		Nombre:        params.Nombre,
		EmailVerified: false,
	}, nil
}

// Login delegates password verification to the identity provider and gates
// on its email-verified flag. The local password hash is never consulted.
func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	if _, err := u.credentials.VerifyPassword(ctx, params.Email, params.Password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, &UpstreamError{Message: "Error al verificar las credenciales", Err: err}
	}

	account, err := u.credentials.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &UpstreamError{Message: "Error al consultar el proveedor de identidad", Err: err}
	}

	if !account.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user record: %w", err)
	}

	if err := u.profileRepo.UpdateLastLogin(ctx, account.UID); err != nil {
		u.logger.Warn().Err(err).Str("uid", account.UID).Msg("failed to update last login")
	}
	u.recordActivity(ctx, account.UID, model.ActivityLogin, nil)

	return &LoginResult{
		ID:     user.ID,
		Email:  user.Email,
		Nombre: user.Nombre,
	}, nil
}

// ForgotPassword requests a reset link. Whether the email exists is never
// revealed to the caller: unknown addresses and provider user-not-found both
// report success.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	exists, err := u.userRepo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email existence: %w", err)
	}
	if !exists {
		return nil
	}

	link, err := u.credentials.PasswordResetLink(ctx, email, u.frontendURL+"/login?reset=success")
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil
		}
		return &UpstreamError{Message: "Error al enviar email: " + err.Error(), Err: err}
	}

	if user, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		u.recordActivity(ctx, user.FirebaseUID, model.ActivityPasswordResetRequested, nil)
	}

	if u.linkSender != nil {
		if err := u.linkSender.SendResetLink(email, link); err != nil {
			u.logger.Warn().Err(err).Str("email", email).Msg("failed to send password reset email")
		}
	}

	return nil
}

// ResetPassword updates the password at the provider and best-effort mirrors
// the new hash into the relational record.
func (u *authUsecase) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return &ValidationError{Reason: "La contraseña debe tener al menos 6 caracteres"}
	}

	account, err := u.credentials.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return &UpstreamError{Message: "Error al actualizar la contraseña en el proveedor", Err: err}
	}

	if err := u.credentials.UpdatePassword(ctx, account.UID, newPassword); err != nil {
		return &UpstreamError{Message: "Error al actualizar la contraseña en el proveedor", Err: err}
	}

	if user, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		if err := u.userRepo.UpdatePassword(ctx, user.ID, newPassword); err != nil {
			u.logger.Warn().Err(err).Str("email", email).Msg("failed to mirror password hash")
		}
	} else {
		u.logger.Warn().Err(err).Str("email", email).Msg("no local record to mirror password into")
	}

	u.recordActivity(ctx, account.UID, model.ActivityPasswordResetSucceeded, nil)

	return nil
}

func (u *authUsecase) CheckUser(ctx context.Context, email string) (bool, error) {
	return u.userRepo.EmailExists(ctx, email)
}

func (u *authUsecase) ValidateEmail(ctx context.Context, email string) emailcheck.Result {
	if result := emailcheck.CheckFormat(email); !result.Accepted {
		return result
	}
	return u.emailChecker.CheckDeliverability(ctx, email)
}

// SyncVerification re-reads the provider's email-verified flag and, when
// set, mirrors it into the profile document.
func (u *authUsecase) SyncVerification(ctx context.Context, email string) (bool, error) {
	account, err := u.credentials.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, &UpstreamError{Message: "Error al consultar el proveedor de identidad", Err: err}
	}

	if account.EmailVerified {
		if err := u.profileRepo.MarkEmailVerified(ctx, account.UID); err != nil {
			u.logger.Warn().Err(err).Str("uid", account.UID).Msg("failed to mirror verified flag")
		}
		u.recordActivity(ctx, account.UID, model.ActivityVerificationSucceeded, nil)
	}

	return account.EmailVerified, nil
}

// CheckEmailConfig issues a probe verification link so operators can tell
// whether the provider mail configuration works.
func (u *authUsecase) CheckEmailConfig(ctx context.Context) error {
	_, err := u.credentials.EmailVerificationLink(ctx, "test@example.com", u.frontendURL+"/login?verified=true")
	if err != nil {
		return &UpstreamError{Message: "Error en configuración de Firebase: " + err.Error(), Err: err}
	}
	return nil
}

// rollbackIdentity compensates a failed registration by deleting the
// identity created at the provider. This is the only compensation path.
func (u *authUsecase) rollbackIdentity(ctx context.Context, uid, email string) {
	if err := u.credentials.DeleteUser(ctx, uid); err != nil {
		u.logger.Error().Err(err).Str("uid", uid).Str("email", email).
			Msg("failed to roll back identity after local create failure")
	}
}

func (u *authUsecase) createProfile(ctx context.Context, uid, email, nombre string) {
	profile := &model.Profile{
		UID:           uid,
		Email:         email,
		Nombre:        nombre,
		EmailVerified: false,
		Activo:        true,
	}
	if _, err := u.profileRepo.CreateProfile(ctx, profile); err != nil {
		u.logger.Warn().Err(err).Str("uid", uid).Msg("failed to create profile document")
	}
}

func (u *authUsecase) issueVerificationLink(ctx context.Context, uid, email, nombre string) {
	link, err := u.credentials.EmailVerificationLink(ctx, email, u.frontendURL+"/login?verified=true")
	if err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to generate verification link")
		u.recordActivity(ctx, uid, model.ActivityVerificationFailed, map[string]any{"error": err.Error()})
		return
	}

	u.recordActivity(ctx, uid, model.ActivityVerificationSent, nil)

	if u.linkSender != nil {
		if err := u.linkSender.SendVerificationLink(email, nombre, link); err != nil {
			u.logger.Warn().Err(err).Str("email", email).Msg("failed to send verification email")
		}
	}
}

// recordActivity appends to the activity log, fire-and-forget.
func (u *authUsecase) recordActivity(ctx context.Context, uid string, kind model.ActivityKind, metadata map[string]any) {
	if err := u.activityRepo.Append(ctx, uid, kind, metadata); err != nil {
		u.logger.Warn().Err(err).Str("uid", uid).Str("kind", string(kind)).Msg("failed to record activity")
	}
}
