// Package identity adapts the Firebase Identity Toolkit API, the external
// owner of credentials, password verification and verification/reset links.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

var (
	// ErrEmailExists is returned when the provider already has an identity
	// for the email.
	ErrEmailExists = errors.New("email already exists at identity provider")

	// ErrUserNotFound is returned when the provider has no identity for the
	// email or uid.
	ErrUserNotFound = errors.New("user not found at identity provider")

	// ErrInvalidCredentials is returned when the provider rejects an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is the subset of the provider identity this service consumes. The
// password is write-only and never read back.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// CredentialStore is the provider surface the orchestrator depends on.
// The production implementation is *Client; tests substitute fakes.
type CredentialStore interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*Account, error)
	VerifyPassword(ctx context.Context, email, password string) (*Account, error)
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	DeleteUser(ctx context.Context, uid string) error
	EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error)
	PasswordResetLink(ctx context.Context, email, continueURL string) (string, error)
}

// Client implements CredentialStore against the Identity Toolkit REST API.
type Client struct {
	svc       *identitytoolkit.Service
	projectID string
}

// NewClient creates the Identity Toolkit client. An empty credentialsFile
// falls back to application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit service error: %w", err)
	}

	return &Client{svc: svc, projectID: projectID}, nil
}

func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}

	resp, err := c.svc.Relyingparty.SignupNewUser(req).Context(ctx).Do()
	if err != nil {
		if hasServerMessage(err, "EMAIL_EXISTS") {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("identity provider error: %w", err)
	}

	return resp.LocalId, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*Account, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		Email: []string{email},
	}

	resp, err := c.svc.Relyingparty.GetAccountInfo(req).Context(ctx).Do()
	if err != nil {
		if hasServerMessage(err, "USER_NOT_FOUND") || hasServerMessage(err, "EMAIL_NOT_FOUND") {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("identity provider error: %w", err)
	}

	if len(resp.Users) == 0 {
		return nil, ErrUserNotFound
	}

	user := resp.Users[0]
	return &Account{
		UID:           user.LocalId,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
	}, nil
}

func (c *Client) VerifyPassword(ctx context.Context, email, password string) (*Account, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:    email,
		Password: password,
	}

	resp, err := c.svc.Relyingparty.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		if hasServerMessage(err, "EMAIL_NOT_FOUND") || hasServerMessage(err, "INVALID_PASSWORD") ||
			hasServerMessage(err, "INVALID_LOGIN_CREDENTIALS") {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity provider error: %w", err)
	}

	return &Account{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
	}, nil
}

func (c *Client) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		LocalId:  uid,
		Password: newPassword,
	}

	if _, err := c.svc.Relyingparty.SetAccountInfo(req).Context(ctx).Do(); err != nil {
		if hasServerMessage(err, "USER_NOT_FOUND") {
			return ErrUserNotFound
		}
		return fmt.Errorf("identity provider error: %w", err)
	}

	return nil
}

// DeleteUser removes the identity. Only the registration rollback calls this.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{
		LocalId: uid,
	}

	if _, err := c.svc.Relyingparty.DeleteAccount(req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("identity provider error: %w", err)
	}

	return nil
}

func (c *Client) EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error) {
	return c.oobLink(ctx, "VERIFY_EMAIL", "verifyEmail", email, continueURL)
}

func (c *Client) PasswordResetLink(ctx context.Context, email, continueURL string) (string, error) {
	link, err := c.oobLink(ctx, "PASSWORD_RESET", "resetPassword", email, continueURL)
	if err != nil {
		if hasServerMessage(err, "EMAIL_NOT_FOUND") || hasServerMessage(err, "USER_NOT_FOUND") {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return link, nil
}

// oobLink requests an out-of-band confirmation code and assembles the hosted
// action link the way the Firebase console templates do.
func (c *Client) oobLink(ctx context.Context, requestType, mode, email, continueURL string) (string, error) {
	req := &identitytoolkit.Relyingparty{
		RequestType: requestType,
		Email:       email,
		ContinueUrl: continueURL,
	}

	resp, err := c.svc.Relyingparty.GetOobConfirmationCode(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("identity provider error: %w", err)
	}

	return fmt.Sprintf("https://%s.firebaseapp.com/__/auth/action?mode=%s&oobCode=%s&continueUrl=%s",
		c.projectID, mode, url.QueryEscape(resp.OobCode), url.QueryEscape(continueURL)), nil
}

// hasServerMessage reports whether err is a provider error carrying the given
// message code, e.g. EMAIL_EXISTS.
func hasServerMessage(err error, message string) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return strings.Contains(gerr.Message, message)
	}
	return false
}
