package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/auth"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// RegisterInput carries the credentials for a new account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput carries credentials for an existing account.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService handles registration, login, password reset, and email
// verification. The GitHub sign-in alternative lives here too so every
// path that mints a session goes through one place.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, passwords: passwords, tokens: tokens, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// Register creates an account and returns it with a fresh session token.
// The UNIQUE index on email is the real duplicate guard; the lookup
// before insert just produces a friendlier error for the common case.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" {
		return nil, "", apperror.ValidationFailed("name", "name is required")
	}
	if err := validateCredentials(in.Email, in.Password); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, "", apperror.Conflict("email already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, "", fmt.Errorf("checking existing email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, "", apperror.ValidationFailed("password", err.Error())
	}

	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CurrentDay:   1,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueSession(u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", slog.String("id", u.ID), slog.String("email", u.Email))
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh session
// token. Unknown email and wrong password produce the same error, so the
// endpoint cannot be used to probe which addresses are registered.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*model.User, string, error) {
	in.Email = normalizeEmail(in.Email)

	u, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", apperror.Unauthorized()
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}
	if u.PasswordHash == "" {
		// GitHub-only account with no password set.
		return nil, "", apperror.Unauthorized()
	}
	if err := s.passwords.Verify(u.PasswordHash, in.Password); err != nil {
		return nil, "", apperror.Unauthorized()
	}

	token, err := s.issueSession(u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", slog.String("id", u.ID))
	return u, token, nil
}

func (s *AuthService) issueSession(u *model.User) (string, error) {
	token, err := s.tokens.GenerateSession(u.ID, auth.SessionProfile{
		Name:           u.Name,
		Email:          u.Email,
		CurrentDay:     u.CurrentDay,
		TargetRevenue:  u.TargetRevenue,
		CurrentRevenue: u.CurrentRevenue,
	})
	if err != nil {
		return "", fmt.Errorf("issuing session: %w", err)
	}
	return token, nil
}

// ForgotPassword issues a password-reset token for the given email. For
// an unknown address it returns an empty token and no error — the
// endpoint responds identically either way so it cannot be used to
// enumerate accounts.
//
// The token embeds a fingerprint of the current password hash, so it
// stops validating the moment the password changes. Without an outbound
// mailer the token is returned to the caller directly.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return "", apperror.ValidationFailed("email", "a valid email address is required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return "", nil
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	token, err := s.tokens.GeneratePurpose(u.ID, auth.PurposeReset,
		auth.PasswordFingerprint(u.PasswordHash), auth.ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issuing reset token: %w", err)
	}

	s.logger.Info("password reset token issued", slog.String("id", u.ID))
	return token, nil
}

// ResetPassword validates a reset token and sets a new password. A token
// issued before a previous reset carries a stale fingerprint and is
// rejected, so each token works at most once.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	userID, fingerprint, err := s.tokens.ValidatePurpose(tokenStr, auth.PurposeReset)
	if err != nil {
		return apperror.Unauthorized()
	}

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized()
		}
		return fmt.Errorf("looking up user: %w", err)
	}
	if fingerprint != auth.PasswordFingerprint(u.PasswordHash) {
		return apperror.Unauthorized()
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return apperror.ValidationFailed("password", err.Error())
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.logger.Info("password reset", slog.String("id", u.ID))
	return nil
}

// RequestEmailVerification issues a verification token for the
// authenticated user. Already-verified accounts get a conflict instead
// of a fresh token.
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID string) (string, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.EmailVerified {
		return "", apperror.Conflict("email already verified")
	}

	token, err := s.tokens.GeneratePurpose(u.ID, auth.PurposeVerify, "", auth.VerifyTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issuing verification token: %w", err)
	}

	s.logger.Info("email verification token issued", slog.String("id", u.ID))
	return token, nil
}

// VerifyEmail validates a verification token and marks the account
// verified. Verifying twice is harmless.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenStr string) error {
	userID, _, err := s.tokens.ValidatePurpose(tokenStr, auth.PurposeVerify)
	if err != nil {
		return apperror.Unauthorized()
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Unauthorized()
		}
		return fmt.Errorf("marking email verified: %w", err)
	}

	s.logger.Info("email verified", slog.String("id", userID))
	return nil
}

// LoginOrRegisterGitHub resolves a GitHub profile to a local account and
// returns it with a fresh session token. Resolution order:
//
//  1. An account already linked to this GitHub ID — log it in.
//  2. An account with the same (GitHub-verified) email — link and log in.
//  3. Otherwise create a new account. GitHub-created accounts have no
//     password; their email counts as verified since GitHub verified it.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, gh *auth.GitHubUser) (*model.User, string, error) {
	u, err := s.users.GetUserByGitHubID(ctx, gh.ID)
	switch {
	case err == nil:
		// linked account, fall through to session issue
	case errors.Is(err, apperror.ErrNotFound):
		u, err = s.resolveGitHubByEmail(ctx, gh)
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("looking up GitHub account: %w", err)
	}

	token, err := s.issueSession(u)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("github sign-in", slog.String("id", u.ID), slog.Int64("githubID", gh.ID))
	return u, token, nil
}

func (s *AuthService) resolveGitHubByEmail(ctx context.Context, gh *auth.GitHubUser) (*model.User, error) {
	if gh.Email != "" {
		u, err := s.users.GetUserByEmail(ctx, normalizeEmail(gh.Email))
		switch {
		case err == nil:
			if err := s.users.LinkGitHub(ctx, u.ID, gh.ID); err != nil {
				return nil, fmt.Errorf("linking GitHub account: %w", err)
			}
			u.GitHubID = gh.ID
			return u, nil
		case !errors.Is(err, apperror.ErrNotFound):
			return nil, fmt.Errorf("looking up user by email: %w", err)
		}
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}
	email := normalizeEmail(gh.Email)
	if email == "" {
		// GitHub users can hide their email entirely; synthesize the
		// noreply form so the NOT NULL + UNIQUE email column holds.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", gh.ID, gh.Login)
	}

	u := &model.User{
		Name:          name,
		Email:         email,
		GitHubID:      gh.ID,
		CurrentDay:    1,
		EmailVerified: true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating GitHub account: %w", err)
	}
	return u, nil
}
