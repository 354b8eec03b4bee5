package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/auth"
	"github.com/cashflowcoders/devplanner/internal/model"
)

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.CurrentDay < 1 {
		user.CurrentDay = 1
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetUserByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID == githubID && githubID != 0 {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	user.Email = stored.Email
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) SetEmailVerified(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.EmailVerified = true
	return nil
}

func (m *mockUserRepo) LinkGitHub(_ context.Context, id string, githubID int64) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.GitHubID = githubID
	return nil
}

// newTestAuthService wires a real token service and bcrypt at MinCost
// against the in-memory user repo.
func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	repo := newMockUserRepo()
	svc := NewAuthService(repo, auth.NewPasswordServiceForTest(bcrypt.MinCost), tokens, testLogger())
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)

	u, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Dev Jones",
		Email:    "  Dev@Example.COM ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Email != "dev@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", u.Email)
	}
	if u.CurrentDay != 1 {
		t.Errorf("CurrentDay = %d, want 1", u.CurrentDay)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if token == "" {
		t.Error("Register() should return a session token")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	in := RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret123"}
	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, _, err := svc.Register(ctx, in)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "secret123"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret123"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

// Wrong password and unknown email must be indistinguishable to the
// caller.
func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "known@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, LoginInput{Email: "known@example.com", Password: "wrong-pass"})
	_, _, unknown := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})

	if !errors.Is(wrongPass, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", wrongPass)
	}
	if !errors.Is(unknown, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "login@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	u, token, err := svc.Login(ctx, LoginInput{Email: "LOGIN@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.Email != "login@example.com" {
		t.Errorf("Email = %q", u.Email)
	}
	if token == "" {
		t.Error("Login() should return a session token")
	}
}

// Accounts created through GitHub have no password; a credential login
// against them must fail like any other bad credential.
func TestLogin_GitHubOnlyAccount(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &model.User{Name: "GH", Email: "gh@example.com", GitHubID: 42}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	_, _, err := svc.Login(ctx, LoginInput{Email: "gh@example.com", Password: "anything1"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v, want nil for unknown email", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty for unknown email", token)
	}
}

func TestResetPassword_Flow(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "reset@example.com", Password: "original1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.ForgotPassword(ctx, "reset@example.com")
	if err != nil || token == "" {
		t.Fatalf("ForgotPassword() = (%q, %v)", token, err)
	}

	if err := svc.ResetPassword(ctx, token, "changed12"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, _, err := svc.Login(ctx, LoginInput{Email: "reset@example.com", Password: "original1"}); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("old password still accepted, error = %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginInput{Email: "reset@example.com", Password: "changed12"}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

// The fingerprint inside a reset token goes stale the moment the password
// changes, so a captured token cannot be replayed.
func TestResetPassword_TokenSingleUse(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "replay@example.com", Password: "original1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, _ := svc.ForgotPassword(ctx, "replay@example.com")

	if err := svc.ResetPassword(ctx, token, "changed12"); err != nil {
		t.Fatalf("first ResetPassword() error = %v", err)
	}

	err := svc.ResetPassword(ctx, token, "another34")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("replayed token error = %v, want ErrUnauthorized", err)
	}
}

func TestResetPassword_GarbageToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), "not-a-token", "changed12")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyEmail_Flow(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "verify@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.RequestEmailVerification(ctx, u.ID)
	if err != nil || token == "" {
		t.Fatalf("RequestEmailVerification() = (%q, %v)", token, err)
	}

	if err := svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	stored, _ := repo.GetUserByID(ctx, u.ID)
	if !stored.EmailVerified {
		t.Error("EmailVerified not set after verification")
	}

	// Asking again once verified is a conflict.
	_, err = svc.RequestEmailVerification(ctx, u.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("re-request error = %v, want ErrConflict", err)
	}
}

// A reset token must not pass as a verification token, and vice versa.
func TestVerifyEmail_RejectsResetToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "cross@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	resetToken, _ := svc.ForgotPassword(ctx, "cross@example.com")

	if err := svc.VerifyEmail(ctx, resetToken); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("VerifyEmail(reset token) error = %v, want ErrUnauthorized", err)
	}
}

func TestLoginOrRegisterGitHub_NewAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	u, token, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    99,
		Login: "octocat",
		Name:  "Octo Cat",
		Email: "octo@example.com",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if u.GitHubID != 99 || u.Name != "Octo Cat" {
		t.Errorf("user = %+v", u)
	}
	if !u.EmailVerified {
		t.Error("GitHub-created account should count as email verified")
	}
	if token == "" {
		t.Error("sign-in should return a session token")
	}
}

func TestLoginOrRegisterGitHub_HiddenEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	u, _, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    7,
		Login: "mysterious",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if u.Email != "7+mysterious@users.noreply.github.com" {
		t.Errorf("Email = %q, want synthesized noreply address", u.Email)
	}
	if u.Name != "mysterious" {
		t.Errorf("Name = %q, want login fallback", u.Name)
	}
}

// An existing credential account with a matching email gets linked rather
// than duplicated.
func TestLoginOrRegisterGitHub_LinksExistingEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	existing, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "both@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	u, _, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 55, Login: "a", Email: "both@example.com"})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if u.ID != existing.ID {
		t.Errorf("resolved user %s, want existing account %s", u.ID, existing.ID)
	}

	linked, _ := repo.GetUserByGitHubID(ctx, 55)
	if linked == nil || linked.ID != existing.ID {
		t.Error("GitHub ID not linked to the existing account")
	}

	// Second sign-in goes straight through the link.
	again, _, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 55, Login: "a"})
	if err != nil {
		t.Fatalf("second LoginOrRegisterGitHub() error = %v", err)
	}
	if again.ID != existing.ID {
		t.Errorf("second sign-in resolved %s, want %s", again.ID, existing.ID)
	}
}
