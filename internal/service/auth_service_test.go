package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rhzslya/sinari-server-sub000/internal/config"
	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
	"github.com/Rhzslya/sinari-server-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID && u.Active {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0)
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Restore(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.Active = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	var hashPtr *string
	if password != "" {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), 4)
		s := string(hash)
		hashPtr = &s
	}
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         username,
		PasswordHash: hashPtr,
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "owner", "secret123", model.RoleOwner)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, model.RoleOwner, resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "owner", "secret123", model.RoleOwner)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "nope"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_GoogleOnlyAccountHasNoPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "gmail-user", "", model.RoleAdmin)
	gid := "google-123"
	u.GoogleID = &gid

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gmail-user", Password: "anything"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "admin", "secret123", model.RoleAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "former-admin", "secret123", model.RoleAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "former-admin", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestLinkGoogle_ConflictWhenAlreadyLinked(t *testing.T) {
	svc, repo := buildAuthSvc()
	first := seedUser(repo, "first", "secret123", model.RoleAdmin)
	second := seedUser(repo, "second", "secret123", model.RoleAdmin)

	require.NoError(t, svc.LinkGoogle(context.Background(), first.ID, "google-xyz"))

	err := svc.LinkGoogle(context.Background(), second.ID, "google-xyz")
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := buildAuthSvc()

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "tech1",
		Name:     "Technician One",
		Password: "plaintext-pw",
		Role:     model.RoleTechnician,
	})
	require.NoError(t, err)

	stored, err := repo.FindByUsername(context.Background(), "tech1")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "plaintext-pw", *stored.PasswordHash)
	assert.Equal(t, resp.ID, stored.ID.String())
}

func TestListUsers_FiltersInactive(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "active1", "pw123456", model.RoleAdmin)
	gone := seedUser(repo, "gone", "pw123456", model.RoleAdmin)
	gone.Active = false

	active, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
