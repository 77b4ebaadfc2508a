package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = nextID("usr")
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		found := *user
		return &found, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newAuthService(allowRegistration bool) (*AuthService, *fakeUserRepo) {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4
	cfg.Auth.AllowRegistration = allowRegistration
	repo := newFakeUserRepo()
	return NewAuthService(cfg, repo), repo
}

func TestRegisterDisabled(t *testing.T) {
	svc, _ := newAuthService(false)
	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(true)
	ctx := context.Background()

	user, token, exp, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	// Duplicate email conflicts.
	_, _, _, err = svc.Register(ctx, "Ada again", "ada@example.com", "other")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, token, _, err = svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	_, _, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, repo := newAuthService(true)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	require.NoError(t, err)

	user.Active = false
	require.NoError(t, repo.Update(ctx, user))

	_, _, _, err = svc.Login(ctx, "ada@example.com", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(true)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "newpass")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret", "newpass"))

	_, _, _, err = svc.Login(ctx, "ada@example.com", "newpass")
	assert.NoError(t, err)
}
