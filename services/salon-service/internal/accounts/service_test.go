package accounts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	users map[string]model.User
}

func (m *memStore) Insert(_ context.Context, u model.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("duplicate key")
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, apperr.NotFound("user not found")
}

func (m *memStore) GetUser(_ context.Context, id string) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *memStore) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

const secret = "test-secret"

func newTestService() (*Service, *memStore) {
	store := &memStore{users: map[string]model.User{}}
	issuer := auth.Issuer{Secret: secret, Issuer: "palor", TTL: time.Hour}
	svc := NewService(store, issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.cost = bcrypt.MinCost
	return svc, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, NewUser{FullName: "Ana", Email: " Ana@Example.com", Password: "s3cret-pass", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, sess.User.Role, "self registration is always a customer")
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.Token)

	claims, err := auth.ParseAndVerifyHS256(sess.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.Sub)
	assert.Equal(t, "customer", claims.Role)

	login, err := svc.Login(ctx, "ANA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ana@example.com", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegister_DuplicateAndValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, NewUser{FullName: "Ana", Email: "ana@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, NewUser{FullName: "Ana 2", Email: "ana@example.com", Password: "s3cret-pass"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Register(ctx, NewUser{FullName: "Bo", Email: "bo@example.com", Password: "short"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = svc.Register(ctx, NewUser{FullName: "Bo", Email: "bo", Password: "long-enough"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateUserAndListStaff(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, NewUser{FullName: "Sam", Email: "sam@example.com", Password: "stylist-pass", Role: model.RoleStaff})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, NewUser{FullName: "X", Email: "x@example.com", Password: "whatever1", Role: "owner"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	staff, err := svc.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Sam", staff[0].FullName)
	assert.Empty(t, staff[0].Email)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@palor.test", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@palor.test", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))

	admins, err := store.ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}
