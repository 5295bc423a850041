package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daftar-ledger/daftar/internal/shared"
)

type memoryUserRepo struct {
	users map[string]*User
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func seededRepo(t *testing.T, active bool) *memoryUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &memoryUserRepo{users: map[string]*User{
		"owner@daftar.af": {
			ID:           1,
			Email:        "owner@daftar.af",
			Name:         "Owner",
			PasswordHash: string(hash),
			IsActive:     active,
		},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := NewService(seededRepo(t, true))
	user, err := svc.Authenticate(context.Background(), "owner@daftar.af", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
}

func TestAuthenticateRejections(t *testing.T) {
	ctx := context.Background()

	svc := NewService(seededRepo(t, true))
	_, err := svc.Authenticate(ctx, "owner@daftar.af", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@daftar.af", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	svc = NewService(seededRepo(t, false))
	_, err = svc.Authenticate(ctx, "owner@daftar.af", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
