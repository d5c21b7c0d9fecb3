//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
	"github.com/finprodb/shop-api/internal/platform/postgres/pgtest"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

func newUser(t *testing.T, username, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser("Name "+username, username, email, "hash", role)
	require.NoError(t, err)
	return u
}

func TestRepository_CreateAndLookup(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser(t, "alice", "alice@mail.com", domain.RoleUser))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byLogin, err := repo.GetByLogin(ctx, "alice@mail.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byLogin.ID)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UniqueConstraints(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser(t, "alice", "alice@mail.com", domain.RoleUser))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser(t, "alice", "other@mail.com", domain.RoleUser))
	assert.Error(t, err)
}

func TestRepository_UpdateListAndCount(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	alice, err := repo.Create(ctx, newUser(t, "alice", "alice@mail.com", domain.RoleUser))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser(t, "admin", "admin@mail.com", domain.RoleAdmin))
	require.NoError(t, err)

	require.NoError(t, alice.Rename("Alice L"))
	updated, err := repo.Update(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice L", updated.Name)

	users, total, err := repo.List(ctx, pagination.Normalize(0, 1))
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(2), total)

	count, err := repo.CountByRole(ctx, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
