package gormrepo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	domain "users-api/internal/domain/user"
	pkgerrors "users-api/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func setupRepo(t *testing.T) *UserRepo {
	return NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))
}

func ptr(s string) *string { return &s }

func TestUserRepo_Create(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, &domain.User{Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)

	assert.Len(t, u.ID, 36)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &domain.User{Name: "Other", Email: "john@example.com"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsAlreadyExists(err))

		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", stored.Name)
	})

	t.Run("nil user", func(t *testing.T) {
		_, err := repo.Create(ctx, nil)
		assert.EqualError(t, err, "user cannot be nil")
	})
}

func TestUserRepo_Create_UnboundedValues(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	empty, err := repo.Create(ctx, &domain.User{Name: "", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Empty(t, empty.Name)

	long := strings.Repeat("x", 1000)
	u, err := repo.Create(ctx, &domain.User{Name: long, Email: long + "@example.com"})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, long, stored.Name)
}

func TestUserRepo_GetByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = repo.GetByID(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUserRepo_List(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, email := range emails {
		_, err := repo.Create(ctx, &domain.User{Name: string(rune('A' + i)), Email: email})
		require.NoError(t, err)
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	got := make([]string, len(users))
	for i, u := range users {
		got[i] = u.Email
	}
	assert.ElementsMatch(t, emails, got)
}

func TestUserRepo_Update(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	john, err := repo.Create(ctx, &domain.User{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)
	jane, err := repo.Create(ctx, &domain.User{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, john.ID, domain.Patch{Name: ptr("Johnny")})
		require.NoError(t, err)
		assert.Equal(t, john.ID, updated.ID)
		assert.Equal(t, "Johnny", updated.Name)
		assert.Equal(t, "john@example.com", updated.Email)
	})

	t.Run("full update", func(t *testing.T) {
		updated, err := repo.Update(ctx, john.ID, domain.Patch{Name: ptr("John Doe"), Email: ptr("jd@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "John Doe", updated.Name)
		assert.Equal(t, "jd@example.com", updated.Email)
	})

	t.Run("empty patch returns current row", func(t *testing.T) {
		current, err := repo.Update(ctx, jane.ID, domain.Patch{})
		require.NoError(t, err)
		assert.Equal(t, "Jane", current.Name)
	})

	t.Run("email owned by another user", func(t *testing.T) {
		_, err := repo.Update(ctx, jane.ID, domain.Patch{Email: ptr("jd@example.com")})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsAlreadyExists(err))

		stored, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", stored.Email)
	})

	t.Run("keeping own email is not a conflict", func(t *testing.T) {
		_, err := repo.Update(ctx, jane.ID, domain.Patch{Email: ptr("jane@example.com")})
		assert.NoError(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", domain.Patch{Name: ptr("x")})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestUserRepo_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, &domain.User{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err = repo.GetByID(ctx, u.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	err = repo.Delete(ctx, u.ID)
	assert.True(t, pkgerrors.IsNotFound(err))

	// The email is free again after a hard delete.
	_, err = repo.Create(ctx, &domain.User{Name: "John", Email: "john@example.com"})
	assert.NoError(t, err)
}

func TestUserRepo_Ping(t *testing.T) {
	repo := setupRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
