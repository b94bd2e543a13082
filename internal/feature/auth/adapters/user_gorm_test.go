package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/auth/domain"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/shared/ids"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&UserModel{}), "failed to migrate table")
	return db
}

func newUser(name, email string, role entity.Role) *entity.User {
	return &entity.User{ID: ids.New(), Name: name, Email: email, Password: "hashed", Role: role}
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		before := time.Now().Add(-time.Second)
		u := newUser("Ana", "ana@example.com", entity.RoleCustomer)
		err := repo.Create(context.Background(), u)

		require.NoError(t, err)
		assert.True(t, u.CreatedAt.After(before), "CreatedAt is not set")
		assert.False(t, u.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), newUser("A", "dup@example.com", entity.RoleCustomer)))
		err := repo.Create(context.Background(), newUser("B", "dup@example.com", entity.RoleCustomer))

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		assert.Error(t, repo.Create(context.Background(), nil))
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	users := []*entity.User{
		newUser("User 1", "user1@example.com", entity.RoleCustomer),
		newUser("User 2", "user2@example.com", entity.RoleOperative),
		newUser("User 3", "user3@example.com", entity.RoleAdmin),
	}
	for _, u := range users {
		require.NoError(t, repo.Create(ctx, u), "failed to create test data")
	}

	t.Run("by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "user2@example.com")
		require.NoError(t, err)
		assert.Equal(t, users[1].ID, found.ID)
		assert.Equal(t, "User 2", found.Name)
		assert.Equal(t, entity.RoleOperative, found.Role)
		assert.Equal(t, "hashed", found.Password)
	})

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, users[2].ID)
		require.NoError(t, err)
		assert.Equal(t, "user3@example.com", found.Email)
		assert.Equal(t, users[2].CreatedAt.Unix(), found.CreatedAt.Unix())
	})

	t.Run("unknown email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, found)
	})

	t.Run("unknown id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, ids.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, found)
	})
}

func TestUserGorm_ListByRole(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("Zoe", "zoe@example.com", entity.RoleOperative)))
	require.NoError(t, repo.Create(ctx, newUser("Bob", "bob@example.com", entity.RoleOperative)))
	require.NoError(t, repo.Create(ctx, newUser("Cat", "cat@example.com", entity.RoleCustomer)))

	ops, err := repo.ListByRole(ctx, entity.RoleOperative)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "Bob", ops[0].Name)
	assert.Equal(t, "Zoe", ops[1].Name)

	admins, err := repo.ListByRole(ctx, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestUserGorm_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates profile fields and keeps the password", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		u := newUser("Ana", "ana@example.com", entity.RoleCustomer)
		require.NoError(t, repo.Create(ctx, u))

		u.Name, u.Email, u.Role, u.Password = "Ana Maria", "ana.maria@example.com", entity.RoleOperative, "changed"
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", got.Name)
		assert.Equal(t, "ana.maria@example.com", got.Email)
		assert.Equal(t, entity.RoleOperative, got.Role)
		assert.Equal(t, "hashed", got.Password)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		a := newUser("A", "a@example.com", entity.RoleCustomer)
		b := newUser("B", "b@example.com", entity.RoleCustomer)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		b.Email = "a@example.com"
		assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrEmailAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		assert.ErrorIs(t, repo.Update(ctx, newUser("X", "x@example.com", entity.RoleCustomer)), domain.ErrUserNotFound)
	})
}

func TestUserGorm_Delete(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()
	u := newUser("Op", "op@example.com", entity.RoleOperative)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err := repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, u.ID), domain.ErrUserNotFound)
}
