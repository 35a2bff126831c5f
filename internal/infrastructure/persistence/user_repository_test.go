package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository_CRUD(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	user := f.user("ada@example.com")
	assert.Positive(t, user.ID)

	found, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", found.Email)
	assert.Equal(t, "First", found.FirstName)
	assert.True(t, found.VerifyPassword("secret"))
	assert.Equal(t, user.CreatedAt, found.CreatedAt)

	require.NoError(t, found.SetEmail("ada.l@example.com"))
	require.NoError(t, found.SetPassword("changed"))
	require.NoError(t, f.users.Update(ctx, found))

	reloaded, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada.l@example.com", reloaded.Email)
	assert.True(t, reloaded.VerifyPassword("changed"))

	require.NoError(t, f.users.Delete(ctx, user.ID))
	_, err = f.users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	f.user("grace@example.com")

	found, err := f.users.FindByEmail(ctx, "  GRACE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", found.Email)

	_, err = f.users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.users.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err := f.users.ExistsByEmail(ctx, "Grace@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormUserRepository_DuplicateEmail(t *testing.T) {
	f := newFixtures(t)
	f.user("dup@example.com")

	u, err := identity.NewUser("dup@example.com", "secret", "", "")
	require.NoError(t, err)

	err = f.users.Create(context.Background(), u)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormUserRepository_FindAllAndCount(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	a := f.user("a@example.com")
	b := f.user("b@example.com")

	users, err := f.users.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)

	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormUserRepository_MissingRows(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.users.Delete(ctx, 999), shared.ErrNotFound)

	ghost := &identity.User{BaseEntity: shared.BaseEntity{ID: 999}, Email: "ghost@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, f.users.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormUserRepository_DeleteAssignedUser(t *testing.T) {
	f := newFixtures(t)
	user := f.user("busy@example.com")
	draft := f.status("Draft", "draft")
	f.task("Assigned", draft, func(task *tracker.Task) { task.AssignTo(ptr(user.ID)) })

	err := f.users.Delete(context.Background(), user.ID)
	assert.ErrorIs(t, err, shared.ErrResourceInUse)
}

func TestGormUserRepository_Postgres(t *testing.T) {
	t.Run("find by id", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "password_hash"}).
				AddRow(5, "pg@example.com", "Pg", "User", "hash"))

		user, err := NewGormUserRepository(db.DB).FindByID(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), user.ID)
		assert.Equal(t, "pg@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to already exists", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		user, err := identity.NewUser("pg@example.com", "secret", "", "")
		require.NoError(t, err)

		err = NewGormUserRepository(db.DB).Create(context.Background(), user)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create returns generated id", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		user, err := identity.NewUser("new@example.com", "secret", "", "")
		require.NoError(t, err)

		require.NoError(t, NewGormUserRepository(db.DB).Create(context.Background(), user))
		assert.Equal(t, int64(42), user.ID)
	})
}
