package persistence

import (
	"context"
	"testing"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	identity.PasswordCost = bcrypt.MinCost
}

type fixtures struct {
	t        *testing.T
	users    *GormUserRepository
	statuses *GormTaskStatusRepository
	labels   *GormLabelRepository
	tasks    *GormTaskRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := setupTestDB(t)
	return &fixtures{
		t:        t,
		users:    NewGormUserRepository(db.DB),
		statuses: NewGormTaskStatusRepository(db.DB),
		labels:   NewGormLabelRepository(db.DB),
		tasks:    NewGormTaskRepository(db.DB),
	}
}

func (f *fixtures) user(email string) *identity.User {
	u, err := identity.NewUser(email, "secret", "First", "Last")
	require.NoError(f.t, err)
	require.NoError(f.t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixtures) status(name, slug string) *tracker.TaskStatus {
	s, err := tracker.NewTaskStatus(name, slug)
	require.NoError(f.t, err)
	require.NoError(f.t, f.statuses.Create(context.Background(), s))
	return s
}

func (f *fixtures) label(name string) *tracker.Label {
	l, err := tracker.NewLabel(name)
	require.NoError(f.t, err)
	require.NoError(f.t, f.labels.Create(context.Background(), l))
	return l
}

func (f *fixtures) task(title string, status *tracker.TaskStatus, mutate ...func(*tracker.Task)) *tracker.Task {
	task, err := tracker.NewTask(title, status)
	require.NoError(f.t, err)
	for _, m := range mutate {
		m(task)
	}
	require.NoError(f.t, f.tasks.Create(context.Background(), task))
	return task
}

func ptr[T any](v T) *T {
	return &v
}
