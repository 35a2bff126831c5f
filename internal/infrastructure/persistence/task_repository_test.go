package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hexlet/taskmanager/internal/domain/shared"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTaskRepository_CreateAndFind(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	user := f.user("dev@example.com")
	draft := f.status("Draft", "draft")
	bug := f.label("bug")
	feature := f.label("feature")

	task := f.task("Fix it", draft, func(task *tracker.Task) {
		task.SetIndex(ptr(int64(7)))
		task.SetContent(ptr("Steps to reproduce"))
		task.AssignTo(ptr(user.ID))
		task.SetLabels([]int64{feature.ID, bug.ID})
	})
	require.Positive(t, task.ID)

	found, err := f.tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix it", found.Title)
	assert.Equal(t, int64(7), *found.Index)
	assert.Equal(t, "Steps to reproduce", *found.Content)
	assert.Equal(t, user.ID, *found.AssigneeID)
	assert.Equal(t, "draft", found.StatusSlug)
	assert.Equal(t, []int64{bug.ID, feature.ID}, found.LabelIDs)
	assert.Equal(t, task.CreatedAt, found.CreatedAt)
}

func TestGormTaskRepository_Update(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	user := f.user("dev@example.com")
	draft := f.status("Draft", "draft")
	done := f.status("Published", "published")
	bug := f.label("bug")
	feature := f.label("feature")

	task := f.task("Original", draft, func(task *tracker.Task) {
		task.SetIndex(ptr(int64(1)))
		task.SetContent(ptr("text"))
		task.AssignTo(ptr(user.ID))
		task.SetLabels([]int64{bug.ID})
	})

	require.NoError(t, task.SetTitle("Renamed"))
	require.NoError(t, task.SetStatus(done))
	task.SetIndex(nil)
	task.SetContent(nil)
	task.AssignTo(nil)
	task.SetLabels([]int64{feature.ID})
	require.NoError(t, f.tasks.Update(ctx, task))

	found, err := f.tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, "published", found.StatusSlug)
	assert.Nil(t, found.Index)
	assert.Nil(t, found.Content)
	assert.Nil(t, found.AssigneeID)
	assert.Equal(t, []int64{feature.ID}, found.LabelIDs)

	ghost := &tracker.Task{BaseEntity: shared.BaseEntity{ID: 999}, Title: "x", TaskStatusID: draft.ID}
	assert.ErrorIs(t, f.tasks.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormTaskRepository_Delete(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	draft := f.status("Draft", "draft")
	bug := f.label("bug")
	task := f.task("Doomed", draft, func(task *tracker.Task) { task.SetLabels([]int64{bug.ID}) })

	require.NoError(t, f.tasks.Delete(ctx, task.ID))
	_, err := f.tasks.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := f.tasks.CountByLabel(ctx, bug.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, f.tasks.Delete(ctx, task.ID), shared.ErrNotFound)
}

func TestGormTaskRepository_Constraints(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	draft := f.status("Draft", "draft")
	f.task("First", draft, func(task *tracker.Task) { task.SetIndex(ptr(int64(3))) })

	dup, err := tracker.NewTask("Second", draft)
	require.NoError(t, err)
	dup.SetIndex(ptr(int64(3)))
	assert.ErrorIs(t, f.tasks.Create(ctx, dup), shared.ErrAlreadyExists)

	exists, err := f.tasks.ExistsByIndex(ctx, 3, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	badLabel, err := tracker.NewTask("Third", draft)
	require.NoError(t, err)
	badLabel.SetLabels([]int64{404})
	assert.ErrorIs(t, f.tasks.Create(ctx, badLabel), shared.ErrInvalidReference)

	badAssignee, err := tracker.NewTask("Fourth", draft)
	require.NoError(t, err)
	badAssignee.AssignTo(ptr(int64(404)))
	assert.ErrorIs(t, f.tasks.Create(ctx, badAssignee), shared.ErrInvalidReference)

	all, err := f.tasks.FindAll(ctx, tracker.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormTaskRepository_FindAll(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	alice := f.user("alice@example.com")
	bob := f.user("bob@example.com")
	draft := f.status("Draft", "draft")
	review := f.status("To review", "to_review")
	bug := f.label("bug")
	feature := f.label("feature")

	t1 := f.task("Fix login page", draft, func(task *tracker.Task) {
		task.AssignTo(ptr(alice.ID))
		task.SetLabels([]int64{bug.ID})
	})
	t2 := f.task("Add LOGIN via OAuth", review, func(task *tracker.Task) {
		task.AssignTo(ptr(bob.ID))
		task.SetLabels([]int64{feature.ID, bug.ID})
	})
	t3 := f.task("Write 100% coverage", review)

	ids := func(tasks []*tracker.Task) []int64 {
		out := make([]int64, len(tasks))
		for i, task := range tasks {
			out[i] = task.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter tracker.TaskFilter
		want   []int64
	}{
		{"no filter", tracker.TaskFilter{}, []int64{t1.ID, t2.ID, t3.ID}},
		{"title case-insensitive", tracker.TaskFilter{TitleCont: "login"}, []int64{t1.ID, t2.ID}},
		{"title with wildcard character", tracker.TaskFilter{TitleCont: "100%"}, []int64{t3.ID}},
		{"percent is literal", tracker.TaskFilter{TitleCont: "%"}, []int64{t3.ID}},
		{"assignee", tracker.TaskFilter{AssigneeID: ptr(bob.ID)}, []int64{t2.ID}},
		{"status", tracker.TaskFilter{StatusSlug: "to_review"}, []int64{t2.ID, t3.ID}},
		{"label", tracker.TaskFilter{LabelID: ptr(bug.ID)}, []int64{t1.ID, t2.ID}},
		{"combined", tracker.TaskFilter{TitleCont: "login", StatusSlug: "draft", LabelID: ptr(bug.ID)}, []int64{t1.ID}},
		{"no match", tracker.TaskFilter{StatusSlug: "published"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := f.tasks.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}

	all, err := f.tasks.FindAll(ctx, tracker.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{bug.ID, feature.ID}, all[1].LabelIDs)
	assert.Equal(t, "to_review", all[1].StatusSlug)
	assert.NotNil(t, all[2].LabelIDs)
}

func TestGormTaskRepository_Counts(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	user := f.user("dev@example.com")
	draft := f.status("Draft", "draft")
	bug := f.label("bug")
	f.task("One", draft, func(task *tracker.Task) { task.AssignTo(ptr(user.ID)) })
	f.task("Two", draft, func(task *tracker.Task) { task.SetLabels([]int64{bug.ID}) })

	byStatus, err := f.tasks.CountByStatus(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus)

	byAssignee, err := f.tasks.CountByAssignee(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byAssignee)

	byLabel, err := f.tasks.CountByLabel(ctx, bug.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byLabel)
}

func TestGormTaskRepository_CountByStatus_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tasks" WHERE task_status_id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := NewGormTaskRepository(db.DB).CountByStatus(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ ok`, escapeLike(`50% off_now \ ok`))
}
