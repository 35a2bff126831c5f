package testutil

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hexlet/taskmanager/internal/interfaces/http/handler"
)

// FakeUser returns a sign-up body with a unique email.
func FakeUser() handler.CreateUserRequest {
	return handler.CreateUserRequest{
		Email:     strings.ToLower(fmt.Sprintf("%s.%d@example.com", gofakeit.Username(), gofakeit.Uint32())),
		Password:  gofakeit.Password(true, true, true, false, false, 12),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
}

// FakeTaskStatus returns a status body with a unique slug.
func FakeTaskStatus() handler.CreateTaskStatusRequest {
	n := gofakeit.Uint32()
	return handler.CreateTaskStatusRequest{
		Name: fmt.Sprintf("%s %d", gofakeit.Verb(), n),
		Slug: fmt.Sprintf("status_%d", n),
	}
}

// FakeLabel returns a label body with a unique name.
func FakeLabel() handler.CreateLabelRequest {
	return handler.CreateLabelRequest{
		Name: fmt.Sprintf("%s-%d", strings.ToLower(gofakeit.Noun()), gofakeit.Uint32()),
	}
}

// FakeTask returns a task body in the given status with optional labels.
func FakeTask(statusSlug string, labelIDs ...int64) handler.CreateTaskRequest {
	content := gofakeit.Sentence(8)
	return handler.CreateTaskRequest{
		Title:    gofakeit.Sentence(3),
		Content:  &content,
		Status:   statusSlug,
		LabelIDs: labelIDs,
	}
}
