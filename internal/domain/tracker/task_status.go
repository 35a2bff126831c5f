package tracker

import (
	"regexp"
	"strings"

	"github.com/hexlet/taskmanager/internal/domain/shared"
)

// MaxStatusFieldLength bounds both name and slug
const MaxStatusFieldLength = 255

var slugRegex = regexp.MustCompile(`^[a-z0-9_\-]+$`)

// TaskStatus is a workflow state a task can be in, referenced by its slug
type TaskStatus struct {
	shared.BaseEntity
	Name string
	Slug string
}

// NewTaskStatus creates a new task status
func NewTaskStatus(name, slug string) (*TaskStatus, error) {
	status := &TaskStatus{BaseEntity: shared.NewBaseEntity()}
	if err := status.Rename(name); err != nil {
		return nil, err
	}
	if err := status.SetSlug(slug); err != nil {
		return nil, err
	}
	return status, nil
}

// Rename changes the display name
func (s *TaskStatus) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Status name cannot be empty")
	}
	if len(name) > MaxStatusFieldLength {
		return shared.NewValidationError("Status name cannot exceed 255 characters")
	}
	s.Name = name
	return nil
}

// SetSlug changes the slug tasks use to reference this status
func (s *TaskStatus) SetSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return shared.NewValidationError("Status slug cannot be empty")
	}
	if len(slug) > MaxStatusFieldLength {
		return shared.NewValidationError("Status slug cannot exceed 255 characters")
	}
	if !slugRegex.MatchString(slug) {
		return shared.NewValidationError("Status slug can only contain lowercase letters, digits, underscores and hyphens")
	}
	s.Slug = slug
	return nil
}
