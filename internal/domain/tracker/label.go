package tracker

import (
	"strings"
	"unicode/utf8"

	"github.com/hexlet/taskmanager/internal/domain/shared"
)

// Label name length limits, counted in characters
const (
	MinLabelNameLength = 3
	MaxLabelNameLength = 1000
)

// Label is a free-form tag attached to tasks
type Label struct {
	shared.BaseEntity
	Name string
}

// NewLabel creates a new label
func NewLabel(name string) (*Label, error) {
	label := &Label{BaseEntity: shared.NewBaseEntity()}
	if err := label.Rename(name); err != nil {
		return nil, err
	}
	return label, nil
}

// Rename changes the label name
func (l *Label) Rename(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinLabelNameLength {
		return shared.NewValidationError("Label name must be at least 3 characters")
	}
	if n > MaxLabelNameLength {
		return shared.NewValidationError("Label name cannot exceed 1000 characters")
	}
	l.Name = name
	return nil
}
