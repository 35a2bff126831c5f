package models

import (
	"github.com/hexlet/taskmanager/internal/domain/tracker"
)

// TaskStatusModel is the persistence model for task statuses
type TaskStatusModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uq_task_statuses_name"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex:uq_task_statuses_slug"`
}

// TableName returns the table name for GORM
func (TaskStatusModel) TableName() string {
	return "task_statuses"
}

// ToDomain converts the model to a domain TaskStatus
func (m *TaskStatusModel) ToDomain() *tracker.TaskStatus {
	return &tracker.TaskStatus{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// TaskStatusModelFromDomain creates a model from a domain TaskStatus
func TaskStatusModelFromDomain(s *tracker.TaskStatus) *TaskStatusModel {
	m := &TaskStatusModel{Name: s.Name, Slug: s.Slug}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// LabelModel is the persistence model for labels
type LabelModel struct {
	BaseModel
	Name string `gorm:"type:varchar(1000);not null;uniqueIndex:uq_labels_name"`
}

// TableName returns the table name for GORM
func (LabelModel) TableName() string {
	return "labels"
}

// ToDomain converts the model to a domain Label
func (m *LabelModel) ToDomain() *tracker.Label {
	return &tracker.Label{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// LabelModelFromDomain creates a model from a domain Label
func LabelModelFromDomain(l *tracker.Label) *LabelModel {
	m := &LabelModel{Name: l.Name}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// TaskModel is the persistence model for tasks.
// Label IDs live in task_labels and are loaded by the repository.
type TaskModel struct {
	BaseModel
	TaskIndex    *int64           `gorm:"column:task_index;uniqueIndex:uq_tasks_task_index"`
	Name         string           `gorm:"type:varchar(255);not null"`
	Description  *string          `gorm:"type:text"`
	TaskStatusID int64            `gorm:"not null;index"`
	TaskStatus   *TaskStatusModel `gorm:"foreignKey:TaskStatusID;constraint:OnDelete:RESTRICT"`
	AssigneeID   *int64           `gorm:"index"`
	Assignee     *UserModel       `gorm:"foreignKey:AssigneeID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the model to a domain Task. The status slug comes from
// the preloaded TaskStatus when present.
func (m *TaskModel) ToDomain(labelIDs []int64) *tracker.Task {
	task := &tracker.Task{
		BaseEntity:   m.BaseModel.ToDomain(),
		Index:        m.TaskIndex,
		Title:        m.Name,
		Content:      m.Description,
		TaskStatusID: m.TaskStatusID,
		AssigneeID:   m.AssigneeID,
	}
	if m.TaskStatus != nil {
		task.StatusSlug = m.TaskStatus.Slug
	}
	task.SetLabels(labelIDs)
	return task
}

// TaskModelFromDomain creates a model from a domain Task
func TaskModelFromDomain(t *tracker.Task) *TaskModel {
	m := &TaskModel{
		TaskIndex:    t.Index,
		Name:         t.Title,
		Description:  t.Content,
		TaskStatusID: t.TaskStatusID,
		AssigneeID:   t.AssigneeID,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// TaskLabelModel is a row of the task/label join table
type TaskLabelModel struct {
	TaskID  int64       `gorm:"primaryKey;autoIncrement:false"`
	LabelID int64       `gorm:"primaryKey;autoIncrement:false;index"`
	Task    *TaskModel  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Label   *LabelModel `gorm:"foreignKey:LabelID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (TaskLabelModel) TableName() string {
	return "task_labels"
}
