// Package seed creates the default account, statuses and labels on start-up.
package seed

import (
	"context"
	"fmt"

	"github.com/hexlet/taskmanager/internal/domain/identity"
	"github.com/hexlet/taskmanager/internal/domain/tracker"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StatusSeed is a default task status
type StatusSeed struct {
	Name string
	Slug string
}

// DefaultStatuses are created when missing
var DefaultStatuses = []StatusSeed{
	{Name: "Draft", Slug: "draft"},
	{Name: "To review", Slug: "to_review"},
	{Name: "To be fixed", Slug: "to_be_fixed"},
	{Name: "To publish", Slug: "to_publish"},
	{Name: "Published", Slug: "published"},
}

// DefaultLabels are created when missing
var DefaultLabels = []string{"feature", "bug"}

// Result reports how many rows a run created
type Result struct {
	AdminCreated    bool
	StatusesCreated int
	LabelsCreated   int
}

// DataInitializer creates default data. Existing rows are left untouched,
// so running it on every start is safe.
type DataInitializer struct {
	users    identity.UserRepository
	statuses tracker.TaskStatusRepository
	labels   tracker.LabelRepository
	cfg      config.SeedConfig
	logger   *zap.Logger
}

// NewDataInitializer creates a new data initializer
func NewDataInitializer(
	users identity.UserRepository,
	statuses tracker.TaskStatusRepository,
	labels tracker.LabelRepository,
	cfg config.SeedConfig,
	logger *zap.Logger,
) *DataInitializer {
	return &DataInitializer{
		users:    users,
		statuses: statuses,
		labels:   labels,
		cfg:      cfg,
		logger:   logger.Named("seed"),
	}
}

// Run creates whatever default data is missing
func (d *DataInitializer) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	if !d.cfg.Enabled {
		d.logger.Info("Seeding disabled")
		return result, nil
	}

	created, err := d.seedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created

	for _, s := range DefaultStatuses {
		created, err := d.seedStatus(ctx, s)
		if err != nil {
			return nil, err
		}
		if created {
			result.StatusesCreated++
		}
	}

	for _, name := range DefaultLabels {
		created, err := d.seedLabel(ctx, name)
		if err != nil {
			return nil, err
		}
		if created {
			result.LabelsCreated++
		}
	}

	d.logger.Info("Seed data ready",
		zap.Bool("admin_created", result.AdminCreated),
		zap.Int("statuses_created", result.StatusesCreated),
		zap.Int("labels_created", result.LabelsCreated))
	return result, nil
}

func (d *DataInitializer) seedAdmin(ctx context.Context) (bool, error) {
	email := identity.NormalizeEmail(d.cfg.AdminEmail)
	exists, err := d.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		return false, nil
	}

	admin, err := identity.NewUser(email, d.cfg.AdminPassword, "", "")
	if err != nil {
		return false, fmt.Errorf("build admin user: %w", err)
	}
	if err := d.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	d.logger.Info("Admin user created", zap.String("email", email))
	return true, nil
}

func (d *DataInitializer) seedStatus(ctx context.Context, s StatusSeed) (bool, error) {
	exists, err := d.statuses.ExistsBySlug(ctx, s.Slug)
	if err != nil {
		return false, fmt.Errorf("check status %q: %w", s.Slug, err)
	}
	if exists {
		return false, nil
	}

	status, err := tracker.NewTaskStatus(s.Name, s.Slug)
	if err != nil {
		return false, fmt.Errorf("build status %q: %w", s.Slug, err)
	}
	if err := d.statuses.Create(ctx, status); err != nil {
		return false, fmt.Errorf("create status %q: %w", s.Slug, err)
	}
	return true, nil
}

func (d *DataInitializer) seedLabel(ctx context.Context, name string) (bool, error) {
	exists, err := d.labels.ExistsByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check label %q: %w", name, err)
	}
	if exists {
		return false, nil
	}

	label, err := tracker.NewLabel(name)
	if err != nil {
		return false, fmt.Errorf("build label %q: %w", name, err)
	}
	if err := d.labels.Create(ctx, label); err != nil {
		return false, fmt.Errorf("create label %q: %w", name, err)
	}
	return true, nil
}
