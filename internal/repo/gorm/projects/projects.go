// Package projects is the GORM-backed implementation of the projects
// registry.
package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dom "github.com/flowlytics/flowlytics/internal/ports"
)

// ErrNotFound reports a lookup for a project id that does not exist.
var ErrNotFound = errors.New("project not found")

// Project is the DB model for a dashboard tenant.
type Project struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	Timezone  string `gorm:"size:64;default:UTC"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Project) TableName() string { return "projects" }

type Repo struct {
	db *gorm.DB
}

var _ dom.ProjectsRepository = (*Repo)(nil)

// NewRepo migrates the projects table and returns the repository.
func NewRepo(db *gorm.DB) (*Repo, error) {
	if err := db.AutoMigrate(&Project{}); err != nil {
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, p *dom.Project) error {
	if p == nil {
		return nil
	}
	m := &Project{ID: strings.TrimSpace(p.ID), Name: p.Name, Timezone: p.Timezone}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timezone == "" {
		m.Timezone = "UTC"
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*p = *toDomain(m)
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*dom.Project, error) {
	var m Project
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomain(&m), nil
}

func (r *Repo) List(ctx context.Context) ([]*dom.Project, error) {
	var arr []*Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&arr).Error; err != nil {
		return nil, err
	}
	out := make([]*dom.Project, 0, len(arr))
	for _, m := range arr {
		out = append(out, toDomain(m))
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}

func toDomain(m *Project) *dom.Project {
	if m == nil {
		return nil
	}
	return &dom.Project{
		ID:        m.ID,
		Name:      m.Name,
		Timezone:  m.Timezone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
