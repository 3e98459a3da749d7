package ports

import (
	"context"
	"time"
)

// Project is the domain DTO for a dashboard tenant. It mirrors the DB model
// but avoids GORM tags.
type Project struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectsRepository defines persistence for the projects registry. Flow
// queries only ever read it to confirm a project exists before touching the
// event store.
type ProjectsRepository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Delete(ctx context.Context, id string) error
}
