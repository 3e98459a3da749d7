package svc

import (
	"os"
	"strings"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/clix"
	"github.com/flowlytics/flowlytics/internal/db"
	"github.com/flowlytics/flowlytics/internal/ports"
	projrepo "github.com/flowlytics/flowlytics/internal/repo/gorm/projects"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/config"
)

type ServiceContext struct {
	Config config.Config

	ch       clickhouse.Conn
	events   clix.Executor
	projects ports.ProjectsRepository
}

func NewServiceContext(c config.Config) *ServiceContext {
	s := &ServiceContext{Config: c}
	s.initClickHouse()
	s.initProjects()
	return s
}

// Events returns the executor for flow queries, or nil when no event store
// is configured.
func (s *ServiceContext) Events() clix.Executor {
	return s.events
}

// SetEvents swaps the event-store executor; used by tests to substitute a
// fake store.
func (s *ServiceContext) SetEvents(ex clix.Executor) {
	s.events = ex
}

func (s *ServiceContext) Projects() ports.ProjectsRepository {
	return s.projects
}

func (s *ServiceContext) initClickHouse() {
	dsn := strings.TrimSpace(s.Config.ClickHouse.DSN)
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("CLICKHOUSE_DSN"))
	}
	if dsn == "" {
		return
	}
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		logx.Errorf("parse clickhouse dsn: %v", err)
		return
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		logx.Errorf("connect clickhouse: %v", err)
		return
	}
	s.ch = conn
	s.events = clix.NewConn(conn)
	logx.Infof("clickhouse connected: %v", opts.Addr)
}

func (s *ServiceContext) initProjects() {
	gdb, err := db.Open(strings.TrimSpace(s.Config.Database.DSN))
	if err != nil {
		logx.Errorf("open projects database: %v", err)
		return
	}
	repo, err := projrepo.NewRepo(gdb)
	if err != nil {
		logx.Errorf("migrate projects table: %v", err)
		return
	}
	s.projects = repo
}
