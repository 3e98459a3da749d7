package logic

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/ports"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type ProjectCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewProjectCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProjectCreateLogic {
	return &ProjectCreateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ProjectCreateLogic) ProjectCreate(req *types.ProjectCreateRequest) (*types.ProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	tz := strings.TrimSpace(req.Timezone)
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, ErrInvalidRequest
		}
	}
	repo := l.svcCtx.Projects()
	if repo == nil {
		return nil, ErrStoreUnavailable
	}
	p := &ports.Project{Name: name, Timezone: tz}
	if err := repo.Create(l.ctx, p); err != nil {
		l.Errorf("create project: %v", err)
		return nil, err
	}
	return toProjectResponse(p), nil
}

func toProjectResponse(p *ports.Project) *types.ProjectResponse {
	return &types.ProjectResponse{
		Id:        p.ID,
		Name:      p.Name,
		Timezone:  p.Timezone,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
