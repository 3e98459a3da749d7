package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type ProjectsListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewProjectsListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProjectsListLogic {
	return &ProjectsListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ProjectsListLogic) ProjectsList() (*types.ProjectListResponse, error) {
	repo := l.svcCtx.Projects()
	if repo == nil {
		return nil, ErrStoreUnavailable
	}
	arr, err := repo.List(l.ctx)
	if err != nil {
		l.Errorf("list projects: %v", err)
		return nil, err
	}
	resp := &types.ProjectListResponse{Projects: make([]types.ProjectResponse, 0, len(arr))}
	for _, p := range arr {
		resp.Projects = append(resp.Projects, *toProjectResponse(p))
	}
	return resp, nil
}
