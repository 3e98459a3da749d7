package logic

import (
	"context"
	"errors"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	projrepo "github.com/flowlytics/flowlytics/internal/repo/gorm/projects"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type ProjectDetailLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewProjectDetailLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProjectDetailLogic {
	return &ProjectDetailLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ProjectDetailLogic) ProjectDetail(req *types.ProjectGetRequest) (*types.ProjectResponse, error) {
	id := strings.TrimSpace(req.Id)
	if id == "" {
		return nil, ErrInvalidRequest
	}
	repo := l.svcCtx.Projects()
	if repo == nil {
		return nil, ErrStoreUnavailable
	}
	p, err := repo.Get(l.ctx, id)
	if err != nil {
		if errors.Is(err, projrepo.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		l.Errorf("get project: %v", err)
		return nil, err
	}
	return toProjectResponse(p), nil
}
