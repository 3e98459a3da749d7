package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/flows"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type FlowFunnelLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFlowFunnelLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FlowFunnelLogic {
	return &FlowFunnelLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FlowFunnelLogic) FlowFunnel(req *types.FlowQuery) (*types.FunnelResponse, error) {
	scope, err := resolveFlowScope(l.ctx, l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	ex, err := eventStore(l.svcCtx)
	if err != nil {
		return nil, err
	}
	steps, err := flows.FunnelSteps(l.ctx, ex, scope.projectID, scope.from, scope.to, scope.timezone)
	if err != nil {
		l.Errorf("funnel query failed: %v", err)
		return nil, err
	}
	resp := &types.FunnelResponse{Steps: make([]types.FunnelStep, 0, len(steps))}
	for _, s := range steps {
		resp.Steps = append(resp.Steps, types.FunnelStep{
			Step:           s.Step,
			Users:          s.Users,
			ConversionRate: s.ConversionRate,
			DropOffRate:    s.DropOffRate,
			AverageTime:    s.AverageTime,
		})
	}
	return resp, nil
}
