package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/flows"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type FlowOverviewLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFlowOverviewLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FlowOverviewLogic {
	return &FlowOverviewLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FlowOverviewLogic) FlowOverview(req *types.FlowQuery) (*types.OverviewResponse, error) {
	scope, err := resolveFlowScope(l.ctx, l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	ex, err := eventStore(l.svcCtx)
	if err != nil {
		return nil, err
	}
	o, err := flows.SelfServeOverview(l.ctx, ex, scope.projectID, scope.from, scope.to, scope.timezone)
	if err != nil {
		l.Errorf("overview query failed: %v", err)
		return nil, err
	}
	return &types.OverviewResponse{
		Registration: *toRegistrationResponse(o.Registration),
		Payment:      toPaymentStatuses(o.Payment),
		Activation:   toActivationCohorts(o.Activation),
	}, nil
}
