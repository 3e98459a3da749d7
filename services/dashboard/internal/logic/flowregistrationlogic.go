package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/flows"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type FlowRegistrationLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFlowRegistrationLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FlowRegistrationLogic {
	return &FlowRegistrationLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FlowRegistrationLogic) FlowRegistration(req *types.FlowQuery) (*types.RegistrationFlowResponse, error) {
	scope, err := resolveFlowScope(l.ctx, l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	ex, err := eventStore(l.svcCtx)
	if err != nil {
		return nil, err
	}
	m, err := flows.RegistrationMetrics(l.ctx, ex, scope.projectID, scope.from, scope.to, scope.timezone)
	if err != nil {
		l.Errorf("registration flow query failed: %v", err)
		return nil, err
	}
	return toRegistrationResponse(m), nil
}

func toRegistrationResponse(m flows.FlowMetrics) *types.RegistrationFlowResponse {
	resp := &types.RegistrationFlowResponse{
		TotalUsers:     m.TotalUsers,
		ConversionRate: m.ConversionRate,
		DropOffRate:    m.DropOffRate,
		AverageTime:    m.AverageTime,
		TopEvents:      make([]types.TopEvent, 0, len(m.TopEvents)),
	}
	for _, e := range m.TopEvents {
		resp.TopEvents = append(resp.TopEvents, types.TopEvent{
			Event:      e.Event,
			Count:      e.Count,
			Percentage: e.Percentage,
		})
	}
	return resp
}
