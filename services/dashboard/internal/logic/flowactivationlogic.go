package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/flows"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type FlowActivationLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFlowActivationLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FlowActivationLogic {
	return &FlowActivationLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FlowActivationLogic) FlowActivation(req *types.FlowQuery) (*types.ActivationFlowResponse, error) {
	scope, err := resolveFlowScope(l.ctx, l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	ex, err := eventStore(l.svcCtx)
	if err != nil {
		return nil, err
	}
	cohorts, err := flows.ActivationCohorts(l.ctx, ex, scope.projectID, scope.from, scope.to, scope.timezone)
	if err != nil {
		l.Errorf("activation cohort query failed: %v", err)
		return nil, err
	}
	return &types.ActivationFlowResponse{Cohorts: toActivationCohorts(cohorts)}, nil
}

func toActivationCohorts(cohorts []flows.ActivationCohort) []types.ActivationCohort {
	out := make([]types.ActivationCohort, 0, len(cohorts))
	for _, c := range cohorts {
		out = append(out, types.ActivationCohort{
			Cohort: c.Cohort,
			Day1:   c.Day1,
			Day3:   c.Day3,
			Day7:   c.Day7,
			Day14:  c.Day14,
			Day30:  c.Day30,
		})
	}
	return out
}
