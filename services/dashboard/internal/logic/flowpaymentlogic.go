package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/flowlytics/flowlytics/internal/flows"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/types"
)

type FlowPaymentLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFlowPaymentLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FlowPaymentLogic {
	return &FlowPaymentLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FlowPaymentLogic) FlowPayment(req *types.FlowQuery) (*types.PaymentFlowResponse, error) {
	scope, err := resolveFlowScope(l.ctx, l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	ex, err := eventStore(l.svcCtx)
	if err != nil {
		return nil, err
	}
	statuses, err := flows.PaymentMetrics(l.ctx, ex, scope.projectID, scope.from, scope.to, scope.timezone)
	if err != nil {
		l.Errorf("payment flow query failed: %v", err)
		return nil, err
	}
	return &types.PaymentFlowResponse{Statuses: toPaymentStatuses(statuses)}, nil
}

func toPaymentStatuses(statuses []flows.PaymentStatus) []types.PaymentStatus {
	out := make([]types.PaymentStatus, 0, len(statuses))
	for _, s := range statuses {
		item := types.PaymentStatus{
			Status:     s.Status,
			Count:      s.Count,
			Percentage: s.Percentage,
		}
		for _, fr := range s.FailureReasons {
			item.FailureReasons = append(item.FailureReasons, types.FailureReason{
				Reason: fr.Reason,
				Count:  fr.Count,
			})
		}
		out = append(out, item)
	}
	return out
}
