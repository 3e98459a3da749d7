package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/flows/registration",
				Handler: FlowRegistrationHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/flows/registration/funnel",
				Handler: FlowFunnelHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/flows/payment",
				Handler: FlowPaymentHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/flows/activation",
				Handler: FlowActivationHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/flows/overview",
				Handler: FlowOverviewHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/projects",
				Handler: ProjectCreateHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/projects",
				Handler: ProjectsListHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/projects/:id",
				Handler: ProjectDetailHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthzHandler(serverCtx),
			},
		},
	)
}
