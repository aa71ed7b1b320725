package handler

import (
	"net/http"

	"github.com/dgflow/attribution-api/internal/api/handler/router"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/dgflow/attribution-api/pkg/middleware"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Healthcheck(ping LedgerPinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(ping),
		},
	}
}

// Metrics expõe os coletores do prometheus; sem registro próprio usa o registro global
func Metrics(h http.Handler) []router.Route {
	if h == nil {
		h = promhttp.Handler()
	}
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: h,
		},
	}
}

func SalesWebhook(reconciler attributing.Reconciler, secret string) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/webhooks/sales",
			Method:      http.MethodPost,
			Handler:     ReceiveSale(reconciler),
			Middlewares: []alice.Constructor{middleware.WebhookSignature(secret)},
		},
	}
}

func Insights(service insighting.Insighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/clients/:id/ad-metrics",
			Method:      http.MethodGet,
			Handler:     GetClientAdMetrics(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
		{
			Path:        "/v1/clients/:id/attributions",
			Method:      http.MethodGet,
			Handler:     ListClientAttributions(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sales/:transaction_id/attribution",
			Method:      http.MethodGet,
			Handler:     GetSaleAttribution(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []alice.Constructor{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []alice.Constructor{middleware.AdminOrManager()},
		},
	}
}
