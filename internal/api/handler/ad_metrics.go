package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/dgflow/attribution-api/pkg/middleware"
	"github.com/dgflow/attribution-api/pkg/utils"
	"github.com/julienschmidt/httprouter"
)

func GetClientAdMetrics(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if !canAccess(w, r, id) {
			return
		}

		startDate, endDate, ok := parsePeriod(w, r)
		if !ok {
			return
		}

		filters := &domain.MetricFilters{
			StartDate: startDate,
			EndDate:   endDate,
		}

		if raw := r.URL.Query().Get("platform"); raw != "" {
			platform, err := domain.ParsePlatform(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
				return
			}
			filters.Platform = &platform
		}

		logger.WithField("client_id", id).Debug("ad-metrics: consultando ledger")

		response, err := service.GetAdMetrics(r.Context(), id, filters)
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		logger.WithFields(log.Fields{
			"client_id": id,
			"records":   len(response.Records),
			"start":     response.Filters.StartDate.Format(time.DateOnly),
			"end":       response.Filters.EndDate.Format(time.DateOnly),
		}).Info("ad-metrics: consulta concluída")

		writeJSON(w, r, http.StatusOK, response)
	})
}

// canAccess verifica se o usuário autenticado pode ler os dados do cliente
func canAccess(w http.ResponseWriter, r *http.Request, clientID string) bool {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return false
	}
	if !claims.CanAccessClient(clientID) {
		log.ForContext(r.Context()).WithFields(log.Fields{
			"user_id":   claims.UserID,
			"client_id": clientID,
		}).Warn("acesso negado ao cliente")
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem acesso a este cliente", nil)
		return false
	}
	return true
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
		return nil, nil, false
	}

	endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
		return nil, nil, false
	}

	return startDate, endDate, true
}

func writeInsightError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, insighting.ErrClientNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Cliente não encontrado", nil)
	case errors.Is(err, insighting.ErrAttributionNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, "Atribuição não encontrada", nil)
	case errors.Is(err, insighting.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrLedgerUnavailable):
		log.ForContext(r.Context()).WithError(err).Error("consulta ao ledger falhou")
		apiErrors.WriteError(w, apiErrors.ErrLedgerUnavailable, "Ledger de métricas indisponível", nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("erro inesperado na consulta")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar dados", nil)
	}
}
