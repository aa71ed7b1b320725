package handler

import (
	"net/http"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/dgflow/attribution-api/pkg/middleware"
	"github.com/julienschmidt/httprouter"
)

// GetSaleAttribution retorna a trilha de auditoria de uma venda
func GetSaleAttribution(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transactionID := httprouter.ParamsFromContext(r.Context()).ByName("transaction_id")

		entries, err := service.GetSaleAttribution(r.Context(), transactionID)
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		// Usuários sem acesso ao cliente da venda recebem 404 para não vazar a existência
		claims, ok := middleware.ClaimsFromRequest(r)
		if !ok || !claims.CanAccessClient(entries[0].ClientID) {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Atribuição não encontrada", nil)
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"transaction_id": transactionID,
			"entries":        len(entries),
		}).Info("attribution: trilha de auditoria retornada")

		writeJSON(w, r, http.StatusOK, map[string]any{
			"transaction_id": transactionID,
			"entries":        entries,
		})
	})
}

func ListClientAttributions(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if !canAccess(w, r, id) {
			return
		}

		startDate, endDate, ok := parsePeriod(w, r)
		if !ok {
			return
		}

		entries, err := service.ListClientAttributions(r.Context(), id, &domain.AuditFilters{
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			writeInsightError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"client_id": id,
			"entries":   entries,
		})
	})
}
