package handler

import (
	"errors"
	"net/http"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
)

// ReceiveSale recebe uma venda do CRM e a reconcilia com o ledger de métricas.
// Vendas repetidas respondem 200 com status "duplicate".
func ReceiveSale(reconciler attributing.Reconciler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var event domain.SaleEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			logger.WithError(err).Warn("webhook: corpo da venda inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		logger = logger.WithFields(log.Fields{
			"transaction_id": event.TransactionID,
			"client_id":      event.ClientID,
		})

		result, err := reconciler.Reconcile(r.Context(), &event)
		if err != nil {
			var attrErr *attributing.AttributionError
			if !errors.As(err, &attrErr) {
				logger.WithError(err).Error("webhook: erro inesperado na reconciliação")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar venda", nil)
				return
			}

			if errors.Is(err, domain.ErrInvalidSaleEvent) {
				logger.WithError(err).Warn("webhook: venda rejeitada")
				apiErrors.WriteError(w, attrErr.Code, err.Error(), nil)
				return
			}

			if errors.Is(err, domain.ErrLedgerRejected) {
				logger.WithError(err).Warn("webhook: venda recusada pelo ledger")
				apiErrors.WriteError(w, attrErr.Code, "Valores da venda recusados pelo ledger de métricas", result)
				return
			}

			logger.WithError(err).Error("webhook: ledger indisponível")
			apiErrors.WriteError(w, attrErr.Code, "Ledger de métricas indisponível, reenvie o evento", result)
			return
		}

		logger.WithField("status", string(result.Status)).Info("webhook: venda processada")
		writeJSON(w, r, http.StatusOK, result)
	})
}
