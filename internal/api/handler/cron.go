package handler

import (
	"context"
	"net/http"

	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeSales      = "sales"
	CronJobTypeClients    = "clients"
	CronJobTypeDeliveries = "deliveries"
)

// DeliverySyncer é a parte do agendador de entrega exposta para execução manual
type DeliverySyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// SaleSyncer também atualiza o cadastro de clientes sob demanda
type SaleSyncer interface {
	DeliverySyncer
	TriggerClientSync(ctx context.Context) error
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	Sales      SaleSyncer
	Deliveries DeliverySyncer
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeSales:
			if services.Sales == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de vendas não disponível", nil)
				return
			}
			if !services.Sales.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrConflict, "Sincronização de vendas já em andamento", nil)
				return
			}

		case CronJobTypeClients:
			if services.Sales == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de vendas não disponível", nil)
				return
			}
			if err := services.Sales.TriggerClientSync(r.Context()); err != nil {
				logrus.WithError(err).Error("Erro na sincronização manual de clientes")
				apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao sincronizar clientes do CRM", nil)
				return
			}

		case CronJobTypeDeliveries:
			if services.Deliveries == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de entrega não disponível", nil)
				return
			}
			if !services.Deliveries.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrConflict, "Sincronização de entrega já em andamento", nil)
				return
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: sales, clients, deliveries", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.Sales != nil {
			status["sales"] = services.Sales.GetStatus()
		}
		if services.Deliveries != nil {
			status["deliveries"] = services.Deliveries.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
