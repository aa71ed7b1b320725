package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dgflow/attribution-api/pkg/log"
)

// LedgerPinger verifica se o armazenamento do ledger responde
type LedgerPinger func(ctx context.Context) error

const healthcheckTimeout = 2 * time.Second

type healthcheckResponse struct {
	Status string `json:"status"`
	Ledger string `json:"ledger"`
	Time   string `json:"time"`
}

// HealthcheckHandler responde 503 quando o ledger não responde ao ping.
// Sem pinger (ledger em memória) o ledger é sempre considerado disponível.
func HealthcheckHandler(ping LedgerPinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := healthcheckResponse{
			Status: "ok",
			Ledger: "ok",
			Time:   time.Now().UTC().Format(time.RFC3339),
		}
		status := http.StatusOK

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
			defer cancel()

			if err := ping(ctx); err != nil {
				log.ForContext(r.Context()).WithError(err).Warn("Ledger indisponível no healthcheck")
				resp.Status = "degraded"
				resp.Ledger = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, r, status, resp)
	})
}
