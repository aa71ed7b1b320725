package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheckHandler(t *testing.T) {
	tests := []struct {
		name       string
		ping       LedgerPinger
		wantStatus int
		wantLedger string
	}{
		{name: "sem pinger", ping: nil, wantStatus: http.StatusOK, wantLedger: "ok"},
		{name: "ledger respondendo", ping: func(context.Context) error { return nil }, wantStatus: http.StatusOK, wantLedger: "ok"},
		{name: "ledger fora do ar", ping: func(context.Context) error { return errors.New("connection refused") }, wantStatus: http.StatusServiceUnavailable, wantLedger: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthcheckHandler(tt.ping).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body healthcheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantLedger, body.Ledger)
			assert.NotEmpty(t, body.Time)
		})
	}
}
