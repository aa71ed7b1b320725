package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	signaturePrefix = "sha256="
	maxWebhookBody  = 1 << 20
)

// WebhookSignature valida o HMAC-SHA256 do corpo enviado no cabeçalho X-Webhook-Signature
func WebhookSignature(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Não foi possível ler o corpo da requisição", nil)
				return
			}
			r.Body.Close()

			signature := strings.TrimPrefix(r.Header.Get(SignatureHeader), signaturePrefix)
			if !ValidSignature(secret, body, signature) {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Assinatura de webhook inválida")
				apiErrors.WriteError(w, apiErrors.ErrInvalidSignature, "Assinatura inválida", nil)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// Sign retorna a assinatura hexadecimal do corpo
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func ValidSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
