package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Limites da coluna revenue NUMERIC(18,4) do ledger. Uma venda precisa caber
// com folga para que a soma do dia também caiba.
const AmountScale = 4

var MaxSaleAmount = decimal.New(1, 12)

// SaleEvent representa uma venda recebida da origem externa (webhook ou sincronização)
type SaleEvent struct {
	TransactionID string          `json:"transaction_id"`
	ClientID      string          `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	OccurredAt    time.Time       `json:"occurred_at"`
	UTMSource     *string         `json:"utm_source,omitempty"`
	UTMMedium     *string         `json:"utm_medium,omitempty"`
	UTMCampaign   *string         `json:"utm_campaign,omitempty"`
	UTMContent    *string         `json:"utm_content,omitempty"`
	UTMTerm       *string         `json:"utm_term,omitempty"`
}

// UTMSnapshot é a cópia crua dos parâmetros UTM guardada na auditoria
type UTMSnapshot struct {
	Source   *string `json:"source"`
	Medium   *string `json:"medium"`
	Campaign *string `json:"campaign"`
	Content  *string `json:"content"`
	Term     *string `json:"term"`
}

// Validate verifica os campos obrigatórios do evento
func (e *SaleEvent) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: evento ausente", ErrInvalidSaleEvent)
	}
	if strings.TrimSpace(e.TransactionID) == "" {
		return fmt.Errorf("%w: transaction_id é obrigatório", ErrInvalidSaleEvent)
	}
	if strings.TrimSpace(e.ClientID) == "" {
		return fmt.Errorf("%w: client_id é obrigatório", ErrInvalidSaleEvent)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount não pode ser negativo", ErrInvalidSaleEvent)
	}
	if !e.Amount.Equal(e.Amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount aceita no máximo %d casas decimais", ErrInvalidSaleEvent, AmountScale)
	}
	if e.Amount.GreaterThanOrEqual(MaxSaleAmount) {
		return fmt.Errorf("%w: amount deve ser menor que %s", ErrInvalidSaleEvent, MaxSaleAmount.String())
	}
	if !currencyPattern.MatchString(e.Currency) {
		return fmt.Errorf("%w: currency deve ser um código ISO 4217, recebido %q", ErrInvalidSaleEvent, e.Currency)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at é obrigatório", ErrInvalidSaleEvent)
	}
	return nil
}

// UTM retorna o snapshot dos parâmetros UTM do evento
func (e *SaleEvent) UTM() UTMSnapshot {
	return UTMSnapshot{
		Source:   e.UTMSource,
		Medium:   e.UTMMedium,
		Campaign: e.UTMCampaign,
		Content:  e.UTMContent,
		Term:     e.UTMTerm,
	}
}
