package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSaleEvent indica um payload de venda incompleto ou inconsistente
	ErrInvalidSaleEvent = errors.New("invalid sale event")

	// ErrLedgerUnavailable indica falha transitória no ledger; o chamador deve tentar novamente
	ErrLedgerUnavailable = errors.New("metrics ledger unavailable")

	// ErrDuplicateEvent indica que o transaction_id já foi processado
	ErrDuplicateEvent = errors.New("sale event already processed")

	// ErrLedgerRejected indica que o ledger recusou os valores da venda; reenviar não muda o resultado
	ErrLedgerRejected = errors.New("metrics ledger rejected the sale")

	// ErrRecordNotFound indica que o registro do ledger não existe
	ErrRecordNotFound = errors.New("ad metric record not found")
)

// LedgerError envolve uma falha do armazenamento com a operação que a causou
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLedgerUnavailable.Error(), e.Op, e.Err)
}

// Unwrap permite errors.Is tanto para ErrLedgerUnavailable quanto para a causa
func (e *LedgerError) Unwrap() []error {
	return []error{ErrLedgerUnavailable, e.Err}
}

// NewLedgerError cria um LedgerError para a operação informada
func NewLedgerError(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Err: err}
}

// NewLedgerRejection marca uma falha permanente do ledger (dado fora do domínio da coluna, restrição violada)
func NewLedgerRejection(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLedgerRejected, op, err)
}

// IsRetryable informa se o erro deve ser tratado como transitório
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLedgerUnavailable)
}
