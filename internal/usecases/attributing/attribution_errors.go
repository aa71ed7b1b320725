package attributing

import (
	"fmt"
)

// AttributionError é um erro com contexto adicional para a reconciliação
type AttributionError struct {
	Err           error  // Erro base
	Code          string // Código de erro para API
	TransactionID string // Venda envolvida
	Details       string // Detalhes adicionais
}

func (e *AttributionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AttributionError) Unwrap() error {
	return e.Err
}

func NewAttributionError(err error, code string, transactionID string, details string) *AttributionError {
	return &AttributionError{
		Err:           err,
		Code:          code,
		TransactionID: transactionID,
		Details:       details,
	}
}
