package authenticating

import (
	"errors"
)

// Tipos de erros de autenticação
var (
	ErrInvalidToken = errors.New("token inválido")
	ErrExpiredToken = errors.New("token expirado")
)
