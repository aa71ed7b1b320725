package domain

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims são as declarações do token emitido pelo provedor de autenticação do CRM
type Claims struct {
	UserID    string   `json:"sub_id"`
	UserEmail string   `json:"email"`
	UserRole  string   `json:"role"`
	ClientIDs []string `json:"client_ids"`
	jwt.RegisteredClaims
}

// CanAccessClient informa se o usuário pode ler dados do cliente informado
func (c *Claims) CanAccessClient(clientID string) bool {
	if c.UserRole == RoleAdmin {
		return true
	}
	return slices.Contains(c.ClientIDs, clientID)
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)
