package middleware

import (
	"net/http"
	"slices"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/justinas/alice"
)

// RoleMiddleware deixa passar apenas usuários autenticados com um dos roles
func RoleMiddleware(allowedRoles ...string) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromRequest(r)
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !slices.Contains(allowedRoles, claims.UserRole) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id": claims.UserID,
					"role":    claims.UserRole,
					"path":    r.URL.Path,
				}).Warn("Acesso negado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly() alice.Constructor {
	return RoleMiddleware(domain.RoleAdmin)
}

// AdminOrManager libera administradores e gestores de tráfego
func AdminOrManager() alice.Constructor {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleManager)
}

// AllRoles exige apenas autenticação; o isolamento por cliente fica no handler
func AllRoles() alice.Constructor {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleManager, domain.RoleClient)
}

// ClaimsFromRequest retorna as claims autenticadas da requisição
func ClaimsFromRequest(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}
