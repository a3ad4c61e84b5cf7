package domain

import "github.com/golang-jwt/jwt/v5"

// Perfis aceitos nos tokens da API
const (
	RoleAdmin    = 1
	RoleOperator = 2
)

type Claims struct {
	UserName   string `json:"user_name"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}

// IsAdmin indica se o token pertence a um administrador
func (c *Claims) IsAdmin() bool {
	return c != nil && c.UserRoleID == RoleAdmin
}
