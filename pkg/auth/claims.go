package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the credit service. The
// caller's identity is the registered subject claim.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims carry at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, c.HasRole)
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleOperator    = "operator"
	RoleUnderwriter = "underwriter"
	RoleAPIClient   = "api_client"
)

// WriterRoles may register customers and create loans.
var WriterRoles = []string{RoleAdmin, RoleUnderwriter, RoleAPIClient}
