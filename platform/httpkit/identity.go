// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated caller as carried by the token.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access caller information without depending on Gin.
// Role and company here come from token claims and are used only for coarse
// route gating; authorization-scoped queries re-resolve them per request.
type Identity interface {
	// ProfileID returns the authenticated profile's ID.
	ProfileID() int64
	// Email returns the authenticated email address.
	Email() string
	// RoleName returns the token's role claim, empty if absent.
	RoleName() string
	// IsAuthenticated returns true if the caller is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	profileID     int64
	email         string
	role          string
	authenticated bool
}

func (i *identity) ProfileID() int64 {
	return i.profileID
}

func (i *identity) Email() string {
	return i.email
}

func (i *identity) RoleName() string {
	return i.role
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if caller info is not present.
func GetIdentity(c *gin.Context) Identity {
	profileID, idOK := c.Get(ContextProfileIDKey)
	email, emailOK := c.Get(ContextEmailKey)

	if !idOK || !emailOK {
		return &identity{authenticated: false}
	}

	id, ok := profileID.(int64)
	if !ok {
		return &identity{authenticated: false}
	}

	address, ok := email.(string)
	if !ok || address == "" {
		return &identity{authenticated: false}
	}

	role := ""
	if value, ok := c.Get(ContextRoleKey); ok {
		role, _ = value.(string)
	}

	return &identity{
		profileID:     id,
		email:         address,
		role:          role,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
