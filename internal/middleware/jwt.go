package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/podcastflow/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role in gin context.
	ContextUserRole = "user_role"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
	// ContextOrgSlug is the key for the session's organization slug.
	ContextOrgSlug = "org_slug"
	// ContextTenantSchema is the key for the resolved tenant schema name.
	ContextTenantSchema = "tenant_schema"

	// AuthCookieName is the session cookie carrying the JWT.
	AuthCookieName = "auth-token"
)

// ValidateFunc validates a raw token and returns the session identity.
// Defined as a function type so this package does not depend on the auth
// package's claim struct.
type ValidateFunc func(token string) (userID uuid.UUID, email, role, orgSlug string, err error)

// JWT returns a middleware that validates the session token and sets user
// claims in context. The token is read from the auth-token cookie first, then
// from the Authorization header.
func JWT(validate ValidateFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "missing authentication token")
			c.Abort()
			return
		}
		userID, email, role, orgSlug, err := validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserRole, role)
		c.Set(ContextOrgSlug, orgSlug)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserID returns the authenticated user ID from context.
func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// Role returns the authenticated user's role string from context.
func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// TenantSchema returns the tenant schema stored by the tenant middleware.
func TenantSchema(c *gin.Context) string {
	return c.GetString(ContextTenantSchema)
}

// OrgSlug returns the session's organization slug.
func OrgSlug(c *gin.Context) string {
	return c.GetString(ContextOrgSlug)
}
