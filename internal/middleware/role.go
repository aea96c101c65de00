package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/rbac"
	"github.com/podcastflow/backend/pkg/response"
)

// RequireCapability returns a middleware that allows only roles holding the
// capability. Denial is a hard 403 with no resource access, never a filtered
// response. All role checks go through the rbac capability sets; handlers do
// not compare role strings.
func RequireCapability(r *rbac.RBAC, cap rbac.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		if !r.Can(models.Role(role), cap) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
