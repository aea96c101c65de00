package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/pkg/response"
)

const (
	orgCachePrefix = "org:schema:"
	orgCacheTTL    = 60 * time.Second
	// orgCacheMiss caches "not routable" so a suspended organization does not
	// hit the database on every request.
	orgCacheMiss = "!"
)

// OrgResolver resolves an organization slug to its tenant schema name,
// returning ok=false for unknown or suspended organizations. Implemented by
// the organizations repository.
type OrgResolver interface {
	ResolveActiveSchema(ctx context.Context, slug string) (schema string, ok bool, err error)
}

// ResolveTenant returns a middleware mapping the authenticated organization
// slug to its physical schema, cached in redis. Runs after JWT. Unknown or
// suspended organizations get 401; tenant existence is never leaked.
func ResolveTenant(resolver OrgResolver, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.GetString(ContextOrgSlug)
		if slug == "" {
			response.Unauthorized(c, "missing organization context")
			c.Abort()
			return
		}

		schema, err := resolveCachedSchema(c.Request.Context(), resolver, rdb, slug)
		if err != nil {
			logger.Error("tenant resolve failed", zap.String("slug", slug), zap.Error(err))
			response.Unauthorized(c, "organization not available")
			c.Abort()
			return
		}
		if schema == "" {
			response.Unauthorized(c, "organization not available")
			c.Abort()
			return
		}

		c.Set(ContextTenantSchema, schema)
		c.Next()
	}
}

func resolveCachedSchema(ctx context.Context, resolver OrgResolver, rdb *redis.Client, slug string) (string, error) {
	key := orgCachePrefix + slug
	if rdb != nil {
		if cached, err := rdb.Get(ctx, key).Result(); err == nil {
			if cached == orgCacheMiss {
				return "", nil
			}
			return cached, nil
		}
	}

	schema, ok, err := resolver.ResolveActiveSchema(ctx, slug)
	if err != nil {
		return "", err
	}
	if rdb != nil {
		val := schema
		if !ok {
			val = orgCacheMiss
		}
		_ = rdb.Set(ctx, key, val, orgCacheTTL).Err()
	}
	if !ok {
		return "", nil
	}
	return schema, nil
}
