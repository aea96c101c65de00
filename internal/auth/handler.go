package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
	"github.com/podcastflow/backend/pkg/utils"
)

// OrgDirectory resolves an organization slug to its tenant schema.
// Implemented by the organizations repository; an interface here keeps the
// auth package free of a dependency on it.
type OrgDirectory interface {
	ResolveActiveSchema(ctx context.Context, slug string) (schema string, ok bool, err error)
}

// CookieSettings controls how the auth-token cookie is issued.
type CookieSettings struct {
	Domain string
	Secure bool
	MaxAge int
}

// LoginRequest is the body for POST /api/auth/login. Sessions are bound to a
// single organization; the same email may exist independently in several.
type LoginRequest struct {
	Organization string `json:"organization" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo    *Repository
	orgs    OrgDirectory
	jwt     *JWTService
	cookies CookieSettings
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, orgs OrgDirectory, jwt *JWTService, cookies CookieSettings, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, orgs: orgs, jwt: jwt, cookies: cookies, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	schema, ok, err := h.orgs.ResolveActiveSchema(c.Request.Context(), req.Organization)
	if err != nil || !ok {
		// Same response as bad credentials so org existence is not probeable.
		response.Unauthorized(c, "invalid credentials")
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), schema, req.Email)
	if err != nil || !user.Active {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role), req.Organization)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	c.SetCookie(middleware.AuthCookieName, token, h.cookies.MaxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Logout handles POST /api/auth/logout. Clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	response.NoContent(c)
}

// Me handles GET /api/auth/me. Requires JWT + tenant middleware upstream.
func (h *Handler) Me(c *gin.Context) {
	schema := middleware.TenantSchema(c)
	user, err := h.repo.GetByID(c.Request.Context(), schema, middleware.UserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// ValidateToken adapts the JWT service to the middleware's ValidateFunc.
func (h *Handler) ValidateToken() middleware.ValidateFunc {
	return func(token string) (uuid.UUID, string, string, string, error) {
		claims, err := h.jwt.Validate(token)
		if err != nil {
			return uuid.Nil, "", "", "", err
		}
		return claims.UserID, claims.Email, claims.Role, claims.OrgSlug, nil
	}
}
