package organizations

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/auth"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
	"github.com/podcastflow/backend/pkg/response"
	"github.com/podcastflow/backend/pkg/utils"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo        *Repository
	users       *auth.Repository
	provisioner *tenant.Provisioner
	logger      *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, users *auth.Repository, provisioner *tenant.Provisioner, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, users: users, provisioner: provisioner, logger: logger}
}

// SignupRequest is the body for POST /api/auth/signup: a new organization
// plus its first admin user.
type SignupRequest struct {
	OrgName  string `json:"org_name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Plan     string `json:"plan"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// SignupResponse returns the created organization and admin user.
type SignupResponse struct {
	Organization *models.Organization `json:"organization"`
	User         models.UserPublic    `json:"user"`
}

// Signup handles POST /api/auth/signup. Creates the organization record,
// provisions its schema and creates the first admin user. The schema is
// provisioned before the org row becomes routable, so a failed provision
// leaves nothing reachable.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	schema, err := tenant.SchemaName(slug)
	if err != nil {
		response.BadRequest(c, "slug must be 2-63 chars, lowercase letters, numbers and hyphens")
		return
	}
	plan := req.Plan
	if plan == "" {
		plan = "starter"
	}

	if err := h.provisioner.Provision(c.Request.Context(), schema); err != nil {
		h.logger.Error("tenant provision failed", zap.String("schema", schema), zap.Error(err))
		response.Internal(c, "failed to provision organization")
		return
	}

	org := &models.Organization{
		Name:       strings.TrimSpace(req.OrgName),
		Slug:       slug,
		SchemaName: schema,
		Plan:       plan,
		Status:     models.OrgStatusActive,
	}
	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			response.Conflict(c, "an organization with this slug already exists")
			return
		}
		response.Internal(c, "failed to create organization")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	user, err := h.users.Create(c.Request.Context(), schema, req.Email, hash, req.FullName, models.RoleAdmin)
	if err != nil {
		response.Internal(c, "failed to create admin user")
		return
	}

	h.logger.Info("organization created", zap.String("slug", slug), zap.String("plan", plan))
	response.Created(c, SignupResponse{Organization: org, User: user.ToPublic()})
}

// Get handles GET /api/organization. Returns the caller's organization.
func (h *Handler) Get(c *gin.Context) {
	org, err := h.repo.GetBySlug(c.Request.Context(), middleware.OrgSlug(c))
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, org)
}

// ListPlans handles GET /api/plans.
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.repo.ListPlans(c.Request.Context())
	if err != nil {
		response.OKDegraded(c, []models.BillingPlan{})
		return
	}
	response.OK(c, plans)
}
