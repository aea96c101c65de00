package users

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/auth"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
	"github.com/podcastflow/backend/pkg/utils"
)

// ErrSelfDelete is returned when a user attempts to delete their own account.
var ErrSelfDelete = errors.New("you cannot delete yourself")

// ValidateDelete rejects self-deletion. Admins removing their own account
// would strand the organization, so the API refuses it outright.
func ValidateDelete(callerID, targetID uuid.UUID) error {
	if callerID == targetID {
		return ErrSelfDelete
	}
	return nil
}

// CreateUserRequest is the body for POST /api/users.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateRoleRequest is the body for PUT /api/users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Store is the user persistence surface the handler needs. Satisfied by
// *auth.Repository; narrow so handler tests can substitute a fake.
type Store interface {
	List(ctx context.Context, schema string) ([]models.UserPublic, error)
	Create(ctx context.Context, schema, email, passwordHash, fullName string, role models.Role) (*models.User, error)
	UpdateRole(ctx context.Context, schema string, id uuid.UUID, role models.Role) error
	Deactivate(ctx context.Context, schema string, id uuid.UUID) error
}

// Handler handles organization user management endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/users.
func (h *Handler) List(c *gin.Context) {
	schema := middleware.TenantSchema(c)
	list, err := h.repo.List(c.Request.Context(), schema)
	if err != nil {
		response.OKDegraded(c, []models.UserPublic{})
		return
	}
	if list == nil {
		list = []models.UserPublic{}
	}
	response.OK(c, list)
}

// Create handles POST /api/users (user:manage capability required upstream).
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "invalid role")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	schema := middleware.TenantSchema(c)
	user, err := h.repo.Create(c.Request.Context(), schema, req.Email, hash, req.FullName, models.Role(req.Role))
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			response.BadRequest(c, "email already exists in this organization")
			return
		}
		response.Internal(c, "failed to create user")
		return
	}
	response.Created(c, user.ToPublic())
}

// UpdateRole handles PUT /api/users/:id/role.
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "invalid role")
		return
	}

	schema := middleware.TenantSchema(c)
	if err := h.repo.UpdateRole(c.Request.Context(), schema, id, models.Role(req.Role)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, "failed to update role")
		return
	}
	response.NoContent(c)
}

// Delete handles DELETE /api/users/:id. Users are deactivated, not removed;
// a second delete of the same user returns 404.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if err := ValidateDelete(middleware.UserID(c), id); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	schema := middleware.TenantSchema(c)
	if err := h.repo.Deactivate(c.Request.Context(), schema, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, "failed to delete user")
		return
	}
	response.NoContent(c)
}
