package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/auth"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

func TestValidateDelete(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()

	err := ValidateDelete(caller, caller)
	assert.ErrorIs(t, err, ErrSelfDelete)
	assert.Contains(t, err.Error(), "delete yourself")

	assert.NoError(t, ValidateDelete(caller, other))
}

type fakeStore struct {
	listErr        error
	createErr      error
	deactivateErrs []error
	deactivated    []uuid.UUID
}

func (f *fakeStore) List(ctx context.Context, schema string) ([]models.UserPublic, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, schema, email, passwordHash, fullName string, role models.Role) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.User{ID: uuid.New(), Email: email, FullName: fullName, Role: role, Active: true}, nil
}

func (f *fakeStore) UpdateRole(ctx context.Context, schema string, id uuid.UUID, role models.Role) error {
	return nil
}

func (f *fakeStore) Deactivate(ctx context.Context, schema string, id uuid.UUID) error {
	var err error
	if len(f.deactivateErrs) > 0 {
		err = f.deactivateErrs[0]
		f.deactivateErrs = f.deactivateErrs[1:]
	}
	if err == nil {
		f.deactivated = append(f.deactivated, id)
	}
	return err
}

func userRouter(store Store, callerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	r := gin.New()
	inject := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, callerID)
		c.Set(middleware.ContextTenantSchema, "org_acme")
	}
	r.GET("/users", inject, h.List)
	r.POST("/users", inject, h.Create)
	r.DELETE("/users/:id", inject, h.Delete)
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) response.Body {
	t.Helper()
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// A failing tenant read must not masquerade as a genuinely empty list.
func TestListUsers_DegradedOnStoreFailure(t *testing.T) {
	router := userRouter(&fakeStore{listErr: context.DeadlineExceeded}, uuid.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.True(t, body.Success)
	assert.True(t, body.Degraded)
	assert.Empty(t, body.Data)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	router := userRouter(&fakeStore{createErr: auth.ErrDuplicateEmail}, uuid.New())

	payload := `{"email":"sales@acme.test","password":"secret-pass","full_name":"Sam Seller","role":"sales"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(payload)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w).Error, "email already exists")
}

// Deactivation is idempotent at the storage layer but not at the API: the
// second delete of the same user reports 404.
func TestDeleteUser_SecondDeleteNotFound(t *testing.T) {
	store := &fakeStore{deactivateErrs: []error{nil, pgx.ErrNoRows}}
	router := userRouter(store, uuid.New())
	target := uuid.New()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+target.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+target.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []uuid.UUID{target}, store.deactivated)
}

func TestDeleteUser_SelfDeletionRefused(t *testing.T) {
	caller := uuid.New()
	store := &fakeStore{}
	router := userRouter(store, caller)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+caller.String(), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w).Error, "delete yourself")
	assert.Empty(t, store.deactivated)
}
