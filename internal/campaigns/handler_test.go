package campaigns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

type fakeStore struct {
	campaign      *models.Campaign
	listErr       error
	activeInCat   int
	statusUpdates []string
}

func (f *fakeStore) List(ctx context.Context, schema, status string) ([]models.Campaign, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return nil, nil
}

func (f *fakeStore) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Campaign, error) {
	if f.campaign == nil || f.campaign.ID != id {
		return nil, errors.New("no rows")
	}
	return f.campaign, nil
}

func (f *fakeStore) Create(ctx context.Context, schema string, cm *models.Campaign) error { return nil }

func (f *fakeStore) Update(ctx context.Context, schema string, cm *models.Campaign) error { return nil }

func (f *fakeStore) UpdateStatus(ctx context.Context, schema string, id uuid.UUID, status string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeStore) CountActiveInCategory(ctx context.Context, schema, category string, exclude uuid.UUID) (int, error) {
	return f.activeInCat, nil
}

type fakeExclusivity struct {
	exclusive bool
	err       error
}

func (f *fakeExclusivity) IsCategoryExclusive(ctx context.Context, schema, category string) (bool, error) {
	return f.exclusive, f.err
}

func campaignRouter(store Store, excl ExclusivityChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, excl, zap.NewNop())
	r := gin.New()
	inject := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Set(middleware.ContextTenantSchema, "org_acme")
	}
	r.GET("/campaigns", inject, h.List)
	r.PUT("/campaigns/:id/status", inject, h.UpdateStatus)
	return r
}

func draftCampaign(category string) *models.Campaign {
	return &models.Campaign{
		ID:          uuid.New(),
		Name:        "Fall Push",
		Advertiser:  "Acme Motors",
		Category:    category,
		BudgetCents: 500000,
		Status:      models.CampaignStatusDraft,
		StartDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}
}

func putStatus(router *gin.Engine, id uuid.UUID, status string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"status": status})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/campaigns/"+id.String()+"/status", bytes.NewBuffer(body)))
	return w
}

// A failing tenant read must not masquerade as a genuinely empty list.
func TestListCampaigns_DegradedOnStoreFailure(t *testing.T) {
	router := campaignRouter(&fakeStore{listErr: context.DeadlineExceeded}, &fakeExclusivity{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/campaigns", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Degraded)
	assert.Empty(t, body.Data)
}

// Activation must not fail open: if the exclusivity rule cannot be read the
// transition is rejected, not silently allowed.
func TestUpdateStatus_ExclusivityCheckFailure(t *testing.T) {
	store := &fakeStore{campaign: draftCampaign("automotive")}
	router := campaignRouter(store, &fakeExclusivity{err: errors.New("connection refused")})

	w := putStatus(router, store.campaign.ID, models.CampaignStatusActive)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, store.statusUpdates)
}

func TestUpdateStatus_ExclusiveCategoryConflict(t *testing.T) {
	store := &fakeStore{campaign: draftCampaign("automotive"), activeInCat: 1}
	router := campaignRouter(store, &fakeExclusivity{exclusive: true})

	w := putStatus(router, store.campaign.ID, models.CampaignStatusActive)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, store.statusUpdates)
}

func TestUpdateStatus_ExclusiveCategoryFirstActive(t *testing.T) {
	store := &fakeStore{campaign: draftCampaign("automotive"), activeInCat: 0}
	router := campaignRouter(store, &fakeExclusivity{exclusive: true})

	w := putStatus(router, store.campaign.ID, models.CampaignStatusActive)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{models.CampaignStatusActive}, store.statusUpdates)
}
