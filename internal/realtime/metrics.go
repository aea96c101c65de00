package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/tenant"
)

// DeliverySnapshot is the metrics payload pushed to org rooms.
type DeliverySnapshot struct {
	ActiveCampaigns  int64 `json:"active_campaigns"`
	SpotsToday       int64 `json:"spots_today"`
	ImpressionsToday int64 `json:"impressions_today"`
	At               int64 `json:"at"`
}

// MetricsBroadcaster periodically pushes delivery snapshots to every org room
// with at least one connected client. Orgs with no listeners cost nothing.
type MetricsBroadcaster struct {
	hub    *Hub
	exec   *tenant.Executor
	tick   time.Duration
	logger *zap.Logger
}

// NewMetricsBroadcaster creates a metrics broadcaster.
func NewMetricsBroadcaster(hub *Hub, exec *tenant.Executor, tick time.Duration, logger *zap.Logger) *MetricsBroadcaster {
	if tick <= 0 {
		tick = 10 * time.Second
	}
	return &MetricsBroadcaster{hub: hub, exec: exec, tick: tick, logger: logger}
}

// Run ticks until ctx is done.
func (m *MetricsBroadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("metrics broadcaster stopping")
			return
		case <-ticker.C:
			m.broadcastAll(ctx)
		}
	}
}

func (m *MetricsBroadcaster) broadcastAll(ctx context.Context) {
	for _, slug := range m.hub.ActiveOrgs() {
		snap, err := m.snapshot(ctx, slug)
		if err != nil {
			m.logger.Warn("delivery snapshot failed", zap.String("org", slug), zap.Error(err))
			continue
		}
		m.hub.BroadcastToOrg(slug, "delivery_metrics", snap)
	}
}

func (m *MetricsBroadcaster) snapshot(ctx context.Context, orgSlug string) (*DeliverySnapshot, error) {
	schema, err := tenant.SchemaName(orgSlug)
	if err != nil {
		return nil, err
	}
	const q = `SELECT
			(SELECT COUNT(*) FROM {schema}.campaigns WHERE status = 'active'),
			(SELECT COUNT(*) FROM {schema}.schedule_items WHERE air_date = CURRENT_DATE),
			(SELECT COALESCE(SUM(impressions), 0) FROM {schema}.schedule_items WHERE air_date = CURRENT_DATE)`
	var snap DeliverySnapshot
	if err := m.exec.QueryRow(ctx, schema, q).Scan(&snap.ActiveCampaigns, &snap.SpotsToday, &snap.ImpressionsToday); err != nil {
		return nil, err
	}
	snap.At = time.Now().Unix()
	return &snap, nil
}
