package worker

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Aggregator runs the per-type report queries and renders CSV.
type Aggregator struct {
	exec *tenant.Executor
}

// NewAggregator creates a report aggregator.
func NewAggregator(exec *tenant.Executor) *Aggregator {
	return &Aggregator{exec: exec}
}

// Generate runs the aggregation for a report type over [start, end] and
// returns the rendered CSV.
func (a *Aggregator) Generate(ctx context.Context, schema, reportType string, start, end time.Time) ([]byte, error) {
	switch reportType {
	case models.ReportCampaignPerformance:
		return a.campaignPerformance(ctx, schema, start, end)
	case models.ReportRevenueByShow:
		return a.revenueByShow(ctx, schema, start, end)
	case models.ReportInvoiceAging:
		return a.invoiceAging(ctx, schema)
	}
	return nil, fmt.Errorf("unknown report type: %s", reportType)
}

func (a *Aggregator) campaignPerformance(ctx context.Context, schema string, start, end time.Time) ([]byte, error) {
	const q = `SELECT c.name, c.advertiser, COUNT(si.id), COALESCE(SUM(si.impressions), 0), COALESCE(SUM(si.negotiated_cents), 0)
		FROM {schema}.campaigns c
		LEFT JOIN {schema}.schedule_items si ON si.campaign_id = c.id AND si.air_date BETWEEN $1 AND $2
		GROUP BY c.id, c.name, c.advertiser
		ORDER BY c.name`
	rows, err := a.exec.Query(ctx, schema, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{{"campaign", "advertiser", "spots", "impressions", "booked_cents"}}
	for rows.Next() {
		var name, advertiser string
		var spots, impressions, booked int64
		if err := rows.Scan(&name, &advertiser, &spots, &impressions, &booked); err != nil {
			return nil, err
		}
		records = append(records, []string{
			name, advertiser,
			strconv.FormatInt(spots, 10),
			strconv.FormatInt(impressions, 10),
			strconv.FormatInt(booked, 10),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return renderCSV(records)
}

func (a *Aggregator) revenueByShow(ctx context.Context, schema string, start, end time.Time) ([]byte, error) {
	const q = `SELECT s.name, COUNT(si.id), COALESCE(SUM(si.negotiated_cents), 0)
		FROM {schema}.shows s
		LEFT JOIN {schema}.schedule_items si ON si.show_id = s.id AND si.air_date BETWEEN $1 AND $2
		GROUP BY s.id, s.name
		ORDER BY s.name`
	rows, err := a.exec.Query(ctx, schema, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{{"show", "spots", "revenue_cents"}}
	for rows.Next() {
		var name string
		var spots, revenue int64
		if err := rows.Scan(&name, &spots, &revenue); err != nil {
			return nil, err
		}
		records = append(records, []string{name, strconv.FormatInt(spots, 10), strconv.FormatInt(revenue, 10)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return renderCSV(records)
}

func (a *Aggregator) invoiceAging(ctx context.Context, schema string) ([]byte, error) {
	const q = `SELECT i.number, c.name, i.total_cents, i.status, i.due_date,
			CASE WHEN i.due_date IS NOT NULL AND i.status = 'sent' AND i.due_date < NOW()
				THEN (CURRENT_DATE - i.due_date) ELSE 0 END
		FROM {schema}.invoices i
		JOIN {schema}.campaigns c ON c.id = i.campaign_id
		WHERE i.status IN ('sent', 'paid')
		ORDER BY i.due_date NULLS LAST`
	rows, err := a.exec.Query(ctx, schema, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{{"invoice", "campaign", "total_cents", "status", "due_date", "days_overdue"}}
	for rows.Next() {
		var number, campaign, status string
		var total int64
		var due *time.Time
		var overdue int
		if err := rows.Scan(&number, &campaign, &total, &status, &due, &overdue); err != nil {
			return nil, err
		}
		dueStr := ""
		if due != nil {
			dueStr = due.Format("2006-01-02")
		}
		records = append(records, []string{
			number, campaign, strconv.FormatInt(total, 10), status, dueStr, strconv.Itoa(overdue),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return renderCSV(records)
}

func renderCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
