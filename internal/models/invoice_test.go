package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to string
		override bool
		want     bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, false, true},
		{InvoiceStatusDraft, InvoiceStatusVoid, false, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false, false},
		{InvoiceStatusSent, InvoiceStatusPaid, false, true},
		{InvoiceStatusSent, InvoiceStatusVoid, false, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, true, true},
		{InvoiceStatusVoid, InvoiceStatusDraft, true, true},
		{InvoiceStatusPaid, InvoiceStatusSent, true, false},
		{InvoiceStatusVoid, InvoiceStatusPaid, true, false},
		{"bogus", InvoiceStatusSent, true, false},
	}
	for _, tt := range tests {
		got := InvoiceTransitionAllowed(tt.from, tt.to, tt.override)
		assert.Equal(t, tt.want, got, "%s -> %s (override=%v)", tt.from, tt.to, tt.override)
	}
}

func TestReconcileInvoice(t *testing.T) {
	lines := []InvoiceLine{
		{Quantity: 2, UnitCents: 50000},
		{Quantity: 1, UnitCents: 25000},
	}
	assert.True(t, ReconcileInvoice(125000, lines))
	assert.False(t, ReconcileInvoice(125001, lines))
	assert.False(t, ReconcileInvoice(100000, lines))
	assert.True(t, ReconcileInvoice(0, nil))
}

func TestCampaignTransitionAllowed(t *testing.T) {
	assert.True(t, CampaignTransitionAllowed(CampaignStatusDraft, CampaignStatusActive))
	assert.True(t, CampaignTransitionAllowed(CampaignStatusActive, CampaignStatusPaused))
	assert.True(t, CampaignTransitionAllowed(CampaignStatusActive, CampaignStatusCompleted))
	assert.True(t, CampaignTransitionAllowed(CampaignStatusPaused, CampaignStatusActive))
	assert.True(t, CampaignTransitionAllowed(CampaignStatusPaused, CampaignStatusCompleted))

	assert.False(t, CampaignTransitionAllowed(CampaignStatusDraft, CampaignStatusCompleted))
	assert.False(t, CampaignTransitionAllowed(CampaignStatusCompleted, CampaignStatusActive))
	assert.False(t, CampaignTransitionAllowed(CampaignStatusActive, CampaignStatusDraft))
}
