package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowWindowContains(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	bounded := Show{ActiveFrom: from, ActiveUntil: &until}
	assert.True(t, bounded.WindowContains(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, bounded.WindowContains(from))
	assert.False(t, bounded.WindowContains(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, bounded.WindowContains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	open := Show{ActiveFrom: from}
	assert.True(t, open.WindowContains(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, open.WindowContains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
