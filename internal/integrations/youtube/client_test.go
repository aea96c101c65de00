package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(0), parseCount(""))
	assert.Equal(t, int64(42), parseCount("42"))
	assert.Equal(t, int64(1234567), parseCount("1234567"))
	assert.Equal(t, int64(0), parseCount("n/a"))
}

func TestQuotaKeyRollsOverDaily(t *testing.T) {
	d1 := time.Date(2025, 8, 27, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2025, 8, 28, 0, 1, 0, 0, time.UTC)
	assert.NotEqual(t, quotaKey(d1), quotaKey(d2))
	assert.Equal(t, "youtube:quota:2025-08-27", quotaKey(d1))
}
