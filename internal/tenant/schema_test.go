package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaName(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		want    string
		wantErr bool
	}{
		{"simple slug", "acme", "org_acme", false},
		{"hyphens become underscores", "acme-media", "org_acme_media", false},
		{"digits allowed", "studio9", "org_studio9", false},
		{"mixed case folded", "Acme-Media", "org_acme_media", false},
		{"surrounding whitespace trimmed", "  acme  ", "org_acme", false},
		{"empty slug rejected", "", "", true},
		{"single char rejected", "a", "", true},
		{"leading hyphen rejected", "-acme", "", true},
		{"underscore rejected in slug", "acme_media", "", true},
		{"sql injection rejected", `acme";DROP SCHEMA public;--`, "", true},
		{"dots rejected", "acme.media", "", true},
		{"spaces rejected", "acme media", "", true},
		{"uppercase-only rejected after fold", "ACME", "org_acme", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemaName(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlug)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, ValidSchemaName(got))
		})
	}
}

func TestValidSchemaName(t *testing.T) {
	assert.True(t, ValidSchemaName("org_acme"))
	assert.True(t, ValidSchemaName("org_acme_media_2"))
	assert.False(t, ValidSchemaName("public"))
	assert.False(t, ValidSchemaName("org_"))
	assert.False(t, ValidSchemaName("org_Acme"))
	assert.False(t, ValidSchemaName(`org_a"b`))
	assert.False(t, ValidSchemaName("pg_catalog"))
}
