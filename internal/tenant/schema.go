// Package tenant routes requests to per-organization database schemas.
// Every organization owns an org_<slug> schema holding its copy of the
// business tables; the public schema keeps only cross-tenant platform tables.
package tenant

import (
	"errors"
	"regexp"
	"strings"
)

// SchemaPrefix prefixes every tenant schema name.
const SchemaPrefix = "org_"

var (
	// ErrInvalidSlug is returned when a slug cannot derive a safe schema name.
	ErrInvalidSlug = errors.New("invalid organization slug")

	slugPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)
	schemaPattern = regexp.MustCompile(`^org_[a-z0-9_]{2,63}$`)
)

// SchemaName derives the physical schema name from an organization slug:
// org_ + slug with hyphens folded to underscores. Slugs are restricted to
// lowercase alphanumerics and hyphens, so the result is safe to interpolate
// into SQL identifiers.
func SchemaName(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return SchemaPrefix + strings.ReplaceAll(slug, "-", "_"), nil
}

// ValidSchemaName reports whether name is a well-formed tenant schema name.
// The executor rejects anything else before substitution.
func ValidSchemaName(name string) bool {
	return schemaPattern.MatchString(name)
}
