// AngelaMos | 2026
// migrate_test.go

package migrate

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestSchemaStatements(t *testing.T) {
	checks := map[string][]string{
		"*_create_users_table.sql": {
			"CREATE TABLE IF NOT EXISTS users",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active",
			"WHERE is_deleted = FALSE",
		},
		"*_create_products_table.sql": {
			"NUMERIC(10, 2) NOT NULL CHECK (price > 0)",
			"REFERENCES users (id) ON DELETE SET NULL",
		},
		"*_create_audit_logs_table.sql": {
			"id         BIGSERIAL PRIMARY KEY",
			"user_email VARCHAR(255) NOT NULL",
			"details    JSONB",
			"user_id    UUID REFERENCES users (id),",
			"product_id UUID REFERENCES products (id),",
		},
	}

	for pattern, wants := range checks {
		matches, err := fs.Glob(embedded, dir+"/"+pattern)
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := fs.ReadFile(embedded, matches[0])
		require.NoError(t, err)

		for _, want := range wants {
			assert.True(t, strings.Contains(string(data), want), "%s missing %q", pattern, want)
		}
	}
}

// Audit rows are immutable, so no referential action may rewrite them.
func TestAuditForeignKeysHaveNoAction(t *testing.T) {
	matches, err := fs.Glob(embedded, dir+"/*_create_audit_logs_table.sql")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := fs.ReadFile(embedded, matches[0])
	require.NoError(t, err)

	sql := strings.ToUpper(string(data))
	assert.NotContains(t, sql, "ON DELETE")
	assert.NotContains(t, sql, "ON UPDATE")
}

func TestValidateRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"migrations/add_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, validateFS(bad), "invalid migration filename")

	missingDown := fstest.MapFS{
		"migrations/20260101000000_add_things.sql": {Data: []byte("-- +goose Up\n")},
	}
	assert.ErrorContains(t, validateFS(missingDown), "missing goose annotations")

	dup := fstest.MapFS{
		"migrations/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"migrations/20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, validateFS(dup), "duplicate migration version")
}
