// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"migrate", "version"},
		{"migrate", "validate"},
		{"audit", "recent"},
		{"audit", "summary"},
		{"audit", "purge"},
		{"admin", "create"},
		{"product", "hard-delete"},
		{"keys", "generate"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestKeysGenerate(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "nested", "private.pem")
	pub := filepath.Join(dir, "nested", "public.pem")

	out, err := execute(t, "keys", "generate", "--private", priv, "--public", pub)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(priv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PRIVATE KEY")

	_, err = execute(t, "keys", "generate", "--private", priv, "--public", pub)
	assert.ErrorContains(t, err, "--force")

	_, err = execute(t, "keys", "generate", "--private", priv, "--public", pub, "--force")
	assert.NoError(t, err)
}

func TestFlagValidationBeforeConnecting(t *testing.T) {
	_, err := execute(t, "audit", "purge", "--days", "-1")
	assert.ErrorContains(t, err, "--days")

	_, err = execute(t, "product", "hard-delete", "--id", "42")
	assert.ErrorContains(t, err, "--id")

	_, err = execute(t, "admin", "create", "--email", "root@example.com")
	assert.ErrorContains(t, err, "--password")
}

func TestMigrateValidate(t *testing.T) {
	out, err := execute(t, "migrate", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations ok")
}

func TestRenderEntries(t *testing.T) {
	productID := "0f8c2b1e-7d4a-4c1b-9a7e-3c5d6e7f8a9b"
	var out bytes.Buffer
	renderEntries(&out, []audit.Entry{
		{
			ID:        7,
			UserEmail: "admin@example.com",
			Action:    audit.ActionCreate,
			ProductID: &productID,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        8,
			UserEmail: "admin@example.com",
			Action:    audit.ActionLogin,
			Timestamp: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		},
	})

	text := out.String()
	assert.Contains(t, text, "ACTION")
	assert.Contains(t, text, "2024-01-15T10:00:00Z")
	assert.Contains(t, text, productID)
	assert.Contains(t, text, "LOGIN")
}

func TestCountRowsOrdering(t *testing.T) {
	rows := countRows(map[string]int{"UPDATE": 1, "CREATE": 3, "DELETE": 1})

	require.Len(t, rows, 3)
	assert.Equal(t, []any{"CREATE", 3}, rows[0])
	assert.Equal(t, []any{"DELETE", 1}, rows[1])
	assert.Equal(t, []any{"UPDATE", 1}, rows[2])
}
