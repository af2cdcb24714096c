package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/crm?sslmode=disable", migrateURL("postgres://u:p@db:5432/crm?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/crm", migrateURL("postgresql://u@db/crm"))
	assert.Equal(t, "pgx5://x", migrateURL("pgx5://x"))
}

func TestMigrations_Embebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")
}

func TestLookupIPv4_Literal(t *testing.T) {
	ip, err := lookupIPv4(t.Context(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = lookupIPv4(t.Context(), "::1")
	assert.Error(t, err)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", deref(nullable("x")))
	assert.Equal(t, "", deref(nil))
	assert.Nil(t, fromNullDecimal(nullDecimal(nil)))
}
