package migration_test

import (
	"testing"
	"testing/fstest"

	"github.com/dangerclosesec/greenhug/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_add_index.sql":    {Data: []byte("CREATE INDEX b;")},
		"0010_add_column.sql":   {Data: []byte("ALTER TABLE c;")},
		"0001_create_table.sql": {Data: []byte("CREATE TABLE a;")},
		"README.md":             {Data: []byte("ignored")},
	}

	migrations, err := migration.Load(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_table", migrations[0].Description)
	assert.Equal(t, "CREATE TABLE a;", migrations[0].SQL)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, 10, migrations[2].Version)
}

func TestLoadRejectsBadNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no description", fstest.MapFS{"0001.sql": {Data: []byte("x")}}},
		{"not a number", fstest.MapFS{"first_table.sql": {Data: []byte("x")}}},
		{"zero version", fstest.MapFS{"0000_init.sql": {Data: []byte("x")}}},
		{"duplicate version", fstest.MapFS{
			"0001_a.sql": {Data: []byte("x")},
			"0001_b.sql": {Data: []byte("y")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := migration.Load(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestAfter(t *testing.T) {
	all := []migration.Migration{{Version: 1}, {Version: 2}, {Version: 3}}

	assert.Len(t, migration.After(all, 0), 3)
	assert.Equal(t, 3, migration.After(all, 2)[0].Version)
	assert.Empty(t, migration.After(all, 3))
}

func TestEmbeddedSchema(t *testing.T) {
	m, err := migration.NewMigrator(nil)
	require.NoError(t, err)

	migrations := m.Migrations()
	require.NotEmpty(t, migrations)
	for i, mig := range migrations {
		assert.Equal(t, i+1, mig.Version, "versions must be contiguous")
	}

	var schema string
	for _, mig := range migrations {
		schema += mig.SQL
	}
	for _, table := range []string{
		"companies",
		"projects",
		"project_impact_entries",
		"company_impacts",
		"users",
		"impact_audit_logs",
	} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
