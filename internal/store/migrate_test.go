package store

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/elderwatch/migrations/postgres"
)

type fakeTarget struct {
	applied map[int]bool
	ran     []int
	failOn  int
}

func (f *fakeTarget) EnsureMigrationsTable(context.Context) error { return nil }
func (f *fakeTarget) AppliedVersions(context.Context) (map[int]bool, error) {
	return f.applied, nil
}
func (f *fakeTarget) Apply(_ context.Context, m Migration) error {
	if m.Version == f.failOn {
		return errors.New("boom")
	}
	f.ran = append(f.ran, m.Version)
	f.applied[m.Version] = true
	return nil
}

func TestMigrator_RunAppliesPendingInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_links.sql": {Data: []byte("SELECT 2")},
		"sql/0001_init.sql":  {Data: []byte("SELECT 1")},
		"sql/0003_more.sql":  {Data: []byte("SELECT 3")},
		"sql/README.md":      {Data: []byte("ignored")},
	}
	target := &fakeTarget{applied: map[int]bool{1: true}}

	res, err := NewMigrator(fsys, "sql").Run(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, res.Applied)
	assert.Equal(t, []int{1}, res.Skipped)
	assert.Equal(t, []int{2, 3}, target.ran)

	// segunda corrida: nada pendiente
	res, err = NewMigrator(fsys, "sql").Run(context.Background(), target)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
}

func TestMigrator_StopsOnFailure(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("a")},
		"0002_b.sql": {Data: []byte("b")},
		"0003_c.sql": {Data: []byte("c")},
	}
	target := &fakeTarget{applied: map[int]bool{}, failOn: 2}

	res, err := NewMigrator(fsys, ".").Run(context.Background(), target)
	require.Error(t, err)
	assert.Equal(t, []int{1}, res.Applied)
	assert.Equal(t, []int{1}, target.ran)
}

func TestMigrator_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("a")},
		"0001_b.sql": {Data: []byte("b")},
	}
	_, err := NewMigrator(fsys, ".").ParseMigrations()
	require.Error(t, err)
}

func TestEmbeddedPostgresMigrations(t *testing.T) {
	ms, err := NewMigrator(migrations.PostgresFS, migrations.PostgresDir).ParseMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	assert.Contains(t, ms[0].SQL, "caregiver_patients")
}
