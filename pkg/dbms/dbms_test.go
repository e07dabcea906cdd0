package dbms

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/table"

	"github.com/stretchr/testify/require"
)

func schema(t *testing.T, s string) []*column.Column {
	t.Helper()
	cols, err := column.ParseSchema(s)
	require.NoError(t, err)
	return cols
}

func TestDatabases(t *testing.T) {
	m := New()
	require.Empty(t, m.ListDatabases())

	require.NoError(t, m.CreateDatabase("zoo"))
	require.NoError(t, m.CreateDatabase("app"))
	require.True(t, errors.Is(m.CreateDatabase("app"), customerrors.ErrDatabaseExists))
	require.True(t, errors.Is(m.CreateDatabase(""), customerrors.ErrEmptyName))
	require.Equal(t, []string{"app", "zoo"}, m.ListDatabases())

	require.NoError(t, m.DeleteDatabase("zoo"))
	require.True(t, errors.Is(m.DeleteDatabase("zoo"), customerrors.ErrDatabaseNotFound))
	require.Equal(t, []string{"app"}, m.ListDatabases())
}

func TestTables(t *testing.T) {
	m := New()
	require.NoError(t, m.CreateDatabase("app"))
	cols := schema(t, "id:int, name:str")
	opts := &table.Options{Order: 4, SearchKey: "id"}

	_, err := m.CreateTable("nope", "users", cols, opts)
	require.True(t, errors.Is(err, customerrors.ErrDatabaseNotFound))

	users, err := m.CreateTable("app", "users", cols, opts)
	require.NoError(t, err)
	_, err = m.CreateTable("app", "orders", cols, opts)
	require.NoError(t, err)

	_, err = m.CreateTable("app", "users", cols, opts)
	require.True(t, errors.Is(err, customerrors.ErrTableExists))
	_, err = m.CreateTable("app", "", cols, opts)
	require.True(t, errors.Is(err, customerrors.ErrEmptyName))
	_, err = m.CreateTable("app", "bad", cols, &table.Options{Order: 2, SearchKey: "id"})
	require.True(t, errors.Is(err, customerrors.ErrInvalidOrder))

	names, err := m.ListTables("app")
	require.NoError(t, err)
	require.Equal(t, []string{"orders", "users"}, names)
	_, err = m.ListTables("nope")
	require.True(t, errors.Is(err, customerrors.ErrDatabaseNotFound))

	got, err := m.GetTable("app", "users")
	require.NoError(t, err)
	require.Same(t, users, got)
	_, err = m.GetTable("app", "ghost")
	require.True(t, errors.Is(err, customerrors.ErrTableNotFound))
	_, err = m.GetTable("nope", "users")
	require.True(t, errors.Is(err, customerrors.ErrDatabaseNotFound))

	require.NoError(t, m.DeleteTable("app", "orders"))
	require.True(t, errors.Is(m.DeleteTable("app", "orders"), customerrors.ErrTableNotFound))
	require.True(t, errors.Is(m.DeleteTable("nope", "orders"), customerrors.ErrDatabaseNotFound))

	names, err = m.ListTables("app")
	require.NoError(t, err)
	require.Equal(t, []string{"users"}, names)
}

func populate(t *testing.T) *Manager {
	t.Helper()
	m := New()
	require.NoError(t, m.CreateDatabase("shop"))
	require.NoError(t, m.CreateDatabase("empty"))

	items, err := m.CreateTable("shop", "items", schema(t, "id:int, name:str, price:float, stock:bool"),
		&table.Options{Order: 3, SearchKey: "id"})
	require.NoError(t, err)
	for i := 50; i >= 1; i-- {
		require.NoError(t, items.Insert(table.Record{
			"id": i, "name": "item", "price": float64(i) * 1.25, "stock": i%3 == 0,
		}))
	}

	tags, err := m.CreateTable("shop", "tags", schema(t, "tag:str, weight:int"),
		&table.Options{Order: 5, SearchKey: "tag"})
	require.NoError(t, err)
	for _, tag := range []string{"red", "blue", "green"} {
		require.NoError(t, tags.Insert(table.Record{"tag": tag, "weight": len(tag)}))
	}
	return m
}

func requireSameContent(t *testing.T, want, got *Manager) {
	t.Helper()
	require.Equal(t, want.ListDatabases(), got.ListDatabases())
	for _, db := range want.ListDatabases() {
		wantTables, err := want.ListTables(db)
		require.NoError(t, err)
		gotTables, err := got.ListTables(db)
		require.NoError(t, err)
		require.Equal(t, wantTables, gotTables)

		for _, name := range wantTables {
			wt, _ := want.GetTable(db, name)
			gt, _ := got.GetTable(db, name)
			require.Equal(t, wt.Order(), gt.Order())
			require.Equal(t, wt.SearchKey(), gt.SearchKey())
			require.Equal(t, wt.Columns(), gt.Columns())
			require.Equal(t, wt.GetAll(), gt.GetAll())
			require.NoError(t, gt.Tree().CheckConsistency())
		}
	}
}

func TestSaveLoadJSON(t *testing.T) {
	m := populate(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	require.NoError(t, m.SaveToDisk(path))

	loaded := New()
	require.NoError(t, loaded.LoadFromDisk(path))
	requireSameContent(t, m, loaded)

	items, err := loaded.GetTable("shop", "items")
	require.NoError(t, err)
	require.Len(t, items.RangeQuery(10, 19), 10)
}

func TestSaveLoadSQLite(t *testing.T) {
	m := populate(t)
	for _, name := range []string{"state.db", "state.sqlite"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, m.SaveToDisk(path))

		loaded := New()
		require.NoError(t, loaded.LoadFromDisk(path))
		requireSameContent(t, m, loaded)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	m := populate(t)
	dir := t.TempDir()

	err := m.LoadFromDisk(filepath.Join(dir, "missing.json"))
	require.True(t, errors.Is(err, os.ErrNotExist))
	err = m.LoadFromDisk(filepath.Join(dir, "missing.db"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{]"), 0644))
	err = m.LoadFromDisk(garbage)
	require.True(t, errors.Is(err, customerrors.ErrSnapshotFormat))

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{
		"format": "go-bptdb/snapshot", "version": 1, "saved_at": "2024-01-01 00:00:00",
		"id": "0b6c7c4e-3a0f-4c39-9a52-3b1f1f6f2c11",
		"databases": [{"name": "x", "tables": [{
			"name": "t", "order": 3, "search_key": "id",
			"columns": [{"name": "id", "type": "int"}],
			"records": [{"id": 1}, {"id": 1}]
		}]}]
	}`), 0644))
	err = m.LoadFromDisk(dup)
	require.True(t, errors.Is(err, customerrors.ErrKeyExists))

	require.Equal(t, []string{"empty", "shop"}, m.ListDatabases())
	items, err := m.GetTable("shop", "items")
	require.NoError(t, err)
	require.Equal(t, 50, items.Len())
}
