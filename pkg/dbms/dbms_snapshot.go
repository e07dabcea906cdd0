package dbms

import (
	"bufio"
	"maps"
	"os"
	"slices"
	"time"

	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/snapshot"
	"go-bptdb/pkg/table"
	"go-bptdb/util/helpers"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SaveToDisk writes every database to path. Files ending in .db or .sqlite
// are written as SQLite databases, anything else as a JSON document.
// Missing parent directories are created.
func (m *Manager) SaveToDisk(path string) error {
	state := m.Snapshot()

	if err := helpers.CreateParentDir(path); err != nil {
		return errors.Wrapf(err, "failed to create directory for '%s'", path)
	}

	var err error
	if isSQLite(path) {
		err = snapshot.SaveSQLite(path, state)
	} else {
		err = saveJSON(path, state)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to save state to '%s'", path)
	}

	m.log.WithFields(logrus.Fields{
		"path":      path,
		"databases": len(state.Databases),
		"tables":    state.Tables(),
		"records":   state.Records(),
	}).Info("state saved")
	return nil
}

// LoadFromDisk replaces the current state with the one stored at path. On
// any error the current state is left untouched. A missing file yields an
// error matching os.ErrNotExist.
func (m *Manager) LoadFromDisk(path string) error {
	var (
		state *snapshot.State
		err   error
	)
	if isSQLite(path) {
		state, err = snapshot.LoadSQLite(path)
	} else {
		state, err = loadJSON(path)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to load state from '%s'", path)
	}

	databases, err := restore(state)
	if err != nil {
		return errors.Wrapf(err, "failed to load state from '%s'", path)
	}

	m.mu.Lock()
	m.databases = databases
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"path":      path,
		"databases": len(state.Databases),
		"tables":    state.Tables(),
		"records":   state.Records(),
		"saved_at":  helpers.FormatTime(state.SavedAt),
	}).Info("state loaded")
	return nil
}

// Snapshot captures the logical content of every table: schema, index
// settings and records in key order.
func (m *Manager) Snapshot() *snapshot.State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := &snapshot.State{
		SavedAt:   time.Now(),
		Databases: make([]snapshot.Database, 0, len(m.databases)),
	}
	for _, dbName := range slices.Sorted(maps.Keys(m.databases)) {
		db := m.databases[dbName]
		sdb := snapshot.Database{Name: dbName, Tables: make([]snapshot.Table, 0, len(db))}
		for _, name := range slices.Sorted(maps.Keys(db)) {
			t := db[name]
			sdb.Tables = append(sdb.Tables, snapshot.Table{
				Name:      t.Name(),
				Order:     t.Order(),
				SearchKey: t.SearchKey(),
				Columns:   t.Columns(),
				Records:   t.GetAll(),
			})
		}
		state.Databases = append(state.Databases, sdb)
	}
	return state
}

func restore(state *snapshot.State) (map[string]database, error) {
	databases := make(map[string]database, len(state.Databases))
	for _, sdb := range state.Databases {
		if _, ok := databases[sdb.Name]; ok {
			return nil, errors.Wrapf(customerrors.ErrDatabaseExists, "'%s' appears twice", sdb.Name)
		}
		db := database{}
		databases[sdb.Name] = db

		for _, st := range sdb.Tables {
			if _, ok := db[st.Name]; ok {
				return nil, errors.Wrapf(customerrors.ErrTableExists, "'%s.%s' appears twice", sdb.Name, st.Name)
			}

			t, err := table.New(st.Name, st.Columns, &table.Options{Order: st.Order, SearchKey: st.SearchKey})
			if err != nil {
				return nil, errors.Wrapf(err, "table '%s.%s'", sdb.Name, st.Name)
			}
			for i, rec := range st.Records {
				if err := t.Insert(rec); err != nil {
					return nil, errors.Wrapf(err, "record %d of '%s.%s'", i, sdb.Name, st.Name)
				}
			}
			db[st.Name] = t
		}
	}
	return databases, nil
}

func isSQLite(path string) bool {
	return helpers.HasExt(path, ".db", ".sqlite")
}

func saveJSON(path string, state *snapshot.State) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.WithStack(err)
	}

	w := bufio.NewWriter(f)
	if err := snapshot.Encode(w, state); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.WithStack(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp, path))
}

func loadJSON(path string) (*snapshot.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return snapshot.Decode(bufio.NewReader(f))
}
