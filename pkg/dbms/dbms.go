// Package dbms keeps a registry of named databases, each holding named
// tables, and persists it as a snapshot file.
package dbms

import (
	"maps"
	"slices"
	"sync"

	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/table"
	"go-bptdb/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type database map[string]*table.Table

type Manager struct {
	mu        sync.RWMutex
	databases map[string]database
	log       *logrus.Entry
}

func New() *Manager {
	return &Manager{
		databases: map[string]database{},
		log:       logger.For("dbms"),
	}
}

func (m *Manager) CreateDatabase(name string) error {
	if name == "" {
		return errors.Wrap(customerrors.ErrEmptyName, "database name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.databases[name]; ok {
		return errors.Wrapf(customerrors.ErrDatabaseExists, "'%s'", name)
	}
	m.databases[name] = database{}

	m.log.WithField("database", name).Info("database created")
	return nil
}

// DeleteDatabase drops the database together with all of its tables.
func (m *Manager) DeleteDatabase(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.databases[name]
	if !ok {
		return errors.Wrapf(customerrors.ErrDatabaseNotFound, "'%s'", name)
	}
	delete(m.databases, name)

	m.log.WithFields(logrus.Fields{"database": name, "tables": len(db)}).Info("database deleted")
	return nil
}

// ListDatabases returns database names in ascending order.
func (m *Manager) ListDatabases() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.databases))
}

func (m *Manager) CreateTable(
	dbName, name string,
	columns []*column.Column,
	opts *table.Options,
) (*table.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.databases[dbName]
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrDatabaseNotFound, "'%s'", dbName)
	}
	if name == "" {
		return nil, errors.Wrap(customerrors.ErrEmptyName, "table name")
	}
	if _, ok := db[name]; ok {
		return nil, errors.Wrapf(customerrors.ErrTableExists, "'%s' in database '%s'", name, dbName)
	}

	t, err := table.New(name, columns, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create table '%s'", name)
	}
	db[name] = t

	m.log.WithFields(logrus.Fields{
		"database":   dbName,
		"table":      name,
		"search_key": t.SearchKey(),
		"order":      t.Order(),
	}).Info("table created")
	return t, nil
}

func (m *Manager) DeleteTable(dbName, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.databases[dbName]
	if !ok {
		return errors.Wrapf(customerrors.ErrDatabaseNotFound, "'%s'", dbName)
	}
	if _, ok := db[name]; !ok {
		return errors.Wrapf(customerrors.ErrTableNotFound, "'%s' in database '%s'", name, dbName)
	}
	delete(db, name)

	m.log.WithFields(logrus.Fields{"database": dbName, "table": name}).Info("table deleted")
	return nil
}

// ListTables returns the table names of a database in ascending order.
func (m *Manager) ListTables(dbName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	db, ok := m.databases[dbName]
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrDatabaseNotFound, "'%s'", dbName)
	}
	return slices.Sorted(maps.Keys(db)), nil
}

func (m *Manager) GetTable(dbName, name string) (*table.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	db, ok := m.databases[dbName]
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrDatabaseNotFound, "'%s'", dbName)
	}
	t, ok := db[name]
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrTableNotFound, "'%s' in database '%s'", name, dbName)
	}
	return t, nil
}
