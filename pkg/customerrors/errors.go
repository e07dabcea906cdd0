// Package customerrors defines common errors for the index, table and
// registry layers to use.
package customerrors

import (
	"errors"
)

var (
	// ErrKeyNotFound should be returned from lookup operations when the
	// lookup key is not found in index/table.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned when inserting a key that is already
	// present in a unique index.
	ErrKeyExists = errors.New("key already exists")

	// ErrInvalidOrder is returned when a B+ tree is constructed with an
	// order below the minimum of 3.
	ErrInvalidOrder = errors.New("b+ tree order must be at least 3")

	// ErrKeyImmutable is returned by table updates that try to change the
	// indexed column.
	ErrKeyImmutable = errors.New("search key can not be updated")

	ErrEmptyName        = errors.New("name must be a non-empty string")
	ErrInvalidSchema    = errors.New("invalid schema")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrDatabaseExists   = errors.New("database already exists")
	ErrDatabaseNotFound = errors.New("database not found")
	ErrTableExists      = errors.New("table already exists")
	ErrTableNotFound    = errors.New("table not found")

	// ErrSnapshotFormat is returned when a snapshot stream or file does not
	// carry the expected format tag or version.
	ErrSnapshotFormat = errors.New("unrecognized snapshot format")
)
