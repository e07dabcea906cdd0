// Package snapshot persists the logical content of a DBMS: databases,
// table schemas, index settings and records in key order. The node graph of
// the indexes is never stored, tables are rebuilt by re-inserting records.
package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/types"
	"go-bptdb/util/helpers"
	"go-bptdb/util/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	FormatTag = "go-bptdb/snapshot"
	Version   = 1
)

var log = logger.For("snapshot")

type State struct {
	// ID identifies the snapshot, a new one is generated when empty.
	ID        string     `json:"-"`
	SavedAt   time.Time  `json:"-"`
	Databases []Database `json:"databases"`
}

type Database struct {
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

type Table struct {
	Name      string           `json:"name"`
	Order     int              `json:"order"`
	SearchKey string           `json:"search_key"`
	Columns   []*column.Column `json:"columns"`
	Records   []types.DataRow  `json:"records"`
}

type envelope struct {
	Format    string     `json:"format"`
	Version   int        `json:"version"`
	ID        string     `json:"id"`
	SavedAt   string     `json:"saved_at"`
	Databases []Database `json:"databases"`
}

// Encode writes state to w as a versioned JSON document.
func Encode(w io.Writer, state *State) error {
	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&envelope{
		Format:    FormatTag,
		Version:   Version,
		ID:        state.id(),
		SavedAt:   helpers.FormatTime(savedAt.UTC()),
		Databases: state.Databases,
	})
	return errors.Wrap(err, "failed to encode snapshot")
}

// Decode reads a document written by Encode. Numbers in records are
// decoded as json.Number so integer keys keep their precision.
func Decode(r io.Reader) (*State, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	env := &envelope{}
	if err := dec.Decode(env); err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "malformed json: %v", err)
	}
	if err := checkHeader(env.Format, env.Version); err != nil {
		return nil, err
	}

	savedAt, err := helpers.ParseTime(env.SavedAt)
	if err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "bad saved_at '%s'", env.SavedAt)
	}

	if _, err := uuid.Parse(env.ID); err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "bad id '%s'", env.ID)
	}

	state := &State{ID: env.ID, SavedAt: savedAt, Databases: env.Databases}
	if err := state.validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *State) id() string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s.ID
}

// Tables counts the tables of every database.
func (s *State) Tables() int {
	n := 0
	for _, db := range s.Databases {
		n += len(db.Tables)
	}
	return n
}

// Records counts the records of every table.
func (s *State) Records() int {
	n := 0
	for _, db := range s.Databases {
		for _, t := range db.Tables {
			n += len(t.Records)
		}
	}
	return n
}

func (s *State) validate() error {
	for _, db := range s.Databases {
		if db.Name == "" {
			return errors.Wrap(customerrors.ErrSnapshotFormat, "database without name")
		}
		for _, t := range db.Tables {
			if t.Name == "" {
				return errors.Wrapf(customerrors.ErrSnapshotFormat, "table without name in database '%s'", db.Name)
			}
			if err := column.Validate(t.Columns); err != nil {
				return errors.Wrapf(customerrors.ErrSnapshotFormat, "table '%s.%s': %v", db.Name, t.Name, err)
			}
		}
	}
	return nil
}

func checkHeader(format string, version int) error {
	if format != FormatTag {
		return errors.Wrapf(customerrors.ErrSnapshotFormat, "format tag '%s'", format)
	}
	if version != Version {
		return errors.Wrapf(customerrors.ErrSnapshotFormat, "unsupported version %d", version)
	}
	return nil
}

func encodeRecord(rec types.DataRow) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode record")
	}
	return string(b), nil
}

func decodeRecord(data string) (types.DataRow, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	rec := types.DataRow{}
	if err := dec.Decode(&rec); err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "malformed record: %v", err)
	}
	return rec, nil
}
