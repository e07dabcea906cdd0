package snapshot

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/types"
	"go-bptdb/util/helpers"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var schema = []string{
	`DROP TABLE IF EXISTS records`,
	`DROP TABLE IF EXISTS columns`,
	`DROP TABLE IF EXISTS tables`,
	`DROP TABLE IF EXISTS databases`,
	`DROP TABLE IF EXISTS meta`,
	`CREATE TABLE meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE databases (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE tables (
		id          INTEGER PRIMARY KEY,
		database_id INTEGER NOT NULL REFERENCES databases(id),
		name        TEXT NOT NULL,
		search_key  TEXT NOT NULL,
		tree_order  INTEGER NOT NULL
	)`,
	`CREATE TABLE columns (
		table_id INTEGER NOT NULL REFERENCES tables(id),
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		type     TEXT NOT NULL,
		PRIMARY KEY (table_id, position)
	)`,
	`CREATE TABLE records (
		table_id INTEGER NOT NULL REFERENCES tables(id),
		position INTEGER NOT NULL,
		data     TEXT NOT NULL,
		PRIMARY KEY (table_id, position)
	)`,
}

// SaveSQLite writes state into the SQLite file at path, replacing whatever
// snapshot the file held before. Everything is written in one transaction.
func SaveSQLite(path string, state *State) error {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return errors.Wrapf(err, "failed to open '%s'", path)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	if err := writeState(tx, state); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit snapshot")
	}

	if info, err := os.Stat(path); err == nil {
		log.WithFields(logrus.Fields{
			"path":    path,
			"size":    humanize.Bytes(uint64(info.Size())),
			"tables":  state.Tables(),
			"records": state.Records(),
		}).Debug("sqlite snapshot written")
	}
	return nil
}

func writeState(tx *sql.Tx, state *State) error {
	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to create snapshot schema")
		}
	}

	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	for key, value := range map[string]string{
		"format":   FormatTag,
		"version":  strconv.Itoa(Version),
		"id":       state.id(),
		"saved_at": helpers.FormatTime(savedAt.UTC()),
	} {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return errors.Wrap(err, "failed to write snapshot header")
		}
	}

	insertRecord, err := tx.Prepare(`INSERT INTO records (table_id, position, data) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare record insert")
	}
	defer insertRecord.Close()

	for _, db := range state.Databases {
		res, err := tx.Exec(`INSERT INTO databases (name) VALUES (?)`, db.Name)
		if err != nil {
			return errors.Wrapf(err, "failed to write database '%s'", db.Name)
		}
		dbID, err := res.LastInsertId()
		if err != nil {
			return errors.WithStack(err)
		}

		for _, t := range db.Tables {
			res, err := tx.Exec(
				`INSERT INTO tables (database_id, name, search_key, tree_order) VALUES (?, ?, ?, ?)`,
				dbID, t.Name, t.SearchKey, t.Order,
			)
			if err != nil {
				return errors.Wrapf(err, "failed to write table '%s.%s'", db.Name, t.Name)
			}
			tableID, err := res.LastInsertId()
			if err != nil {
				return errors.WithStack(err)
			}

			for i, col := range t.Columns {
				_, err := tx.Exec(
					`INSERT INTO columns (table_id, position, name, type) VALUES (?, ?, ?, ?)`,
					tableID, i, col.Name, col.Typ.String(),
				)
				if err != nil {
					return errors.Wrapf(err, "failed to write column '%s'", col.Name)
				}
			}

			for i, rec := range t.Records {
				data, err := encodeRecord(rec)
				if err != nil {
					return err
				}
				if _, err := insertRecord.Exec(tableID, i, data); err != nil {
					return errors.Wrapf(err, "failed to write record of '%s.%s'", db.Name, t.Name)
				}
			}
		}
	}

	return nil
}

// LoadSQLite reads a snapshot written by SaveSQLite. A missing file is
// reported as os.ErrNotExist rather than creating an empty database.
func LoadSQLite(path string) (*State, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "snapshot '%s'", path)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open '%s'", path)
	}
	defer db.Close()

	header := map[string]string{}
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "'%s' has no snapshot header: %v", path, err)
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, errors.WithStack(err)
		}
		header[k] = v
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, "failed to read snapshot header")
	}
	rows.Close()

	version, err := strconv.Atoi(header["version"])
	if err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "bad version '%s': %v", header["version"], err)
	}
	if err := checkHeader(header["format"], version); err != nil {
		return nil, err
	}
	savedAt, err := helpers.ParseTime(header["saved_at"])
	if err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "bad saved_at '%s'", header["saved_at"])
	}

	if _, err := uuid.Parse(header["id"]); err != nil {
		return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "bad id '%s'", header["id"])
	}

	state := &State{ID: header["id"], SavedAt: savedAt, Databases: []Database{}}
	dbRows, err := db.Query(`SELECT id, name FROM databases ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read databases")
	}
	ids := []int64{}
	for dbRows.Next() {
		var id int64
		var name string
		if err := dbRows.Scan(&id, &name); err != nil {
			dbRows.Close()
			return nil, errors.WithStack(err)
		}
		ids = append(ids, id)
		state.Databases = append(state.Databases, Database{Name: name, Tables: []Table{}})
	}
	if err := dbRows.Err(); err != nil {
		dbRows.Close()
		return nil, errors.Wrap(err, "failed to read databases")
	}
	dbRows.Close()

	for i, id := range ids {
		tables, err := loadTables(db, id)
		if err != nil {
			return nil, errors.Wrapf(err, "database '%s'", state.Databases[i].Name)
		}
		state.Databases[i].Tables = tables
	}

	if err := state.validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func loadTables(db *sql.DB, databaseID int64) ([]Table, error) {
	rows, err := db.Query(
		`SELECT id, name, search_key, tree_order FROM tables WHERE database_id = ? ORDER BY id`,
		databaseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tables")
	}

	ids := []int64{}
	tables := []Table{}
	for rows.Next() {
		var id int64
		t := Table{}
		if err := rows.Scan(&id, &t.Name, &t.SearchKey, &t.Order); err != nil {
			rows.Close()
			return nil, errors.WithStack(err)
		}
		ids = append(ids, id)
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, "failed to read tables")
	}
	rows.Close()

	for i, id := range ids {
		if tables[i].Columns, err = loadColumns(db, id); err != nil {
			return nil, err
		}
		if tables[i].Records, err = loadRecords(db, id); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

func loadColumns(db *sql.DB, tableID int64) ([]*column.Column, error) {
	rows, err := db.Query(`SELECT name, type FROM columns WHERE table_id = ? ORDER BY position`, tableID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}
	defer rows.Close()

	cols := []*column.Column{}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, errors.WithStack(err)
		}
		code, err := types.ParseTypeCode(typ)
		if err != nil {
			return nil, errors.Wrapf(customerrors.ErrSnapshotFormat, "column '%s': %v", name, err)
		}
		cols = append(cols, column.New(name, code))
	}
	return cols, errors.WithStack(rows.Err())
}

func loadRecords(db *sql.DB, tableID int64) ([]types.DataRow, error) {
	rows, err := db.Query(`SELECT data FROM records WHERE table_id = ? ORDER BY position`, tableID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read records")
	}
	defer rows.Close()

	records := []types.DataRow{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.WithStack(err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, errors.WithStack(rows.Err())
}
