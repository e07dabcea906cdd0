package table

import (
	"sync"

	"go-bptdb/pkg/bptree"
	"go-bptdb/pkg/column"
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/types"
	"go-bptdb/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Record is a row of the table keyed by column name.
type Record = types.DataRow

// Table stores records in a B+ tree keyed by the value of the search key
// column. Records are copied on the way in and on the way out.
type Table struct {
	mu   sync.RWMutex
	meta *metadata
	tree *bptree.BPlusTree[interface{}, Record]
	log  *logrus.Entry
}

func New(name string, columns []*column.Column, opts *Options) (*Table, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	if name == "" {
		return nil, errors.Wrap(customerrors.ErrEmptyName, "table name")
	}
	if err := column.Validate(columns); err != nil {
		return nil, err
	}
	if opts.Order < bptree.MinOrder {
		return nil, errors.Wrapf(customerrors.ErrInvalidOrder, "table '%s' got order %d", name, opts.Order)
	}

	meta := &metadata{
		Name:       name,
		Order:      opts.Order,
		SearchKey:  opts.SearchKey,
		Columns:    column.Copy(columns),
		ColumnsMap: map[string]*column.Column{},
	}
	for _, col := range meta.Columns {
		meta.ColumnsMap[col.Name] = col
	}
	if meta.keyColumn() == nil {
		return nil, errors.Wrapf(
			customerrors.ErrInvalidSchema,
			"search key '%s' not found in columns of table '%s'",
			opts.SearchKey, name,
		)
	}

	tree, err := bptree.New[interface{}, Record](opts.Order, types.Compare)
	if err != nil {
		return nil, err
	}

	t := &Table{
		meta: meta,
		tree: tree,
		log:  logger.For("table").WithField("table", name),
	}
	t.log.WithFields(logrus.Fields{
		"search_key": meta.SearchKey,
		"order":      meta.Order,
		"columns":    len(meta.Columns),
	}).Debug("table created")

	return t, nil
}

func (t *Table) Name() string { return t.meta.Name }

func (t *Table) SearchKey() string { return t.meta.SearchKey }

func (t *Table) Order() int { return t.meta.Order }

func (t *Table) Columns() []*column.Column {
	return column.Copy(t.meta.Columns)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Len()
}

// Tree exposes the underlying index for diagnostics such as printing and
// consistency checks. Callers must not modify it.
func (t *Table) Tree() *bptree.BPlusTree[interface{}, Record] {
	return t.tree
}

// validate checks that rec has every column of the schema with a value of
// the right type and no unknown columns. It returns a copy holding the
// canonical values.
func (t *Table) validate(rec Record) (Record, error) {
	if rec == nil {
		return nil, errors.Wrap(customerrors.ErrInvalidRecord, "record is nil")
	}

	for name := range rec {
		if _, ok := t.meta.ColumnsMap[name]; !ok {
			return nil, errors.Wrapf(customerrors.ErrInvalidRecord, "unknown column '%s'", name)
		}
	}

	row := make(Record, len(t.meta.Columns))
	for _, col := range t.meta.Columns {
		v, ok := rec[col.Name]
		if !ok {
			return nil, errors.Wrapf(customerrors.ErrInvalidRecord, "missing required column '%s'", col.Name)
		}

		cv, err := types.Coerce(col.Typ, v)
		if err != nil {
			return nil, errors.Wrapf(customerrors.ErrInvalidRecord, "column '%s': %v", col.Name, err)
		}
		row[col.Name] = cv
	}

	return row, nil
}

// key converts a lookup value to the canonical type of the search key.
func (t *Table) key(id interface{}) (interface{}, bool) {
	k, err := types.Coerce(t.meta.keyColumn().Typ, id)
	if err != nil {
		return nil, false
	}
	return k, true
}
