package table

import (
	"go-bptdb/pkg/customerrors"

	"github.com/pkg/errors"
)

// Insert validates rec and stores a copy of it. A record whose search key
// is already present is rejected with customerrors.ErrKeyExists.
func (t *Table) Insert(rec Record) error {
	row, err := t.validate(rec)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := row[t.meta.SearchKey]
	if err := t.tree.Insert(key, row); err != nil {
		if errors.Is(err, customerrors.ErrKeyExists) {
			return errors.Wrapf(err, "duplicate key %s = %v", t.meta.SearchKey, key)
		}
		return errors.Wrap(err, "failed to insert record")
	}

	t.log.WithField("key", key).Trace("record inserted")
	return nil
}
