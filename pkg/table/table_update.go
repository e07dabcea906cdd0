package table

import (
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/types"

	"github.com/pkg/errors"
)

// Update replaces the record identified by id. rec must be a complete
// record and must carry the same search key value.
func (t *Table) Update(id interface{}, rec Record) error {
	key, ok := t.key(id)
	if !ok {
		return errors.Wrapf(customerrors.ErrKeyNotFound, "%s = %v", t.meta.SearchKey, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tree.Has(key) {
		return errors.Wrapf(customerrors.ErrKeyNotFound, "%s = %v", t.meta.SearchKey, id)
	}

	row, err := t.validate(rec)
	if err != nil {
		return err
	}

	if types.Compare(row[t.meta.SearchKey], key) != 0 {
		return errors.Wrapf(
			customerrors.ErrKeyImmutable,
			"key must remain %v, got %v",
			key, row[t.meta.SearchKey],
		)
	}

	if !t.tree.Update(key, row) {
		panic(errors.Errorf("key %v vanished while updating table '%s'", key, t.meta.Name))
	}

	t.log.WithField("key", key).Trace("record updated")
	return nil
}
