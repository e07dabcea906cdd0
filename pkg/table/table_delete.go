package table

import (
	"go-bptdb/pkg/customerrors"

	"github.com/pkg/errors"
)

// Delete removes the record identified by id.
func (t *Table) Delete(id interface{}) error {
	key, ok := t.key(id)
	if !ok {
		return errors.Wrapf(customerrors.ErrKeyNotFound, "%s = %v", t.meta.SearchKey, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tree.Delete(key) {
		return errors.Wrapf(customerrors.ErrKeyNotFound, "%s = %v", t.meta.SearchKey, id)
	}

	t.log.WithField("key", key).Trace("record deleted")
	return nil
}
