package table

import "go-bptdb/pkg/kvstore"

// Get returns a copy of the record whose search key equals id.
func (t *Table) Get(id interface{}) (Record, bool) {
	key, ok := t.key(id)
	if !ok {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	row, found := t.tree.Search(key)
	if !found {
		return nil, false
	}
	return row.Copy(), true
}

// GetAll returns every record ordered by search key.
func (t *Table) GetAll() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyRows(t.tree.GetAll())
}

// RangeQuery returns the records whose search key lies in [start, end],
// ordered by search key.
func (t *Table) RangeQuery(start, end interface{}) []Record {
	s, ok := t.key(start)
	if !ok {
		return []Record{}
	}
	e, ok := t.key(end)
	if !ok {
		return []Record{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyRows(t.tree.RangeQuery(s, e))
}

// FullScan calls scanFn for every record in key order until it returns
// true.
func (t *Table) FullScan(scanFn func(row Record) (stop bool)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	t.tree.Scan(func(_ interface{}, row Record) bool {
		return scanFn(row.Copy())
	})
}

func copyRows(entries []kvstore.Entry[interface{}, Record]) []Record {
	rows := make([]Record, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Val.Copy())
	}
	return rows
}
