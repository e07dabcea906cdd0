package table

import "go-bptdb/pkg/bptree"

// Options represents the configuration options for the table.
type Options struct {
	// Order of the B+ tree index, at least 3.
	Order int
	// SearchKey is the column the index is keyed on. Its values must be
	// unique and can not be changed by Update.
	SearchKey string
}

var DefaultOptions = Options{
	Order: bptree.DefaultOrder,
}
