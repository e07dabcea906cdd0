package table

import "go-bptdb/pkg/column"

// metadata represents the schema and index settings of the table.
type metadata struct {
	Name       string
	Order      int
	SearchKey  string
	Columns    []*column.Column
	ColumnsMap map[string]*column.Column
}

func (m *metadata) keyColumn() *column.Column {
	return m.ColumnsMap[m.SearchKey]
}
