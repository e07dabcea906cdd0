package column

import (
	"strings"

	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/types"

	"github.com/pkg/errors"
)

type Column struct {
	Name string         `json:"name"`
	Typ  types.TypeCode `json:"type"`
}

func New(name string, typ types.TypeCode) *Column {
	return &Column{Name: name, Typ: typ}
}

func (c *Column) String() string {
	return c.Name + ":" + c.Typ.String()
}

// ParseSchema parses a comma separated list of name:type pairs, for example
// "id:int, name:str, score:float". Column order is preserved.
func ParseSchema(schema string) ([]*Column, error) {
	if strings.TrimSpace(schema) == "" {
		return nil, errors.Wrap(customerrors.ErrInvalidSchema, "schema is empty")
	}

	parts := strings.Split(schema, ",")
	columns := make([]*Column, 0, len(parts))
	for _, part := range parts {
		name, typ, ok := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Wrapf(customerrors.ErrInvalidSchema, "expected name:type, got '%s'", strings.TrimSpace(part))
		}

		code, err := types.ParseTypeCode(typ)
		if err != nil {
			return nil, errors.Wrapf(customerrors.ErrInvalidSchema, "column '%s': %v", name, err)
		}
		columns = append(columns, New(name, code))
	}

	if err := Validate(columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// Validate checks that the list is non-empty, names are unique and
// every type is known.
func Validate(columns []*Column) error {
	if len(columns) == 0 {
		return errors.Wrap(customerrors.ErrInvalidSchema, "at least one column is required")
	}

	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col == nil || col.Name == "" {
			return errors.Wrap(customerrors.ErrInvalidSchema, "column name must be non-empty")
		}
		if !col.Typ.Valid() {
			return errors.Wrapf(customerrors.ErrInvalidSchema, "column '%s' has invalid type", col.Name)
		}
		if _, ok := seen[col.Name]; ok {
			return errors.Wrapf(customerrors.ErrInvalidSchema, "duplicate column '%s'", col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}

// Copy deep copies a column list.
func Copy(columns []*Column) []*Column {
	cp := make([]*Column, len(columns))
	for i, col := range columns {
		c := *col
		cp[i] = &c
	}
	return cp
}
