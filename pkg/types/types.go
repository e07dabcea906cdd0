// Package types defines the column types a table schema can use and the
// canonical Go values stored for each of them.
package types

import (
	"strings"

	"github.com/pkg/errors"
)

type TypeCode uint8

const (
	TYPE_INTEGER TypeCode = iota + 1 // stored as int64
	TYPE_STRING                      // stored as string
	TYPE_FLOAT                       // stored as float64
	TYPE_BOOL                        // stored as bool
)

var typeNames = map[TypeCode]string{
	TYPE_INTEGER: "int",
	TYPE_STRING:  "str",
	TYPE_FLOAT:   "float",
	TYPE_BOOL:    "bool",
}

var typeCodes = map[string]TypeCode{
	"int":     TYPE_INTEGER,
	"integer": TYPE_INTEGER,
	"str":     TYPE_STRING,
	"string":  TYPE_STRING,
	"float":   TYPE_FLOAT,
	"bool":    TYPE_BOOL,
}

// ParseTypeCode resolves a type name as written in a schema ("int", "str",
// "float", "bool"), case insensitive.
func ParseTypeCode(name string) (TypeCode, error) {
	code, ok := typeCodes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("unsupported type '%s', use int, str, float or bool", name)
	}
	return code, nil
}

func (c TypeCode) String() string {
	if name, ok := typeNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c TypeCode) Valid() bool {
	_, ok := typeNames[c]
	return ok
}

func (c TypeCode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Errorf("invalid type code %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *TypeCode) UnmarshalText(text []byte) error {
	code, err := ParseTypeCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// DataRow is a record keyed by column name.
type DataRow map[string]interface{}

// Copy returns a shallow copy of the row.
func (r DataRow) Copy() DataRow {
	if r == nil {
		return nil
	}
	cp := make(DataRow, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}
