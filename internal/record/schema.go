package record

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Type is the semantic type of a column as declared in a Schema.
type Type int

const (
	TypeInt Type = iota
	TypeString
	TypeBool
	TypeFloat
	TypeTime
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "float"
	case TypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// KeyStyle selects how field keys are rendered by ToMap/FromMap.
type KeyStyle int

const (
	// KeyFieldName renders keys as camelCase field names.
	KeyFieldName KeyStyle = iota
	// KeyColumnName renders keys as snake_case column names.
	KeyColumnName
	// KeyPositional renders keys as the field's schema position ("0", "1", ...).
	KeyPositional
)

// Field describes one column of a table: its field name (camelCase), its
// column name (snake_case, derived from the field name when empty), semantic
// type, maximum size for string columns (0 = unbounded), and whether it is
// the primary key or a foreign key into another schema.
type Field struct {
	Name       string
	Column     string
	Type       Type
	Size       int
	PrimaryKey bool
	Required   bool
	References *Schema
}

// Schema is the static metadata for one table. Per-table schemas are
// declared as package-level values; there is no generated code behind them.
type Schema struct {
	Table  string
	Fields []Field
}

// NewSchema normalizes and returns a schema, filling in missing column
// names from the field names. It panics on duplicate fields or a missing
// primary key, since schemas are static program data.
func NewSchema(table string, fields []Field) *Schema {
	seen := make(map[string]bool, len(fields))
	hasPK := false
	for i := range fields {
		f := &fields[i]
		if f.Column == "" {
			f.Column = SnakeCase(f.Name)
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("record: duplicate field %q in schema %q", f.Name, table))
		}
		seen[f.Name] = true
		if f.PrimaryKey {
			if hasPK {
				panic(fmt.Sprintf("record: schema %q declares more than one primary key", table))
			}
			if f.Type != TypeInt {
				panic(fmt.Sprintf("record: schema %q primary key must be an integer", table))
			}
			hasPK = true
		}
	}
	if !hasPK {
		panic(fmt.Sprintf("record: schema %q has no primary key", table))
	}
	return &Schema{Table: table, Fields: fields}
}

// PrimaryKey returns the schema's primary key field.
func (s *Schema) PrimaryKey() *Field {
	for i := range s.Fields {
		if s.Fields[i].PrimaryKey {
			return &s.Fields[i]
		}
	}
	return nil
}

// Field looks a field up by its camelCase field name.
func (s *Schema) Field(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// FieldByKey looks a field up by a key rendered in the given style.
func (s *Schema) FieldByKey(key string, style KeyStyle) (*Field, bool) {
	switch style {
	case KeyColumnName:
		for i := range s.Fields {
			if s.Fields[i].Column == key {
				return &s.Fields[i], true
			}
		}
	case KeyPositional:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(s.Fields) {
			return nil, false
		}
		return &s.Fields[i], true
	default:
		return s.Field(key)
	}
	return nil, false
}

// KeyFor renders the i-th field's key in the given style.
func (s *Schema) KeyFor(i int, style KeyStyle) string {
	switch style {
	case KeyColumnName:
		return s.Fields[i].Column
	case KeyPositional:
		return strconv.Itoa(i)
	default:
		return s.Fields[i].Name
	}
}

// Columns returns all column names in schema order.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i := range s.Fields {
		cols[i] = s.Fields[i].Column
	}
	return cols
}

// SizeFor returns the declared maximum size for a field, or 0 when the
// field is unknown or unbounded.
func (s *Schema) SizeFor(name string) int {
	if f, ok := s.Field(name); ok {
		return f.Size
	}
	return 0
}

// SnakeCase converts a camelCase field name to its snake_case column form.
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
