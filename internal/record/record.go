package record

import (
	"fmt"
	"strconv"
	"time"
)

// RecursionMarker is returned by ToMap in place of a record that has
// already been rendered higher up the same call, so that cyclic object
// graphs terminate instead of recursing forever.
const RecursionMarker = "*RECURSION*"

// Record is the in-memory mirror of one relational row. It tracks which
// fields have been mutated since the last load or save (the dirty set),
// whether it has a persisted counterpart yet, and caches lazily loaded
// foreign records alongside the key they were loaded for.
type Record struct {
	schema    *Schema
	values    map[string]any
	dirty     map[string]struct{}
	isNew     bool
	isDeleted bool

	// related caches the target record per FK field name; relatedKey
	// remembers the target's primary key at cache time so a later change
	// of the local FK value invalidates the stale reference.
	related    map[string]*Record
	relatedKey map[string]int64

	// reverse holds records that point at this one, keyed by the
	// referencing table name. Populated by SetRelated for bidirectional
	// consistency; never loaded eagerly.
	reverse map[string][]*Record
}

// New returns an empty, unsaved record for the given schema.
func New(schema *Schema) *Record {
	return &Record{
		schema:     schema,
		values:     make(map[string]any, len(schema.Fields)),
		dirty:      make(map[string]struct{}),
		isNew:      true,
		related:    make(map[string]*Record),
		relatedKey: make(map[string]int64),
		reverse:    make(map[string][]*Record),
	}
}

func (r *Record) Schema() *Schema  { return r.schema }
func (r *Record) IsNew() bool      { return r.isNew }
func (r *Record) IsDeleted() bool  { return r.isDeleted }
func (r *Record) IsModified() bool { return len(r.dirty) > 0 }

// ModifiedFields returns the names of all dirty fields in schema order.
func (r *Record) ModifiedFields() []string {
	names := make([]string, 0, len(r.dirty))
	for i := range r.schema.Fields {
		if _, ok := r.dirty[r.schema.Fields[i].Name]; ok {
			names = append(names, r.schema.Fields[i].Name)
		}
	}
	return names
}

// ID returns the primary key value, or 0 when unassigned.
func (r *Record) ID() int64 {
	pk := r.schema.PrimaryKey()
	if v, ok := r.values[pk.Name]; ok && v != nil {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return 0
}

// Set coerces the value to the field's declared type, compares it against
// the current value, and updates the value and dirty set only on change.
// When the field is a foreign key, a cached related record that disagrees
// with the new key value is detached.
func (r *Record) Set(name string, value any) error {
	f, ok := r.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoSuchField, r.schema.Table, name)
	}
	v, err := coerce(f, value)
	if err != nil {
		return fmt.Errorf("setting %s.%s: %w", r.schema.Table, name, err)
	}
	// A missing entry reads as null, so assigning nil to an unset (or
	// NULL-hydrated) field is not a change.
	cur, had := r.values[name]
	if (had || v == nil) && equal(cur, v) {
		return nil
	}
	r.values[name] = v
	r.dirty[name] = struct{}{}
	if f.References != nil {
		// Generation check: the cached target's key was recorded at cache
		// time; a FK value disagreeing with it detaches the stale target.
		if cachedKey, ok := r.relatedKey[name]; ok {
			key, isInt := v.(int64)
			if v == nil || !isInt || key != cachedKey {
				delete(r.related, name)
				delete(r.relatedKey, name)
			}
		}
	}
	return nil
}

// Get returns the raw value of a field, or nil when unset.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// GetString returns a string field, or "" when unset or null.
func (r *Record) GetString(name string) string {
	if v, ok := r.values[name].(string); ok {
		return v
	}
	return ""
}

// GetInt returns an integer field, or 0 when unset or null.
func (r *Record) GetInt(name string) int64 {
	if v, ok := r.values[name].(int64); ok {
		return v
	}
	return 0
}

// GetBool returns a boolean field, or false when unset or null.
func (r *Record) GetBool(name string) bool {
	if v, ok := r.values[name].(bool); ok {
		return v
	}
	return false
}

// GetTime returns a time field, or the zero time when unset or null.
func (r *Record) GetTime(name string) time.Time {
	if v, ok := r.values[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Hydrate positionally assigns all schema fields from a raw store row
// starting at offset, applying type casts and converting nulls. The dirty
// set is reset and the record is marked not-new. The next unused offset is
// returned, so several stacked records can hydrate from one joined row.
func (r *Record) Hydrate(row []any, offset int) (int, error) {
	n := len(r.schema.Fields)
	if offset+n > len(row) {
		return offset, persistence("hydrate", r.schema.Table,
			fmt.Errorf("row has %d values, need %d starting at %d", len(row), n, offset))
	}
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		v, err := coerce(f, row[offset+i])
		if err != nil {
			return offset, persistence("hydrate", r.schema.Table,
				fmt.Errorf("column %s: %w", f.Column, err))
		}
		r.values[f.Name] = v
	}
	r.dirty = make(map[string]struct{})
	r.isNew = false
	return offset + n, nil
}

// ToMap renders the record as a key/value map, with keys in the requested
// style. When includeForeign is set, cached related records and reverse
// collections are rendered as nested maps; cycles in the object graph are
// detected by a visited set keyed by (table, primary key) and reported as
// the RecursionMarker instead of recursing indefinitely.
func (r *Record) ToMap(style KeyStyle, includeForeign bool) map[string]any {
	out, _ := r.toMap(style, includeForeign, make(map[any]struct{}))
	return out
}

type visitKey struct {
	table string
	id    int64
}

func (r *Record) visitID() any {
	if id := r.ID(); id != 0 {
		return visitKey{table: r.schema.Table, id: id}
	}
	// Unsaved records have no key yet; fall back to identity.
	return r
}

func (r *Record) toMap(style KeyStyle, includeForeign bool, visited map[any]struct{}) (map[string]any, bool) {
	key := r.visitID()
	if _, seen := visited[key]; seen {
		return nil, false
	}
	visited[key] = struct{}{}

	out := make(map[string]any, len(r.schema.Fields))
	for i := range r.schema.Fields {
		out[r.schema.KeyFor(i, style)] = r.values[r.schema.Fields[i].Name]
	}
	if includeForeign {
		for name, rel := range r.related {
			if nested, ok := rel.toMap(style, true, visited); ok {
				out[name] = nested
			} else {
				out[name] = RecursionMarker
			}
		}
		for table, recs := range r.reverse {
			list := make([]any, 0, len(recs))
			for _, rec := range recs {
				if nested, ok := rec.toMap(style, true, visited); ok {
					list = append(list, nested)
				} else {
					list = append(list, RecursionMarker)
				}
			}
			out[table] = list
		}
	}
	return out, true
}

// FromMap applies every schema field present in the input through Set, so
// dirty tracking and foreign-key invalidation apply uniformly. Keys absent
// from the schema are ignored.
func (r *Record) FromMap(values map[string]any, style KeyStyle) error {
	for key, v := range values {
		f, ok := r.schema.FieldByKey(key, style)
		if !ok {
			continue
		}
		if err := r.Set(f.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// Copy produces a new record carrying the same non-key field values, with
// the primary key unset and isNew true. The copy is shallow; a deep copy
// duplicating related records is an extension point, not implemented.
func (r *Record) Copy(deep bool) *Record {
	_ = deep // deep copy not implemented
	out := New(r.schema)
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		if f.PrimaryKey {
			continue
		}
		if v, ok := r.values[f.Name]; ok {
			out.values[f.Name] = v
			out.dirty[f.Name] = struct{}{}
		}
	}
	return out
}

// Validate checks required fields and declared string sizes, cascading to
// cached related records. A visited set keyed the same way as ToMap keeps
// cyclic graphs from recursing. Returns *ValidationErrors, or nil.
func (r *Record) Validate() error {
	failures := r.validate(make(map[any]struct{}))
	if len(failures) == 0 {
		return nil
	}
	return &ValidationErrors{Failures: failures}
}

func (r *Record) validate(visited map[any]struct{}) []FieldError {
	key := r.visitID()
	if _, seen := visited[key]; seen {
		return nil
	}
	visited[key] = struct{}{}

	var failures []FieldError
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		v := r.values[f.Name]
		if f.Required && !f.PrimaryKey && (v == nil || v == "") {
			failures = append(failures, FieldError{
				Table: r.schema.Table, Field: f.Name, Message: "value is required",
			})
		}
		if f.Type == TypeString && f.Size > 0 {
			if s, ok := v.(string); ok && len(s) > f.Size {
				failures = append(failures, FieldError{
					Table: r.schema.Table, Field: f.Name,
					Message: fmt.Sprintf("value exceeds maximum size %d", f.Size),
				})
			}
		}
	}
	for _, rel := range r.related {
		failures = append(failures, rel.validate(visited)...)
	}
	return failures
}

// coerce converts scalar-ish input to the field's declared representation:
// int64 for integers (numeric strings included), string, bool, float64,
// and time.Time. nil passes through as null.
func coerce(f *Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch f.Type {
	case TypeInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case uint:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot cast %q to int", v)
			}
			return n, nil
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case TypeString:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	case TypeBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case int:
			return v != 0, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot cast %q to bool", v)
			}
			return b, nil
		}
	case TypeFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot cast %q to float", v)
			}
			return n, nil
		}
	case TypeTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case []byte:
			return coerce(f, string(v))
		case string:
			layouts := []string{
				time.DateTime,
				time.RFC3339Nano,
				time.RFC3339,
				"2006-01-02 15:04:05.999999999-07:00", // sqlite driver default
				time.DateOnly,
			}
			for _, layout := range layouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("cannot cast %q to time", v)
		}
	}
	return nil, fmt.Errorf("cannot cast %T to %s", value, f.Type)
}

func equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
		return false
	}
	return a == b
}
