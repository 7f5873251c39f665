package record

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Save persists the record inside one unit of work: an attached foreign
// record that is itself new or modified is saved first and the FK value
// re-linked from its assigned key, then this record is inserted (when new)
// or updated (when dirty). The dirty set is cleared on success and the
// count of affected rows, cascaded saves included, is returned. Any
// failure rolls the whole unit back.
func (r *Record) Save(ctx context.Context, sess *Session) (int64, error) {
	if r.isDeleted {
		return 0, fmt.Errorf("saving %s: %w", r.schema.Table, ErrDeleted)
	}
	var affected int64
	err := sess.Transact(ctx, func(tx *sqlx.Tx) error {
		n, err := r.save(ctx, tx, make(map[any]struct{}))
		affected = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// save is the re-entrant core of Save. The visited set, keyed the same way
// as ToMap's, breaks save cycles across bidirectional references.
func (r *Record) save(ctx context.Context, tx *sqlx.Tx, visited map[any]struct{}) (int64, error) {
	key := r.visitID()
	if _, seen := visited[key]; seen {
		return 0, nil
	}
	visited[key] = struct{}{}

	var total int64
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		if f.References == nil {
			continue
		}
		rel, ok := r.related[f.Name]
		if !ok || (!rel.isNew && !rel.IsModified()) {
			continue
		}
		n, err := rel.save(ctx, tx, visited)
		if err != nil {
			return 0, err
		}
		total += n
		if err := r.Set(f.Name, rel.ID()); err != nil {
			return 0, err
		}
		r.related[f.Name] = rel
		r.relatedKey[f.Name] = rel.ID()
	}

	switch {
	case r.isNew:
		if err := r.insert(ctx, tx); err != nil {
			return 0, err
		}
		total++
	case len(r.dirty) > 0:
		n, err := r.update(ctx, tx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// insert assigns the primary key from the table's sequence when unset,
// builds the column list from the dirty set with the primary key forced
// in, and executes the INSERT.
func (r *Record) insert(ctx context.Context, tx *sqlx.Tx) error {
	pk := r.schema.PrimaryKey()
	if r.ID() == 0 {
		id, err := NextID(ctx, tx, r.schema.Table)
		if err != nil {
			return persistence("insert", r.schema.Table, err)
		}
		// Assigned by the store, not a user mutation; bypasses Set so the
		// key never enters the dirty set artificially.
		r.values[pk.Name] = id
	}
	c := NewCriteria(r.schema.Table)
	c.Set(pk.Column, r.ID())
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		if f.PrimaryKey {
			continue
		}
		if _, dirty := r.dirty[f.Name]; dirty {
			c.Set(f.Column, r.values[f.Name])
		}
	}
	q, args := c.Insert()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return persistence("insert", r.schema.Table, err)
	}
	r.isNew = false
	r.dirty = make(map[string]struct{})
	return nil
}

// update builds a SET clause from the dirty set and a WHERE clause from
// the primary key. An empty dirty set is a zero-write no-op.
func (r *Record) update(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	if len(r.dirty) == 0 {
		return 0, nil
	}
	if r.ID() == 0 {
		return 0, persistence("update", r.schema.Table,
			fmt.Errorf("record has no primary key"))
	}
	c := NewCriteria(r.schema.Table)
	for i := range r.schema.Fields {
		f := &r.schema.Fields[i]
		if f.PrimaryKey {
			continue
		}
		if _, dirty := r.dirty[f.Name]; dirty {
			c.Set(f.Column, r.values[f.Name])
		}
	}
	c.Where(r.schema.PrimaryKey().Column, r.ID())
	q, args := c.Update()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, persistence("update", r.schema.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, persistence("update", r.schema.Table, err)
	}
	r.dirty = make(map[string]struct{})
	return n, nil
}

// Delete removes the persisted counterpart keyed by primary key inside a
// unit of work and marks the record deleted. A deleted record is inert:
// further Save or Delete calls fail.
func (r *Record) Delete(ctx context.Context, sess *Session) error {
	if r.isDeleted {
		return fmt.Errorf("deleting %s: %w", r.schema.Table, ErrDeleted)
	}
	if r.ID() == 0 {
		return fmt.Errorf("deleting %s: %w", r.schema.Table, ErrUnsaved)
	}
	err := sess.Transact(ctx, func(tx *sqlx.Tx) error {
		c := NewCriteria(r.schema.Table)
		c.Where(r.schema.PrimaryKey().Column, r.ID())
		q, args := c.Delete()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return persistence("delete", r.schema.Table, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.isDeleted = true
	return nil
}

// Reload re-fetches the row by primary key and re-hydrates in place,
// discarding in-memory state. When detach is set, cached foreign
// references and reverse collections are dropped as well. Fails on new or
// deleted records.
func (r *Record) Reload(ctx context.Context, sess *Session, detach bool) error {
	if r.isDeleted {
		return fmt.Errorf("reloading %s: %w", r.schema.Table, ErrDeleted)
	}
	if r.isNew {
		return fmt.Errorf("reloading %s: %w", r.schema.Table, ErrUnsaved)
	}
	row, err := selectRow(ctx, sess, r.schema, r.ID())
	if err != nil {
		return err
	}
	if _, err := r.Hydrate(row, 0); err != nil {
		return err
	}
	if detach {
		r.related = make(map[string]*Record)
		r.relatedKey = make(map[string]int64)
		r.reverse = make(map[string][]*Record)
	}
	return nil
}
