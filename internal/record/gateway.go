package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FindByID fetches one row by primary key and hydrates a fresh record.
// Returns ErrNotFound when no row matches.
func FindByID(ctx context.Context, sess *Session, schema *Schema, id int64) (*Record, error) {
	row, err := selectRow(ctx, sess, schema, id)
	if err != nil {
		return nil, err
	}
	r := New(schema)
	if _, err := r.Hydrate(row, 0); err != nil {
		return nil, err
	}
	return r, nil
}

// FindWhere fetches all rows matching one equality condition, in primary
// key order.
func FindWhere(ctx context.Context, sess *Session, schema *Schema, column string, value any) ([]*Record, error) {
	c := NewCriteria(schema.Table)
	c.Where(column, value)
	q, args := c.Select(schema.Columns()...)
	q += " ORDER BY " + schema.PrimaryKey().Column
	return queryRecords(ctx, sess, schema, q, args)
}

// FindAll fetches every row of the table in primary key order.
func FindAll(ctx context.Context, sess *Session, schema *Schema) ([]*Record, error) {
	c := NewCriteria(schema.Table)
	q, _ := c.Select(schema.Columns()...)
	q += " ORDER BY " + schema.PrimaryKey().Column
	return queryRecords(ctx, sess, schema, q, nil)
}

// Count returns the number of rows in the table.
func Count(ctx context.Context, sess *Session, schema *Schema) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + schema.Table
	if err := sess.db.QueryRowxContext(ctx, q).Scan(&n); err != nil {
		return 0, persistence("count", schema.Table, err)
	}
	return n, nil
}

func selectRow(ctx context.Context, sess *Session, schema *Schema, id int64) ([]any, error) {
	c := NewCriteria(schema.Table)
	c.Where(schema.PrimaryKey().Column, id)
	q, args := c.Select(schema.Columns()...)
	row := make([]any, len(schema.Fields))
	ptrs := make([]any, len(row))
	for i := range row {
		ptrs[i] = &row[i]
	}
	if err := sess.db.QueryRowxContext(ctx, q, args...).Scan(ptrs...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s id %d: %w", schema.Table, id, ErrNotFound)
		}
		return nil, persistence("select", schema.Table, err)
	}
	return row, nil
}

func queryRecords(ctx context.Context, sess *Session, schema *Schema, q string, args []any) ([]*Record, error) {
	rows, err := sess.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, persistence("select", schema.Table, err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		row := make([]any, len(schema.Fields))
		ptrs := make([]any, len(row))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, persistence("select", schema.Table, err)
		}
		r := New(schema)
		if _, err := r.Hydrate(row, 0); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("select", schema.Table, err)
	}
	return out, nil
}
