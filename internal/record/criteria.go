package record

import "strings"

// Criteria represents a SET/WHERE clause pair assembled from modified-field
// state, rendered into parameterised SQL with `?` placeholders. Clause
// order follows insertion order, so generated statements are deterministic.
type Criteria struct {
	table  string
	sets   []clause
	wheres []clause
}

type clause struct {
	column string
	value  any
}

// NewCriteria returns an empty criteria for the given table.
func NewCriteria(table string) *Criteria {
	return &Criteria{table: table}
}

// Set adds a column assignment (INSERT column or UPDATE SET entry).
func (c *Criteria) Set(column string, value any) *Criteria {
	c.sets = append(c.sets, clause{column: column, value: value})
	return c
}

// Where adds an equality condition.
func (c *Criteria) Where(column string, value any) *Criteria {
	c.wheres = append(c.wheres, clause{column: column, value: value})
	return c
}

// Empty reports whether the criteria carries no assignments.
func (c *Criteria) Empty() bool { return len(c.sets) == 0 }

// Insert renders an INSERT statement from the assignments.
func (c *Criteria) Insert() (string, []any) {
	cols := make([]string, len(c.sets))
	marks := make([]string, len(c.sets))
	args := make([]any, len(c.sets))
	for i, s := range c.sets {
		cols[i] = s.column
		marks[i] = "?"
		args[i] = s.value
	}
	q := "INSERT INTO " + c.table + " (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.Join(marks, ", ") + ")"
	return q, args
}

// Update renders an UPDATE statement from the assignments and conditions.
func (c *Criteria) Update() (string, []any) {
	sets := make([]string, len(c.sets))
	args := make([]any, 0, len(c.sets)+len(c.wheres))
	for i, s := range c.sets {
		sets[i] = s.column + " = ?"
		args = append(args, s.value)
	}
	q := "UPDATE " + c.table + " SET " + strings.Join(sets, ", ")
	q, args = c.appendWhere(q, args)
	return q, args
}

// Delete renders a DELETE statement from the conditions.
func (c *Criteria) Delete() (string, []any) {
	q := "DELETE FROM " + c.table
	return c.appendWhere(q, nil)
}

// Select renders a SELECT over the given columns with the conditions.
func (c *Criteria) Select(columns ...string) (string, []any) {
	q := "SELECT " + strings.Join(columns, ", ") + " FROM " + c.table
	return c.appendWhere(q, nil)
}

func (c *Criteria) appendWhere(q string, args []any) (string, []any) {
	if len(c.wheres) == 0 {
		return q, args
	}
	conds := make([]string, len(c.wheres))
	for i, w := range c.wheres {
		conds[i] = w.column + " = ?"
		args = append(args, w.value)
	}
	return q + " WHERE " + strings.Join(conds, " AND "), args
}
