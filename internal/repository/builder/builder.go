package builder

import (
	"fmt"
	"strings"
)

// SQLBuilder helps construct PostgreSQL queries dynamically. Conditions use
// "?" placeholders which Build numbers as $1, $2, ...
type SQLBuilder struct {
	table    string
	columns  []string
	rows     [][]interface{}
	where    []string
	args     []interface{}
	orderBy  []string
	limit    int
	isInsert bool
	isDelete bool
	isSelect bool
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values adds one row of values for insertion. Call it once per row.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.rows = append(b.rows, vals)
	return b
}

// Where adds a condition to the query. Conditions are combined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.args = append(b.args, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// BuildSafe constructs the final SQL string and arguments with safety validation.
// Returns an error if the number of placeholders doesn't match the number of arguments.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	if b.isInsert {
		for i, row := range b.rows {
			if len(row) != len(b.columns) {
				return "", nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(b.columns))
			}
		}
	}

	sql, args := b.Build()

	placeholderCount := 0
	for i := 1; i <= len(args)+10; i++ {
		if strings.Contains(sql, fmt.Sprintf("$%d", i)) {
			placeholderCount++
		} else if i > len(args) {
			break
		}
	}

	if placeholderCount != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholderCount, len(args))
	}

	return sql, args, nil
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	argIndex := 1

	switch {
	case b.isSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES ")
		tuples := make([]string, len(b.rows))
		for r, row := range b.rows {
			placeholders := make([]string, len(row))
			for i := range row {
				placeholders[i] = fmt.Sprintf("$%d", argIndex)
				argIndex++
			}
			tuples[r] = "(" + strings.Join(placeholders, ", ") + ")"
			args = append(args, row...)
		}
		sb.WriteString(strings.Join(tuples, ", "))
		return sb.String(), args
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(numberPlaceholders(strings.Join(b.where, " AND "), &argIndex))
		args = append(args, b.args...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	return sb.String(), args
}

// numberPlaceholders replaces each "?" with the next $N.
func numberPlaceholders(clause string, argIndex *int) string {
	parts := strings.Split(clause, "?")
	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(part)
		if i < len(parts)-1 {
			sb.WriteString(fmt.Sprintf("$%d", *argIndex))
			*argIndex++
		}
	}
	return sb.String()
}
