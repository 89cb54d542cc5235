package sql

import (
	"github.com/syssam/sqlgen"
)

// DeleteBuilder is a builder for DELETE statements. A WHERE clause is
// required.
type DeleteBuilder struct {
	table string
	where predicates
	window
}

// Delete returns a builder for DELETE FROM table.
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Where appends a condition to the WHERE clause.
func (d *DeleteBuilder) Where(v any) *DeleteBuilder {
	d.where.add(v)
	return d
}

// WhereRange appends a range restriction to the WHERE clause.
func (d *DeleteBuilder) WhereRange(r Range) *DeleteBuilder {
	d.where = append(d.where, r)
	return d
}

// OrderBy appends ORDER BY terms.
func (d *DeleteBuilder) OrderBy(terms ...string) *DeleteBuilder {
	d.orderBy(terms...)
	return d
}

// Limit sets the LIMIT clause.
func (d *DeleteBuilder) Limit(n int) *DeleteBuilder {
	d.setLimit(n)
	return d
}

// Offset sets the OFFSET clause.
func (d *DeleteBuilder) Offset(n int) *DeleteBuilder {
	d.setOffset(n)
	return d
}

// Paginate sets LIMIT size and OFFSET (page-1)*size.
func (d *DeleteBuilder) Paginate(page, size int) *DeleteBuilder {
	d.paginate(page, size)
	return d
}

// SQL compiles the statement.
func (d *DeleteBuilder) SQL() (*Fragment, error) {
	if d.table == "" {
		return nil, sqlgen.NewMissingInputError("delete", "table")
	}
	if len(d.where) == 0 {
		return nil, sqlgen.NewMissingInputError("delete", "where")
	}
	f := NewFragment("DELETE FROM ").WriteString(d.table)
	if err := d.where.compile(f, "WHERE"); err != nil {
		return nil, err
	}
	d.window.compile(f)
	return f, nil
}

// Render returns the statement as literal SQL.
func (d *DeleteBuilder) Render() (string, error) { return render(d.SQL()) }

// Query returns the statement with placeholders and its deferred values.
func (d *DeleteBuilder) Query() (string, []any, error) { return query(d.SQL()) }

// String implements fmt.Stringer. Errors render as an empty string.
func (d *DeleteBuilder) String() string {
	q, _ := d.Render()
	return q
}
