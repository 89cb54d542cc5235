package sql

import (
	"github.com/syssam/sqlgen"
)

// UpdateBuilder is a builder for UPDATE statements. A WHERE clause is
// required.
type UpdateBuilder struct {
	table string
	assignments
	where predicates
	window
}

// Update returns a builder for UPDATE table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set appends a column assignment.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.set(column, v)
	return u
}

// Values appends assignments from a Map or a value accepted by ParseCond.
func (u *UpdateBuilder) Values(v any) *UpdateBuilder {
	u.setAll(v)
	return u
}

// Deferred makes the builder emit placeholders for the assigned values.
// Conditions keep their own mode.
func (u *UpdateBuilder) Deferred() *UpdateBuilder {
	u.deferred = true
	return u
}

// Where appends a condition to the WHERE clause.
func (u *UpdateBuilder) Where(v any) *UpdateBuilder {
	u.where.add(v)
	return u
}

// WhereRange appends a range restriction to the WHERE clause.
func (u *UpdateBuilder) WhereRange(r Range) *UpdateBuilder {
	u.where = append(u.where, r)
	return u
}

// OrderBy appends ORDER BY terms.
func (u *UpdateBuilder) OrderBy(terms ...string) *UpdateBuilder {
	u.orderBy(terms...)
	return u
}

// Limit sets the LIMIT clause.
func (u *UpdateBuilder) Limit(n int) *UpdateBuilder {
	u.setLimit(n)
	return u
}

// Offset sets the OFFSET clause.
func (u *UpdateBuilder) Offset(n int) *UpdateBuilder {
	u.setOffset(n)
	return u
}

// Paginate sets LIMIT size and OFFSET (page-1)*size.
func (u *UpdateBuilder) Paginate(page, size int) *UpdateBuilder {
	u.paginate(page, size)
	return u
}

// SQL compiles the statement.
func (u *UpdateBuilder) SQL() (*Fragment, error) {
	if u.err != nil {
		return nil, u.err
	}
	if u.table == "" {
		return nil, sqlgen.NewMissingInputError("update", "table")
	}
	if len(u.values) == 0 {
		return nil, sqlgen.NewMissingInputError("update", "set")
	}
	if len(u.where) == 0 {
		return nil, sqlgen.NewMissingInputError("update", "where")
	}
	f := NewFragment("UPDATE ").WriteString(u.table).WriteString(" SET ")
	for n, p := range u.values {
		v, err := u.literal(p)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			f.WriteString(", ")
		}
		f.WriteString(p.Column).WriteString(" = ")
		u.write(f, v)
	}
	if err := u.where.compile(f, "WHERE"); err != nil {
		return nil, err
	}
	u.window.compile(f)
	return f, nil
}

// Render returns the statement as literal SQL.
func (u *UpdateBuilder) Render() (string, error) { return render(u.SQL()) }

// Query returns the statement with placeholders and its deferred values.
func (u *UpdateBuilder) Query() (string, []any, error) { return query(u.SQL()) }

// String implements fmt.Stringer. Errors render as an empty string.
func (u *UpdateBuilder) String() string {
	q, _ := u.Render()
	return q
}
