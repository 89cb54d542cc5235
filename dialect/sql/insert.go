package sql

import (
	"strings"

	"github.com/syssam/sqlgen"
)

// InsertBuilder is a builder for single-row INSERT statements.
//
//	sql.Insert("users").Set("name", "a8m").Set("age", 30)
//	// INSERT INTO users (name, age) VALUES ('a8m', 30)
type InsertBuilder struct {
	table string
	assignments
}

// Insert returns a builder for INSERT INTO table.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set appends a column and its value.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.set(column, v)
	return i
}

// Values appends the entries of v: a Map, a map[string]any (keys in
// ascending order) or a YAML mapping node (document order).
func (i *InsertBuilder) Values(v any) *InsertBuilder {
	i.setAll(v)
	return i
}

// Deferred makes the builder emit placeholders for the values.
func (i *InsertBuilder) Deferred() *InsertBuilder {
	i.deferred = true
	return i
}

// SQL compiles the statement.
func (i *InsertBuilder) SQL() (*Fragment, error) {
	if i.err != nil {
		return nil, i.err
	}
	if i.table == "" {
		return nil, sqlgen.NewMissingInputError("insert", "table")
	}
	if len(i.values) == 0 {
		return nil, sqlgen.NewMissingInputError("insert", "values")
	}
	f := NewFragment("INSERT INTO ").WriteString(i.table).
		WriteString(" (").WriteString(strings.Join(i.values.Columns(), ", ")).
		WriteString(") VALUES (")
	for n, p := range i.values {
		v, err := i.literal(p)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			f.WriteString(", ")
		}
		i.write(f, v)
	}
	return f.WriteString(")"), nil
}

// Render returns the statement as literal SQL.
func (i *InsertBuilder) Render() (string, error) { return render(i.SQL()) }

// Query returns the statement with placeholders and its deferred values.
func (i *InsertBuilder) Query() (string, []any, error) { return query(i.SQL()) }

// String implements fmt.Stringer. Errors render as an empty string.
func (i *InsertBuilder) String() string {
	q, _ := i.Render()
	return q
}
