// Package codegen generates Go model types from CREATE TABLE definitions.
//
// For a table users with columns id and email it emits:
//
//	// User is a row of the users table.
//	type User struct {
//		ID    int64          `db:"id"`
//		Email sql.NullString `db:"email"`
//	}
//
//	func (User) TableName() string { return UsersTable }
//
// together with the table and column name constants. TableName lets the
// generated types drive sql.SelectFrom and the other model builders.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/sqlgen/dialect/sql/schema"
)

var (
	names    = inflect.NewDefaultRuleset()
	acronyms = map[string]bool{"ID": true, "URL": true, "UUID": true, "JSON": true, "SQL": true, "API": true, "HTTP": true, "IP": true}
)

// GoName converts a snake_case SQL name to an exported Go identifier.
// Common initialisms keep their case: user_id is UserID.
func GoName(s string) string {
	var b strings.Builder
	for _, w := range strings.Split(s, "_") {
		if w == "" {
			continue
		}
		if up := strings.ToUpper(w); acronyms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(names.Camelize(w))
	}
	return b.String()
}

// modelName returns the singular type name of a table.
func modelName(table string) string {
	return GoName(names.Singularize(table))
}

// Generate returns the formatted source of package pkg holding a model for
// every CREATE TABLE in tables. Other statements are skipped. The file
// name is only used in error messages.
func Generate(pkg, filename string, tables []*schema.Table) ([]byte, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by sqlgen. DO NOT EDIT.")
	seen := make(map[string]bool)
	for _, t := range tables {
		if t.Statement() != "create table" {
			continue
		}
		if seen[t.Name()] {
			return nil, fmt.Errorf("codegen: duplicate table %q", t.Name())
		}
		seen[t.Name()] = true
		genTable(f, t)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: render %s: %w", filename, err)
	}
	out, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("codegen: format %s: %w", filename, err)
	}
	return out, nil
}

type field struct {
	column string
	name   string
	typ    *jen.Statement
	// comment is the column comment, if any.
	comment string
}

func genTable(f *jen.File, t *schema.Table) {
	table := GoName(t.Name())
	model := modelName(t.Name())
	tableConst := table + "Table"

	pk := make(map[string]bool)
	for _, c := range t.Columns() {
		if _, ok := c.Type.(schema.PrimaryKey); ok && c.Action.Kind == schema.AddConstraint {
			pk[c.Name()] = true
		}
	}
	var fields []field
	for _, c := range t.Columns() {
		if c.Action.Kind != schema.AddColumn || c.Type == nil {
			continue
		}
		typ, ok := goType(c.Type, pk[c.Name()])
		if !ok {
			continue
		}
		fields = append(fields, field{
			column:  c.Name(),
			name:    GoName(c.Name()),
			typ:     typ,
			comment: c.Type.Attributes().Comment,
		})
	}

	f.Comment(fmt.Sprintf("Names of the %s table and its columns.", t.Name()))
	f.Const().DefsFunc(func(g *jen.Group) {
		g.Id(tableConst).Op("=").Lit(t.Name())
		for _, fd := range fields {
			g.Id(table + "Column" + fd.name).Op("=").Lit(fd.column)
		}
	})
	f.Line()

	f.Comment(fmt.Sprintf("%sColumns lists the columns of %s in definition order.", table, t.Name()))
	f.Var().Id(table + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, fd := range fields {
			g.Id(table + "Column" + fd.name)
		}
	})
	f.Line()

	f.Comment(fmt.Sprintf("%s is a row of the %s table.", model, t.Name()))
	f.Type().Id(model).StructFunc(func(g *jen.Group) {
		for _, fd := range fields {
			s := g.Id(fd.name).Add(fd.typ).Tag(map[string]string{"db": fd.column})
			if fd.comment != "" {
				s.Comment(fd.comment)
			}
		}
	})
	f.Line()

	f.Comment("TableName returns " + tableConst + ".")
	f.Func().Params(jen.Id(model)).Id("TableName").Params().String().Block(
		jen.Return(jen.Id(tableConst)),
	)
	f.Line()
}

// goType maps a column type to the Go type scanned from it. Nullable
// columns use the database/sql Null wrappers; primary keys never are.
// Constraint-only types have no Go type.
func goType(t schema.Type, pk bool) (*jen.Statement, bool) {
	a := t.Attributes()
	null := a.Null != schema.False && a.PrimaryKey != schema.True && !pk
	pick := func(plain *jen.Statement, wrapper string) *jen.Statement {
		if null {
			return jen.Qual("database/sql", wrapper)
		}
		return plain
	}
	switch t := t.(type) {
	case schema.Boolean:
		return pick(jen.Bool(), "NullBool"), true
	case schema.Integer:
		if t.Bytes == 1 && t.Unsigned {
			return pick(jen.Uint8(), "NullByte"), true
		}
		return pick(jen.Int64(), "NullInt64"), true
	case schema.Float:
		return pick(jen.Float32(), "NullFloat64"), true
	case schema.Double, schema.Decimal:
		return pick(jen.Float64(), "NullFloat64"), true
	case schema.String, schema.Text, schema.JSON:
		return pick(jen.String(), "NullString"), true
	case schema.Time:
		return pick(jen.String(), "NullString"), true
	case schema.Date, schema.Datetime, schema.Timestamp:
		return pick(jen.Qual("time", "Time"), "NullTime"), true
	case schema.Blob, schema.Binary:
		return jen.Index().Byte(), true
	}
	return nil, false
}
