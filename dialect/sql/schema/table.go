package schema

import (
	"strings"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/dialect/sql"
)

type tableOp uint8

const (
	createTable tableOp = iota
	alterTable
	renameTable
	dropTable
)

var tableStatements = [...]string{
	createTable: "create table",
	alterTable:  "alter table",
	renameTable: "rename table",
	dropTable:   "drop table",
}

// Table assembles a CREATE, ALTER, RENAME or DROP TABLE statement. The
// fluent methods append columns in call order, and SQL compiles them for a
// dialect.
type Table struct {
	op        tableOp
	name      string
	newName   string
	columns   []Column
	engine    string
	charset   string
	collation string
	comment   string
	fk        *fkDefaults
}

// CreateTable returns a CREATE TABLE IF NOT EXISTS statement.
func CreateTable(name string) *Table {
	return &Table{op: createTable, name: name}
}

// AlterTable returns an ALTER TABLE statement.
func AlterTable(name string) *Table {
	return &Table{op: alterTable, name: name}
}

// RenameTable returns a statement renaming table old to name.
func RenameTable(old, name string) *Table {
	return &Table{op: renameTable, name: old, newName: name}
}

// DropTable returns a DROP TABLE IF EXISTS statement.
func DropTable(name string) *Table {
	return &Table{op: dropTable, name: name}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Statement returns the statement kind, e.g. "create table".
func (t *Table) Statement() string { return tableStatements[t.op] }

// Columns returns the columns appended so far.
func (t *Table) Columns() []Column { return t.columns }

// Column appends c as is.
func (t *Table) Column(c Column) *Table {
	t.columns = append(t.columns, c)
	return t
}

func (t *Table) add(kind ActionKind, typ Type, names ...string) *Table {
	return t.Column(Column{Names: names, Action: Action{Kind: kind}, Type: typ})
}

// AddColumn adds a column of type typ.
func (t *Table) AddColumn(name string, typ Type) *Table {
	return t.add(AddColumn, typ, name)
}

// AddColumnAt adds a column placed at pos, e.g. "FIRST" or "AFTER id".
func (t *Table) AddColumnAt(name, pos string, typ Type) *Table {
	return t.Column(Column{Names: []string{name}, Action: AddColumnAt(pos), Type: typ})
}

// ModifyColumn redefines a column.
func (t *Table) ModifyColumn(name string, typ Type) *Table {
	return t.add(ModifyColumn, typ, name)
}

// ChangeColumn renames and redefines a column.
func (t *Table) ChangeColumn(old, name string, typ Type) *Table {
	return t.Column(Column{Names: []string{old}, Action: ChangeColumnTo(name, ""), Type: typ})
}

// RenameColumn renames a column.
func (t *Table) RenameColumn(old, name string) *Table {
	return t.Column(Column{Names: []string{old}, Action: RenameColumnTo(name, "")})
}

// DropColumn drops a column.
func (t *Table) DropColumn(name string) *Table {
	return t.add(DropColumn, nil, name)
}

// AddIndex adds an index over cols.
func (t *Table) AddIndex(cols ...string) *Table {
	return t.add(AddConstraint, Index{}, cols...)
}

// AddUniqueIndex adds a unique index over cols.
func (t *Table) AddUniqueIndex(cols ...string) *Table {
	return t.add(AddConstraint, Index{Unique: true}, cols...)
}

// RenameIndex renames an index.
func (t *Table) RenameIndex(old, name string) *Table {
	return t.Column(Column{Names: []string{old}, Action: RenameIndexTo(name), Type: Index{}})
}

// DropIndex drops the index called name.
func (t *Table) DropIndex(name string) *Table {
	return t.add(DropConstraint, Index{}, name)
}

// AddUnique adds a unique constraint over cols.
func (t *Table) AddUnique(cols ...string) *Table {
	return t.add(AddConstraint, Unique{}, cols...)
}

// DropUnique drops the unique constraint called name.
func (t *Table) DropUnique(name string) *Table {
	return t.add(DropConstraint, Unique{}, name)
}

// AddPrimaryKey makes col the primary key.
func (t *Table) AddPrimaryKey(col string) *Table {
	return t.add(AddConstraint, PrimaryKey{}, col)
}

// DropPrimaryKey drops the primary key on col.
func (t *Table) DropPrimaryKey(col string) *Table {
	return t.add(DropConstraint, PrimaryKey{}, col)
}

// AddForeignKey adds a foreign key on col. A nil ref is inferred from the
// column name.
func (t *Table) AddForeignKey(col string, ref *Reference) *Table {
	return t.add(AddConstraint, ForeignKey{Reference: ref}, col)
}

// DropForeignKey drops the foreign key on col.
func (t *Table) DropForeignKey(col string) *Table {
	return t.add(DropConstraint, ForeignKey{}, col)
}

// ForeignKeyDefaults sets the options of foreign keys that declare neither
// ON UPDATE nor ON DELETE.
func (t *Table) ForeignKeyDefaults(onUpdate, onDelete ReferenceOption) *Table {
	t.fk = &fkDefaults{onUpdate: onUpdate, onDelete: onDelete}
	return t
}

// Engine sets the MySQL storage engine.
func (t *Table) Engine(s string) *Table {
	t.engine = s
	return t
}

// Charset sets the MySQL table character set.
func (t *Table) Charset(s string) *Table {
	t.charset = s
	return t
}

// Collation sets the MySQL table collation.
func (t *Table) Collation(s string) *Table {
	t.collation = s
	return t
}

// Comment sets the MySQL table comment.
func (t *Table) Comment(s string) *Table {
	t.comment = s
	return t
}

// SQL compiles the statement for d. Dialects that cannot express the
// whole statement at once get several statements separated by "\n".
func (t *Table) SQL(d dialect.Dialect) (*sql.Fragment, error) {
	stmt := tableStatements[t.op]
	if !d.Valid() {
		return nil, sqlgen.NewUnsupportedDialectError(string(d), stmt)
	}
	if t.name == "" {
		return nil, sqlgen.NewMissingInputError(stmt, "name")
	}
	var (
		stmts []string
		err   error
	)
	switch t.op {
	case createTable:
		stmts, err = t.create(d)
	case alterTable:
		stmts, err = t.alter(d)
	case renameTable:
		stmts, err = t.rename(d)
	default:
		stmts = []string{"DROP TABLE IF EXISTS " + d.Quote(t.name) + ";"}
	}
	if err != nil {
		return nil, err
	}
	return sql.NewFragment(strings.Join(stmts, "\n")), nil
}

// Render compiles the statement for d and renders it.
func (t *Table) Render(d dialect.Dialect) (string, error) {
	f, err := t.SQL(d)
	if err != nil {
		return "", err
	}
	return f.Render()
}

func (t *Table) create(d dialect.Dialect) ([]string, error) {
	var (
		name   = d.Quote(t.name)
		inline = d == dialect.MySQL || d == dialect.SQLServer
		defs   []string
		cons   []string
		after  []string
		rowid  = make(map[string]bool)
	)
	for _, c := range t.columns {
		if c.rowidKey(d) {
			rowid[c.Name()] = true
		}
	}
	for _, c := range t.columns {
		if !c.Action.adds() {
			return nil, sqlgen.NewUnsupportedValueError("create table", c.Action.Kind.String())
		}
		if _, ok := c.Type.(PrimaryKey); ok && len(c.Names) == 1 && rowid[c.Name()] {
			continue
		}
		if def := c.Definition(d); def != nil {
			defs = append(defs, def.Text())
		}
		cons = append(cons, c.constraints(d, t.fk, inline)...)
		if !inline && c.plainIndex() {
			after = append(after, createIndex(d, name, c))
		}
	}
	if len(defs) == 0 {
		return nil, sqlgen.NewMissingInputError("create table", "columns")
	}
	var b strings.Builder
	if d == dialect.SQLServer {
		b.WriteString("IF OBJECT_ID(N'" + t.name + "', N'U') IS NULL\nCREATE TABLE " + name + " (\n")
	} else {
		b.WriteString("CREATE TABLE IF NOT EXISTS " + name + " (\n")
	}
	b.WriteString(strings.Join(append(defs, cons...), ",\n"))
	b.WriteString("\n)")
	if d == dialect.MySQL {
		for _, o := range t.options() {
			b.WriteString(" " + o)
		}
	}
	b.WriteString(";")
	return append([]string{b.String()}, after...), nil
}

// options returns the MySQL table options in their fixed order.
func (t *Table) options() []string {
	var opts []string
	if t.engine != "" {
		opts = append(opts, "ENGINE = "+t.engine)
	}
	if t.charset != "" {
		opts = append(opts, "CHARACTER SET "+t.charset)
	}
	if t.collation != "" {
		opts = append(opts, "COLLATE "+t.collation)
	}
	if t.comment != "" {
		opts = append(opts, "COMMENT = '"+strings.ReplaceAll(t.comment, "'", "''")+"'")
	}
	return opts
}

// alter compiles an ALTER TABLE. MySQL and Postgres combine the items in
// one statement, Postgres renames excepted. SQLite and SQL Server take one
// item per statement.
func (t *Table) alter(d dialect.Dialect) ([]string, error) {
	name := d.Quote(t.name)
	var items, cons, standalone []string
	for _, c := range t.columns {
		def, err := alterItems(d, name, c)
		if err != nil {
			return nil, err
		}
		items = append(items, def.items...)
		standalone = append(standalone, def.standalone...)
	}
	for _, c := range t.columns {
		con, err := alterConstraints(d, name, c, t.fk)
		if err != nil {
			return nil, err
		}
		cons = append(cons, con.items...)
		standalone = append(standalone, con.standalone...)
	}
	items = append(items, cons...)
	if d == dialect.MySQL {
		items = append(items, t.options()...)
	}
	if len(items) == 0 && len(standalone) == 0 {
		return nil, sqlgen.NewMissingInputError("alter table", "columns")
	}
	var stmts []string
	switch {
	case len(items) == 0:
	case d == dialect.MySQL || d == dialect.Postgres:
		stmts = append(stmts, "ALTER TABLE "+name+"\n"+strings.Join(items, ",\n")+";")
	default:
		for _, it := range items {
			stmts = append(stmts, "ALTER TABLE "+name+"\n"+it+";")
		}
	}
	return append(stmts, standalone...), nil
}

// alterOut holds the clauses a column contributes to an ALTER TABLE:
// items go inside the ALTER statement, standalone are complete statements.
type alterOut struct {
	items      []string
	standalone []string
}

func alterItems(d dialect.Dialect, table string, c Column) (alterOut, error) {
	var out alterOut
	def := c.Definition(d)
	if def == nil {
		return out, nil
	}
	text := def.Text()
	col := d.Quote(c.Name())
	switch c.Action.Kind {
	case AddColumn:
		if d == dialect.SQLServer {
			out.items = append(out.items, "ADD "+text)
		} else {
			out.items = append(out.items, "ADD COLUMN "+text)
		}
	case ModifyColumn:
		switch d {
		case dialect.MySQL:
			out.items = append(out.items, "MODIFY COLUMN "+text)
		case dialect.Postgres:
			out.items = append(out.items, alterColumnPostgres(col, c.Type)...)
		case dialect.SQLServer:
			out.items = append(out.items, alterColumnSQLServer(col, c.Type))
		default:
			return out, sqlgen.NewUnsupportedDialectError(string(d), "modify column")
		}
	case ChangeColumn:
		if d != dialect.MySQL {
			return out, sqlgen.NewUnsupportedDialectError(string(d), "change column")
		}
		out.items = append(out.items, "CHANGE COLUMN "+text)
	case RenameColumn:
		switch d {
		case dialect.SQLServer:
			out.standalone = append(out.standalone, "EXEC sp_rename '"+unbracket(table)+"."+c.Name()+"', '"+c.Action.NewName+"', 'COLUMN';")
		case dialect.Postgres:
			out.standalone = append(out.standalone, "ALTER TABLE "+table+" RENAME COLUMN "+text+";")
		default:
			out.items = append(out.items, "RENAME COLUMN "+text)
		}
	case DropColumn:
		out.items = append(out.items, "DROP COLUMN "+text)
	}
	return out, nil
}

func alterConstraints(d dialect.Dialect, table string, c Column, fk *fkDefaults) (alterOut, error) {
	var out alterOut
	if c.Type == nil {
		return out, nil
	}
	if d != dialect.MySQL && c.plainIndex() {
		switch c.Action.Kind {
		case AddColumn, AddConstraint:
			out.standalone = append(out.standalone, createIndex(d, table, c))
		case DropConstraint:
			if d == dialect.SQLServer {
				out.standalone = append(out.standalone, "DROP INDEX "+d.Quote(c.Name())+" ON "+table+";")
			} else {
				out.standalone = append(out.standalone, "DROP INDEX "+d.Quote(c.Name())+";")
			}
		case RenameIndex:
			switch d {
			case dialect.Postgres:
				out.standalone = append(out.standalone, "ALTER INDEX "+d.Quote(c.Name())+" RENAME TO "+d.Quote(c.Action.NewName)+";")
			case dialect.SQLServer:
				out.standalone = append(out.standalone, "EXEC sp_rename '"+unbracket(table)+"."+c.Name()+"', '"+c.Action.NewName+"', 'INDEX';")
			default:
				return out, sqlgen.NewUnsupportedDialectError(string(d), "rename index")
			}
		}
		return out, nil
	}
	cons := c.constraints(d, fk, false)
	if len(cons) == 0 {
		return out, nil
	}
	if d == dialect.SQLite {
		// SQLite cannot add or drop constraints on an existing table.
		return out, sqlgen.NewUnsupportedDialectError(string(d), c.Action.Kind.String())
	}
	for _, s := range cons {
		switch {
		case c.Action.Kind == AddConstraint && d == dialect.MySQL && !strings.HasPrefix(s, "INDEX "):
			out.items = append(out.items, "ADD CONSTRAINT "+s)
		case c.Action.adds():
			out.items = append(out.items, "ADD "+s)
		default:
			out.items = append(out.items, s)
		}
	}
	return out, nil
}

func alterColumnPostgres(col string, typ Type) []string {
	s, ok := typ.spec(dialect.Postgres)
	if !ok {
		return nil
	}
	items := []string{"ALTER COLUMN " + col + " TYPE " + s.keyword}
	switch typ.Attributes().Null {
	case True:
		items = append(items, "ALTER COLUMN "+col+" DROP NOT NULL")
	case False:
		items = append(items, "ALTER COLUMN "+col+" SET NOT NULL")
	}
	if s.hasDefault {
		items = append(items, "ALTER COLUMN "+col+" SET DEFAULT "+s.def)
	}
	return items
}

func alterColumnSQLServer(col string, typ Type) string {
	s, _ := typ.spec(dialect.SQLServer)
	item := "ALTER COLUMN " + col + " " + s.keyword
	switch typ.Attributes().Null {
	case True:
		item += " NULL"
	case False:
		item += " NOT NULL"
	}
	return item
}

func createIndex(d dialect.Dialect, table string, c Column) string {
	return "CREATE INDEX " + d.Quote("index_on_"+strings.Join(c.Names, "_and_")) + " ON " + table + " (" + quoteAll(d, c.Names) + ");"
}

func (t *Table) rename(d dialect.Dialect) ([]string, error) {
	if t.newName == "" {
		return nil, sqlgen.NewMissingInputError("rename table", "new name")
	}
	if d == dialect.SQLServer {
		return []string{"EXEC sp_rename '" + t.name + "', '" + t.newName + "';"}, nil
	}
	return []string{"ALTER TABLE " + d.Quote(t.name) + " RENAME TO " + d.Quote(t.newName) + ";"}, nil
}

// unbracket strips SQL Server quoting for use inside sp_rename arguments.
func unbracket(s string) string {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return strings.ReplaceAll(s[1:len(s)-1], "]]", "]")
	}
	return s
}
