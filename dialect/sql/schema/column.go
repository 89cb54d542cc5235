package schema

import (
	"strings"

	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/dialect/sql"
)

// Column is one column or constraint operation of a table statement.
// Names holds a single column name, except for multi-column indexes and
// unique constraints.
type Column struct {
	Names  []string
	Action Action
	Type   Type
}

// Name returns the first column name.
func (c Column) Name() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0]
}

// Definition returns the column definition clause, or nil when the action
// or the type has none.
//
//	add, modify  name type[ position]
//	change       name new_name type[ position]
//	rename       name TO new_name[ position]
//	drop         name
//
// Positions are emitted for MySQL only.
func (c Column) Definition(d dialect.Dialect) *sql.Fragment {
	if c.Name() == "" {
		return nil
	}
	f := sql.NewFragment(d.Quote(c.Name()))
	switch c.Action.Kind {
	case AddColumn, ModifyColumn:
		tc := TypeClause(d, c.Type)
		if tc == "" {
			return nil
		}
		f.WriteString(" ").WriteString(tc)
	case ChangeColumn:
		tc := TypeClause(d, c.Type)
		if tc == "" {
			return nil
		}
		f.WriteString(" ").WriteString(d.Quote(c.Action.NewName)).WriteString(" ").WriteString(tc)
	case RenameColumn:
		f.WriteString(" TO ").WriteString(d.Quote(c.Action.NewName))
	case DropColumn:
		return f
	default:
		return nil
	}
	if c.Action.Position != "" && d == dialect.MySQL {
		f.WriteString(" ").WriteString(c.Action.Position)
	}
	return f
}

// Constraint returns the constraint clauses of the column joined by ",\n",
// or nil when there are none. Clauses come in a fixed order: primary key,
// unique or index, foreign key. Only add, drop-constraint and rename-index
// actions produce clauses.
//
// Plain indexes on Postgres and SQLite cannot be declared inside a table
// statement; Table emits them as separate statements and Constraint
// returns nothing for them. SQL Server declares them inline. Constraint
// names that are not plain identifiers are quoted like column names.
func (c Column) Constraint(d dialect.Dialect) *sql.Fragment {
	cs := c.constraints(d, nil, d == dialect.SQLServer)
	if len(cs) == 0 {
		return nil
	}
	return sql.NewFragment(strings.Join(cs, ",\n"))
}

// fkDefaults are the reference options applied to foreign keys that set
// none.
type fkDefaults struct {
	onUpdate, onDelete ReferenceOption
}

// constraints returns the constraint clauses of c. inlineIndex forces
// plain indexes to render inline on every dialect.
func (c Column) constraints(d dialect.Dialect, def *fkDefaults, inlineIndex bool) []string {
	if c.Type == nil || c.Name() == "" {
		return nil
	}
	var (
		a     = c.Type.Attributes()
		act   = c.Action
		mysql = d == dialect.MySQL
		name  = c.Name()
		cols  = quoteAll(d, c.Names)
		key   = strings.Join(c.Names, "_and_")
		out   []string
	)
	if !act.adds() && act.Kind != DropConstraint && act.Kind != RenameIndex {
		return nil
	}
	if a.PrimaryKey.Bool() && !c.rowidKey(d) {
		pk := d.Quote("pk_on_" + name)
		switch {
		case act.adds() && mysql:
			out = append(out, "PRIMARY KEY "+pk+" ("+cols+")")
		case act.adds():
			out = append(out, "CONSTRAINT "+pk+" PRIMARY KEY ("+cols+")")
		case act.Kind == DropConstraint && mysql:
			out = append(out, "DROP PRIMARY KEY")
		case act.Kind == DropConstraint:
			out = append(out, "DROP CONSTRAINT "+pk)
		}
	}
	unique, index := a.Unique.Bool(), a.Index.Bool()
	if unique || index {
		switch {
		case act.adds():
			if s := indexClause(d, unique, index, key, cols, inlineIndex); s != "" {
				out = append(out, s)
			}
		case act.Kind == RenameIndex && mysql:
			out = append(out, "RENAME INDEX "+d.Quote(name)+" TO "+d.Quote(act.NewName))
		case act.Kind == DropConstraint && mysql:
			out = append(out, "DROP INDEX "+d.Quote(name))
		case act.Kind == DropConstraint && unique:
			out = append(out, "DROP CONSTRAINT "+d.Quote(name))
		}
	}
	if a.ForeignKey != nil {
		ref := a.ForeignKey.resolve(name)
		if def != nil && ref.OnUpdate == "" && ref.OnDelete == "" {
			ref.OnUpdate, ref.OnDelete = def.onUpdate, def.onDelete
		}
		switch {
		case act.adds():
			var b strings.Builder
			if !mysql {
				b.WriteString("CONSTRAINT " + d.Quote(ref.Name) + " ")
			}
			b.WriteString("FOREIGN KEY ")
			if mysql {
				b.WriteString(d.Quote(ref.Name) + " ")
			}
			b.WriteString("(" + cols + ") REFERENCES " + d.Quote(ref.Table) + " (" + quoteAll(d, ref.Columns) + ")")
			if ref.OnUpdate != "" {
				b.WriteString(" ON UPDATE " + string(ref.OnUpdate))
			}
			if ref.OnDelete != "" {
				b.WriteString(" ON DELETE " + string(ref.OnDelete))
			}
			out = append(out, b.String())
		case act.Kind == DropConstraint && mysql:
			out = append(out, "DROP FOREIGN KEY "+d.Quote(ref.Name))
		case act.Kind == DropConstraint:
			out = append(out, "DROP CONSTRAINT "+d.Quote(ref.Name))
		}
	}
	return out
}

// indexClause renders the add form of a unique or index constraint.
func indexClause(d dialect.Dialect, unique, index bool, key, cols string, inline bool) string {
	if d == dialect.MySQL {
		switch {
		case unique && index:
			return "UNIQUE INDEX " + d.Quote("unique_index_on_"+key) + " (" + cols + ")"
		case unique:
			return "UNIQUE " + d.Quote("unique_on_"+key) + " (" + cols + ")"
		default:
			return "INDEX " + d.Quote("index_on_"+key) + " (" + cols + ")"
		}
	}
	switch {
	case unique && index:
		return "CONSTRAINT " + d.Quote("unique_index_on_"+key) + " UNIQUE (" + cols + ")"
	case unique:
		return "CONSTRAINT " + d.Quote("unique_on_"+key) + " UNIQUE (" + cols + ")"
	case inline:
		return "INDEX " + d.Quote("index_on_"+key) + " (" + cols + ")"
	default:
		return ""
	}
}

// rowidKey reports whether c declares its primary key inline, as SQLite
// requires for auto-increment columns.
func (c Column) rowidKey(d dialect.Dialect) bool {
	t, ok := c.Type.(Integer)
	return ok && t.AutoIncrement && d == dialect.SQLite && c.Action.adds()
}

// plainIndex reports whether c is an index without uniqueness.
func (c Column) plainIndex() bool {
	if c.Type == nil {
		return false
	}
	a := c.Type.Attributes()
	return a.Index.Bool() && !a.Unique.Bool()
}

func quoteAll(d dialect.Dialect, names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = d.Quote(n)
	}
	return strings.Join(q, ",")
}
