package schema

import (
	"strings"

	"github.com/syssam/sqlgen"
)

// ReferenceOption is the action of a foreign key on update or delete.
type ReferenceOption string

// Reference options.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// Custom returns an option rendered verbatim.
func Custom(action string) ReferenceOption { return ReferenceOption(action) }

// ConstName returns the Go constant name of o, or "Custom".
func (o ReferenceOption) ConstName() string {
	switch o {
	case NoAction:
		return "NoAction"
	case Restrict:
		return "Restrict"
	case Cascade:
		return "Cascade"
	case SetNull:
		return "SetNull"
	case SetDefault:
		return "SetDefault"
	default:
		return "Custom"
	}
}

// Reference describes the target of a foreign key. Zero fields are inferred
// from the referencing column: user_id references users (id) under the
// constraint name fk_on_user_id.
type Reference struct {
	Name     string
	Table    string
	Columns  []string
	OnUpdate ReferenceOption
	OnDelete ReferenceOption
}

// NewReference returns the reference inferred from column.
func NewReference(column string) *Reference {
	r := (&Reference{}).resolve(column)
	return &r
}

// resolve returns a copy of r with the zero fields inferred from column.
func (r *Reference) resolve(column string) Reference {
	var out Reference
	if r != nil {
		out = *r
		out.Columns = append([]string(nil), r.Columns...)
	}
	if out.Name == "" {
		out.Name = "fk_on_" + column
	}
	if out.Table == "" {
		out.Table = sqlgen.Plural(strings.TrimSuffix(column, "_id"))
	}
	if len(out.Columns) == 0 {
		out.Columns = []string{"id"}
	}
	return out
}
