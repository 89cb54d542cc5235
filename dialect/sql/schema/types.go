package schema

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/syssam/sqlgen/dialect"
)

// Attrs is the set of capability flags a type descriptor answers.
type Attrs struct {
	Null       Flag
	Index      Flag
	Unique     Flag
	PrimaryKey Flag
	// ForeignKey is nil when the column references nothing.
	ForeignKey *Reference
	Comment    string
}

// Type is a column type descriptor. The set of implementations is closed:
// the column types Boolean through Binary, and the constraint-only types
// Index, Unique, PrimaryKey and ForeignKey.
type Type interface {
	// Attributes returns the capability flags of the descriptor.
	Attributes() Attrs
	// spec returns the rendering of the type in d. ok is false for
	// constraint-only descriptors.
	spec(d dialect.Dialect) (s typeSpec, ok bool)
}

// typeSpec is the dialect-resolved form of a column type.
type typeSpec struct {
	keyword string
	// modifiers follow the keyword, e.g. " UNSIGNED ZEROFILL".
	modifiers     string
	def           string
	hasDefault    bool
	onUpdate      bool
	autoIncrement bool
}

func (s *typeSpec) setDefault(v string) {
	s.def, s.hasDefault = v, true
}

// TypeClause renders the type clause of t in d:
//
//	keyword[(size)][ UNSIGNED][ NULL|NOT NULL][ DEFAULT v][ ON UPDATE CURRENT_TIMESTAMP][ auto-increment][ COMMENT 'c']
//
// On SQLite the auto-increment keyword is preceded by PRIMARY KEY, and the
// table statement omits the separate primary key constraint of that column.
//
// It returns an empty string for constraint-only descriptors.
func TypeClause(d dialect.Dialect, t Type) string {
	if t == nil {
		return ""
	}
	s, ok := t.spec(d)
	if !ok {
		return ""
	}
	a := t.Attributes()
	var b strings.Builder
	b.WriteString(s.keyword)
	b.WriteString(s.modifiers)
	switch a.Null {
	case True:
		b.WriteString(" NULL")
	case False:
		b.WriteString(" NOT NULL")
	}
	if s.hasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(s.def)
	}
	if s.onUpdate && d == dialect.MySQL {
		b.WriteString(" ON UPDATE CURRENT_TIMESTAMP")
	}
	switch {
	case s.autoIncrement && d == dialect.SQLite:
		// SQLite accepts AUTOINCREMENT only right after PRIMARY KEY.
		b.WriteString(" PRIMARY KEY ")
		b.WriteString(d.AutoIncrement())
	case s.autoIncrement:
		b.WriteString(" ")
		b.WriteString(d.AutoIncrement())
	}
	if a.Comment != "" && d.Comments() {
		b.WriteString(" COMMENT '")
		b.WriteString(a.Comment)
		b.WriteString("'")
	}
	return b.String()
}

// Boolean is a BOOLEAN column (BIT on SQL Server).
type Boolean struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         Flag
}

func (t Boolean) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Boolean) spec(d dialect.Dialect) (typeSpec, bool) {
	s := typeSpec{keyword: Keyword(d, KindBoolean)}
	if t.Default.IsSet() {
		switch {
		case d == dialect.SQLServer && t.Default.Bool():
			s.setDefault("1")
		case d == dialect.SQLServer:
			s.setDefault("0")
		default:
			s.setDefault(t.Default.String())
		}
	}
	return s, true
}

// Integer is an integer column. Bytes selects the width (1, 2, 4 or 8;
// 4 when zero). Bits, when set, renders the MySQL BIT(n) type instead.
type Integer struct {
	Null, Index, Unique, PrimaryKey Flag
	ForeignKey                      *Reference
	Comment                         string

	Bytes         int
	Bits          int
	Unsigned      bool
	Zerofill      bool
	AutoIncrement bool
	Default       *int64
}

func (t Integer) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, ForeignKey: t.ForeignKey, Comment: t.Comment}
}

func (t Integer) spec(d dialect.Dialect) (typeSpec, bool) {
	s := typeSpec{keyword: Keyword(d, intKind(t.Bytes)), autoIncrement: t.AutoIncrement}
	if t.Bits > 0 && d == dialect.MySQL {
		s.keyword = "BIT(" + itoa(t.Bits) + ")"
	}
	if t.Unsigned && d == dialect.MySQL {
		s.modifiers = " UNSIGNED"
		if t.Zerofill {
			s.modifiers += " ZEROFILL"
		}
	}
	if t.Default != nil {
		s.setDefault(strconv.FormatInt(*t.Default, 10))
	}
	return s, true
}

// Float is a single precision column.
type Float struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         *float64
}

func (t Float) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Float) spec(d dialect.Dialect) (typeSpec, bool) {
	s := typeSpec{keyword: Keyword(d, KindFloat)}
	if t.Default != nil {
		s.setDefault(ftoa(*t.Default))
	}
	return s, true
}

// Double is a double precision column.
type Double struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         *float64
}

func (t Double) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Double) spec(d dialect.Dialect) (typeSpec, bool) {
	s := typeSpec{keyword: Keyword(d, KindDouble)}
	if t.Default != nil {
		s.setDefault(ftoa(*t.Default))
	}
	return s, true
}

// Decimal is a fixed point column. A zero Precision selects DECIMAL(30, 6).
type Decimal struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Precision, Scale                int
	Default                         *float64
}

func (t Decimal) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Decimal) spec(d dialect.Dialect) (typeSpec, bool) {
	p, sc := t.Precision, t.Scale
	if p == 0 {
		p, sc = 30, 6
	}
	s := typeSpec{keyword: Keyword(d, KindDecimal) + "(" + itoa(p) + ", " + itoa(sc) + ")"}
	if t.Default != nil {
		s.setDefault(ftoa(*t.Default))
	}
	return s, true
}

// String is a VARCHAR column, or CHAR when Char is set. Length defaults to
// 255. Default is a raw SQL expression, so string literals carry their own
// quotes.
type String struct {
	Null, Index, Unique, PrimaryKey Flag
	ForeignKey                      *Reference
	Comment                         string

	Length  int
	Char    bool
	Default string
}

func (t String) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, ForeignKey: t.ForeignKey, Comment: t.Comment}
}

func (t String) spec(d dialect.Dialect) (typeSpec, bool) {
	n := t.Length
	if n == 0 {
		n = 255
	}
	kind := KindVarchar
	if t.Char {
		kind = KindChar
	}
	s := typeSpec{keyword: sized(Keyword(d, kind), n)}
	if t.Default != "" {
		s.setDefault(t.Default)
	}
	return s, true
}

// Text is a TEXT column. Default is a raw SQL expression.
type Text struct {
	Null    Flag
	Comment string
	Default string
}

func (t Text) Attributes() Attrs { return Attrs{Null: t.Null, Comment: t.Comment} }

func (t Text) spec(d dialect.Dialect) (typeSpec, bool) {
	return rawDefault(Keyword(d, KindText), t.Default), true
}

// Time is a TIME column. Default is a raw SQL expression.
type Time struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         string
}

func (t Time) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Time) spec(d dialect.Dialect) (typeSpec, bool) {
	return rawDefault(Keyword(d, KindTime), t.Default), true
}

// Date is a DATE column. Default is a raw SQL expression.
type Date struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         string
}

func (t Date) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Date) spec(d dialect.Dialect) (typeSpec, bool) {
	return rawDefault(Keyword(d, KindDate), t.Default), true
}

// Datetime is a DATETIME column. Default is a raw SQL expression.
type Datetime struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         string
}

func (t Datetime) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Datetime) spec(d dialect.Dialect) (typeSpec, bool) {
	return rawDefault(Keyword(d, KindDatetime), t.Default), true
}

// Timestamp is a TIMESTAMP column. OnCreate renders DEFAULT
// CURRENT_TIMESTAMP and takes precedence over Default. OnUpdate renders
// ON UPDATE CURRENT_TIMESTAMP on MySQL.
type Timestamp struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string
	Default                         string
	OnCreate, OnUpdate              bool
}

func (t Timestamp) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Timestamp) spec(d dialect.Dialect) (typeSpec, bool) {
	s := rawDefault(Keyword(d, KindTimestamp), t.Default)
	if t.OnCreate {
		s.setDefault("CURRENT_TIMESTAMP")
	}
	s.onUpdate = t.OnUpdate
	return s, true
}

// JSON is a JSON column (JSONB on Postgres). Default is an expression and
// renders in parentheses.
type JSON struct {
	Null    Flag
	Comment string
	Default string
}

func (t JSON) Attributes() Attrs { return Attrs{Null: t.Null, Comment: t.Comment} }

func (t JSON) spec(d dialect.Dialect) (typeSpec, bool) {
	s := typeSpec{keyword: Keyword(d, KindJSON)}
	if t.Default != "" {
		s.setDefault("(" + t.Default + ")")
	}
	return s, true
}

// Blob is a BLOB column.
type Blob struct {
	Null    Flag
	Comment string
}

func (t Blob) Attributes() Attrs { return Attrs{Null: t.Null, Comment: t.Comment} }

func (t Blob) spec(d dialect.Dialect) (typeSpec, bool) {
	return typeSpec{keyword: Keyword(d, KindBlob)}, true
}

// Binary is a VARBINARY column, or BINARY when Fixed is set. Length
// defaults to 255.
type Binary struct {
	Null, Index, Unique, PrimaryKey Flag
	Comment                         string

	Length  int
	Fixed   bool
	Default []byte
}

func (t Binary) Attributes() Attrs {
	return Attrs{Null: t.Null, Index: t.Index, Unique: t.Unique, PrimaryKey: t.PrimaryKey, Comment: t.Comment}
}

func (t Binary) spec(d dialect.Dialect) (typeSpec, bool) {
	n := t.Length
	if n == 0 {
		n = 255
	}
	kind := KindVarBinary
	if t.Fixed {
		kind = KindBinary
	}
	s := typeSpec{keyword: sized(Keyword(d, kind), n)}
	if t.Default != nil {
		s.setDefault("X'" + hex.EncodeToString(t.Default) + "'")
	}
	return s, true
}

// Index marks its columns as indexed. With Unique set it is a unique index.
type Index struct {
	Unique bool
}

func (t Index) Attributes() Attrs {
	a := Attrs{Index: True}
	if t.Unique {
		a.Unique = True
	}
	return a
}

func (Index) spec(dialect.Dialect) (typeSpec, bool) { return typeSpec{}, false }

// Unique marks its columns as a unique constraint.
type Unique struct{}

func (Unique) Attributes() Attrs                     { return Attrs{Unique: True} }
func (Unique) spec(dialect.Dialect) (typeSpec, bool) { return typeSpec{}, false }

// PrimaryKey marks its column as the primary key.
type PrimaryKey struct{}

func (PrimaryKey) Attributes() Attrs                     { return Attrs{PrimaryKey: True} }
func (PrimaryKey) spec(dialect.Dialect) (typeSpec, bool) { return typeSpec{}, false }

// ForeignKey marks its column as referencing another table. A nil
// Reference is inferred from the column name.
type ForeignKey struct {
	Reference *Reference
}

func (t ForeignKey) Attributes() Attrs {
	if t.Reference == nil {
		return Attrs{ForeignKey: &Reference{}}
	}
	return Attrs{ForeignKey: t.Reference}
}

func (ForeignKey) spec(dialect.Dialect) (typeSpec, bool) { return typeSpec{}, false }

func rawDefault(keyword, def string) typeSpec {
	s := typeSpec{keyword: keyword}
	if def != "" {
		s.setDefault(def)
	}
	return s
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
