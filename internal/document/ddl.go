package document

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect/sql/schema"
)

type databaseSpec struct {
	Name       string      `yaml:"name"`
	To         string      `yaml:"to"`
	Charset    string      `yaml:"charset"`
	Collation  string      `yaml:"collation"`
	Encryption schema.Flag `yaml:"encryption"`
	ReadOnly   schema.Flag `yaml:"read_only"`
}

func (s databaseSpec) build(kind string) *schema.Database {
	var db *schema.Database
	switch kind {
	case "create_database":
		db = schema.CreateDatabase(ident(s.Name))
	case "alter_database":
		db = schema.AlterDatabase(ident(s.Name))
	case "rename_database":
		db = schema.RenameDatabase(ident(s.Name), ident(s.To))
	default:
		return schema.DropDatabase(ident(s.Name))
	}
	if s.Charset != "" {
		db.Charset(s.Charset)
	}
	if s.Collation != "" {
		db.Collation(s.Collation)
	}
	if s.Encryption.IsSet() {
		db.Encryption(s.Encryption.Bool())
	}
	if s.ReadOnly.IsSet() {
		db.ReadOnly(s.ReadOnly.Bool())
	}
	return db
}

type referenceSpec struct {
	Name     string   `yaml:"name"`
	Table    string   `yaml:"table"`
	Columns  []string `yaml:"columns"`
	OnUpdate string   `yaml:"on_update"`
	OnDelete string   `yaml:"on_delete"`
}

func (r *referenceSpec) build() *schema.Reference {
	if r == nil {
		return nil
	}
	return &schema.Reference{
		Name:     ident(r.Name),
		Table:    ident(r.Table),
		Columns:  idents(r.Columns),
		OnUpdate: referenceOption(r.OnUpdate),
		OnDelete: referenceOption(r.OnDelete),
	}
}

// referenceOption accepts the option names in any case, with spaces or
// underscores. Anything else renders verbatim.
func referenceOption(s string) schema.ReferenceOption {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")) {
	case "":
		return ""
	case "no action":
		return schema.NoAction
	case "restrict":
		return schema.Restrict
	case "cascade":
		return schema.Cascade
	case "set null":
		return schema.SetNull
	case "set default":
		return schema.SetDefault
	}
	return schema.Custom(s)
}

type columnSpec struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Position   string         `yaml:"position"`
	Null       schema.Flag    `yaml:"null"`
	Index      schema.Flag    `yaml:"index"`
	Unique     schema.Flag    `yaml:"unique"`
	PrimaryKey schema.Flag    `yaml:"primary_key"`
	ForeignKey *referenceSpec `yaml:"foreign_key"`
	Comment    string         `yaml:"comment"`
	Default    any            `yaml:"default"`

	Bytes         int  `yaml:"bytes"`
	Bits          int  `yaml:"bits"`
	Unsigned      bool `yaml:"unsigned"`
	Zerofill      bool `yaml:"zerofill"`
	AutoIncrement bool `yaml:"auto_increment"`
	Precision     int  `yaml:"precision"`
	Scale         int  `yaml:"scale"`
	Length        int  `yaml:"length"`
	Char          bool `yaml:"char"`
	Fixed         bool `yaml:"fixed"`
	OnCreate      bool `yaml:"on_create"`
	OnUpdate      bool `yaml:"on_update"`
}

// UnmarshalYAML reads the "null" key as a field name. YAML resolves a
// plain null key to the null value, which no struct field matches.
func (c *columnSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain columnSpec
	return nullKeys(n).Decode((*plain)(c))
}

// nullKeys returns n with every plain null key of a mapping retagged as a
// string. Other nodes are returned as is.
func nullKeys(n *yaml.Node) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return n
	}
	m := *n
	m.Content = make([]*yaml.Node, len(n.Content))
	copy(m.Content, n.Content)
	for i := 0; i < len(m.Content); i += 2 {
		k := m.Content[i]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!null" && strings.EqualFold(k.Value, "null") {
			key := *k
			key.Tag = "!!str"
			m.Content[i] = &key
		}
	}
	return &m
}

// typ converts the column to its type descriptor.
func (c columnSpec) typ() (schema.Type, error) {
	switch strings.ToLower(c.Type) {
	case "boolean", "bool":
		var def schema.Flag
		if c.Default != nil {
			b, ok := c.Default.(bool)
			if !ok {
				return nil, sqlgen.NewUnsupportedValueError(c.Name+" default", c.Default)
			}
			def = schema.FlagOf(b)
		}
		return schema.Boolean{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: def}, nil
	case "integer", "int":
		t := schema.Integer{
			Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey,
			ForeignKey: c.ForeignKey.build(), Comment: c.Comment,
			Bytes: c.Bytes, Bits: c.Bits, Unsigned: c.Unsigned, Zerofill: c.Zerofill, AutoIncrement: c.AutoIncrement,
		}
		if c.Default != nil {
			n, err := intDefault(c.Name, c.Default)
			if err != nil {
				return nil, err
			}
			t.Default = &n
		}
		return t, nil
	case "float", "double", "decimal":
		var def *float64
		if c.Default != nil {
			f, err := floatDefault(c.Name, c.Default)
			if err != nil {
				return nil, err
			}
			def = &f
		}
		switch strings.ToLower(c.Type) {
		case "float":
			return schema.Float{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: def}, nil
		case "double":
			return schema.Double{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: def}, nil
		}
		return schema.Decimal{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Precision: c.Precision, Scale: c.Scale, Default: def}, nil
	case "string", "varchar":
		return schema.String{
			Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey,
			ForeignKey: c.ForeignKey.build(), Comment: c.Comment,
			Length: c.Length, Char: c.Char, Default: rawDefault(c.Default),
		}, nil
	case "text":
		return schema.Text{Null: c.Null, Comment: c.Comment, Default: rawDefault(c.Default)}, nil
	case "time":
		return schema.Time{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: rawDefault(c.Default)}, nil
	case "date":
		return schema.Date{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: rawDefault(c.Default)}, nil
	case "datetime":
		return schema.Datetime{Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment, Default: rawDefault(c.Default)}, nil
	case "timestamp":
		return schema.Timestamp{
			Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment,
			Default: rawDefault(c.Default), OnCreate: c.OnCreate, OnUpdate: c.OnUpdate,
		}, nil
	case "json":
		return schema.JSON{Null: c.Null, Comment: c.Comment, Default: rawDefault(c.Default)}, nil
	case "blob":
		return schema.Blob{Null: c.Null, Comment: c.Comment}, nil
	case "binary", "varbinary":
		t := schema.Binary{
			Null: c.Null, Index: c.Index, Unique: c.Unique, PrimaryKey: c.PrimaryKey, Comment: c.Comment,
			Length: c.Length, Fixed: c.Fixed || strings.EqualFold(c.Type, "binary"),
		}
		if s := rawDefault(c.Default); s != "" {
			t.Default = []byte(s)
		}
		return t, nil
	}
	return nil, sqlgen.NewUnsupportedValueError("column type", c.Type)
}

func intDefault(column string, v any) (int64, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
	}
	return 0, sqlgen.NewUnsupportedValueError(column+" default", v)
}

func floatDefault(column string, v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, sqlgen.NewUnsupportedValueError(column+" default", v)
}

// rawDefault returns a default as raw SQL text.
func rawDefault(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(v)
}

type changeSpec struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	columnSpec `yaml:",inline"`
}

// UnmarshalYAML shadows the method promoted from columnSpec, which would
// leave From and To empty.
func (c *changeSpec) UnmarshalYAML(n *yaml.Node) error {
	var names struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	}
	if err := n.Decode(&names); err != nil {
		return err
	}
	if err := n.Decode(&c.columnSpec); err != nil {
		return err
	}
	c.From, c.To = names.From, names.To
	return nil
}

type renameSpec struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Position string `yaml:"position"`
}

type foreignKeySpec struct {
	Column        string `yaml:"column"`
	referenceSpec `yaml:",inline"`
}

type tableSpec struct {
	Name               string `yaml:"name"`
	To                 string `yaml:"to"`
	Engine             string `yaml:"engine"`
	Charset            string `yaml:"charset"`
	Collation          string `yaml:"collation"`
	Comment            string `yaml:"comment"`
	ForeignKeyDefaults *struct {
		OnUpdate string `yaml:"on_update"`
		OnDelete string `yaml:"on_delete"`
	} `yaml:"foreign_key_defaults"`

	Columns         []columnSpec     `yaml:"columns"`
	Add             []columnSpec     `yaml:"add"`
	Modify          []columnSpec     `yaml:"modify"`
	Change          []changeSpec     `yaml:"change"`
	Rename          []renameSpec     `yaml:"rename"`
	Drop            []string         `yaml:"drop"`
	Indexes         [][]string       `yaml:"indexes"`
	UniqueIndexes   [][]string       `yaml:"unique_indexes"`
	Uniques         [][]string       `yaml:"uniques"`
	PrimaryKey      string           `yaml:"primary_key"`
	ForeignKeys     []foreignKeySpec `yaml:"foreign_keys"`
	RenameIndexes   []renameSpec     `yaml:"rename_indexes"`
	DropIndexes     []string         `yaml:"drop_indexes"`
	DropUniques     []string         `yaml:"drop_uniques"`
	DropPrimaryKey  string           `yaml:"drop_primary_key"`
	DropForeignKeys []string         `yaml:"drop_foreign_keys"`
}

// build returns the table assembler. Columns are appended in a fixed
// order: columns, add, modify, change, rename, drop, then the constraint
// lists in field order.
func (s tableSpec) build(kind string) (*schema.Table, error) {
	name := ident(s.Name)
	var t *schema.Table
	switch kind {
	case "create_table":
		t = schema.CreateTable(name)
	case "alter_table":
		t = schema.AlterTable(name)
	case "rename_table":
		return schema.RenameTable(name, ident(s.To)), nil
	default:
		return schema.DropTable(name), nil
	}
	if s.Engine != "" {
		t.Engine(s.Engine)
	}
	if s.Charset != "" {
		t.Charset(s.Charset)
	}
	if s.Collation != "" {
		t.Collation(s.Collation)
	}
	if s.Comment != "" {
		t.Comment(s.Comment)
	}
	if fk := s.ForeignKeyDefaults; fk != nil {
		t.ForeignKeyDefaults(referenceOption(fk.OnUpdate), referenceOption(fk.OnDelete))
	}
	for _, c := range append(s.Columns, s.Add...) {
		typ, err := c.typ()
		if err != nil {
			return nil, err
		}
		t.AddColumnAt(ident(c.Name), c.Position, typ)
	}
	for _, c := range s.Modify {
		typ, err := c.typ()
		if err != nil {
			return nil, err
		}
		t.Column(schema.Column{Names: []string{ident(c.Name)}, Action: schema.ModifyColumnAt(c.Position), Type: typ})
	}
	for _, c := range s.Change {
		typ, err := c.typ()
		if err != nil {
			return nil, err
		}
		t.Column(schema.Column{Names: []string{ident(c.From)}, Action: schema.ChangeColumnTo(ident(c.To), c.Position), Type: typ})
	}
	for _, r := range s.Rename {
		t.Column(schema.Column{Names: []string{ident(r.From)}, Action: schema.RenameColumnTo(ident(r.To), r.Position)})
	}
	for _, c := range s.Drop {
		t.DropColumn(ident(c))
	}
	for _, cols := range s.Indexes {
		t.AddIndex(idents(cols)...)
	}
	for _, cols := range s.UniqueIndexes {
		t.AddUniqueIndex(idents(cols)...)
	}
	for _, cols := range s.Uniques {
		t.AddUnique(idents(cols)...)
	}
	if s.PrimaryKey != "" {
		t.AddPrimaryKey(ident(s.PrimaryKey))
	}
	for _, fk := range s.ForeignKeys {
		t.AddForeignKey(ident(fk.Column), fk.referenceSpec.build())
	}
	for _, r := range s.RenameIndexes {
		t.RenameIndex(ident(r.From), ident(r.To))
	}
	for _, n := range s.DropIndexes {
		t.DropIndex(ident(n))
	}
	for _, n := range s.DropUniques {
		t.DropUnique(ident(n))
	}
	if s.DropPrimaryKey != "" {
		t.DropPrimaryKey(ident(s.DropPrimaryKey))
	}
	for _, c := range s.DropForeignKeys {
		t.DropForeignKey(ident(c))
	}
	return t, nil
}
