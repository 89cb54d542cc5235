// Package document decodes YAML definition documents into statement
// assemblers.
//
// A document is a list of single-key mappings, each naming a statement
// kind:
//
//	dialect: postgres
//	statements:
//	  - create_table:
//	      name: users
//	      columns:
//	        - { name: id, type: integer, null: false, primary_key: true }
//	  - select:
//	      table: users
//	      where: { active: true }
//
// Conditions keep the key order of the document.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/dialect/sql"
	"github.com/syssam/sqlgen/dialect/sql/schema"
)

// Document is a decoded definition file.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string
	// Dialect overrides the renderer's dialect when set.
	Dialect    dialect.Dialect
	Statements []*Statement
}

// Statement is one entry of a document. Statements compile lazily so the
// same document renders for any dialect and mode.
type Statement struct {
	Kind string
	// Prepared forces placeholders for this statement.
	Prepared bool

	table    *schema.Table
	database *schema.Database
	query    func(deferred bool) (*sql.Fragment, error)
}

// Table returns the table assembler of a table statement, or nil.
func (s *Statement) Table() *schema.Table { return s.table }

// Output is a compiled statement.
type Output struct {
	SQL  string
	Args []any
}

// Compile compiles the statement for d. In prepared mode, query
// statements emit the bind markers of d and return their arguments. DDL
// never takes arguments.
func (s *Statement) Compile(d dialect.Dialect, prepared bool) (Output, error) {
	switch {
	case s.table != nil:
		text, err := s.table.Render(d)
		return Output{SQL: text}, err
	case s.database != nil:
		text, err := s.database.Render(d)
		return Output{SQL: text}, err
	}
	prepared = prepared || s.Prepared
	f, err := s.query(prepared)
	if err != nil {
		return Output{}, err
	}
	if prepared {
		text, args := f.QueryDialect(d)
		return Output{SQL: text + ";", Args: args}, nil
	}
	text, err := f.Render()
	if err != nil {
		return Output{}, err
	}
	return Output{SQL: text + ";"}, nil
}

type rawDocument struct {
	Dialect    string      `yaml:"dialect"`
	Statements []yaml.Node `yaml:"statements"`
}

// Decode parses a document.
func Decode(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	doc := &Document{}
	if raw.Dialect != "" {
		d, err := dialect.Parse(raw.Dialect)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		doc.Dialect = d
	}
	for i := range raw.Statements {
		n := &raw.Statements[i]
		if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
			return nil, fmt.Errorf("document: statement %d (line %d): want a mapping with a single key", i, n.Line)
		}
		kind, body := n.Content[0].Value, n.Content[1]
		stmt, err := decodeStatement(kind, body)
		if err != nil {
			return nil, fmt.Errorf("document: statement %d (%s, line %d): %w", i, kind, n.Line, err)
		}
		doc.Statements = append(doc.Statements, stmt)
	}
	return doc, nil
}

// Load reads and decodes the document at path.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.ToSlash(path), err)
	}
	doc.Path = path
	return doc, nil
}

// Tables returns the table assemblers of doc in document order.
func (doc *Document) Tables() []*schema.Table {
	var tables []*schema.Table
	for _, s := range doc.Statements {
		if s.table != nil {
			tables = append(tables, s.table)
		}
	}
	return tables
}

func decodeStatement(kind string, body *yaml.Node) (*Statement, error) {
	stmt := &Statement{Kind: kind}
	switch kind {
	case "create_database", "alter_database", "rename_database", "drop_database":
		var spec databaseSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		stmt.database = spec.build(kind)
	case "create_table", "alter_table", "rename_table", "drop_table":
		var spec tableSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		t, err := spec.build(kind)
		if err != nil {
			return nil, err
		}
		stmt.table = t
	case "select":
		var spec selectSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		stmt.Prepared = spec.Prepared
		stmt.query = spec.build
	case "insert":
		var spec insertSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		stmt.Prepared = spec.Prepared
		stmt.query = spec.build
	case "update":
		var spec updateSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		stmt.Prepared = spec.Prepared
		stmt.query = spec.build
	case "delete":
		var spec deleteSpec
		if err := body.Decode(&spec); err != nil {
			return nil, err
		}
		stmt.Prepared = spec.Prepared
		stmt.query = spec.build
	default:
		return nil, sqlgen.NewUnsupportedValueError("statement kind", kind)
	}
	return stmt, nil
}

// ident normalizes an identifier from a document.
func ident(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func idents(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = ident(s)
	}
	return out
}
