package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/syssam/sqlgen"
)

// Dialect names a target database.
type Dialect string

// Dialect names for external usage.
const (
	MySQL     Dialect = "mysql"
	Postgres  Dialect = "postgres"
	SQLite    Dialect = "sqlite"
	SQLServer Dialect = "sqlserver"
)

// All lists the supported dialects in a stable order.
var All = []Dialect{MySQL, Postgres, SQLite, SQLServer}

var aliases = map[string]Dialect{
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pg":         Postgres,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
}

// Parse resolves a dialect name or one of its aliases.
func Parse(name string) (Dialect, error) {
	if d, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return "", sqlgen.NewUnsupportedDialectError(name, "")
}

// String implements fmt.Stringer.
func (d Dialect) String() string { return string(d) }

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	switch d {
	case MySQL, Postgres, SQLite, SQLServer:
		return true
	}
	return false
}

// FromDSN detects the dialect of a data source name and checks that the
// DSN is well formed for it. No connection is opened.
func FromDSN(dsn string) (Dialect, error) {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		if _, err := pq.ParseURL(dsn); err != nil {
			return "", fmt.Errorf("postgres dsn: %w", err)
		}
		return Postgres, nil
	case strings.HasPrefix(lower, "sqlserver://"):
		if _, err := msdsn.Parse(dsn); err != nil {
			return "", fmt.Errorf("sqlserver dsn: %w", err)
		}
		return SQLServer, nil
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return SQLite, nil
	}
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	return MySQL, nil
}

// AutoIncrement returns the column attribute that makes an integer column
// auto-incrementing.
func (d Dialect) AutoIncrement() string {
	switch d {
	case SQLite:
		return "AUTOINCREMENT"
	case Postgres:
		return "GENERATED BY DEFAULT AS IDENTITY"
	case SQLServer:
		return "IDENTITY(1,1)"
	default:
		return "AUTO_INCREMENT"
	}
}

// Charsets reports whether CREATE DATABASE and CREATE TABLE accept
// CHARACTER SET and COLLATE clauses.
func (d Dialect) Charsets() bool {
	return d == MySQL
}

// Comments reports whether column definitions accept an inline COMMENT.
func (d Dialect) Comments() bool {
	return d == MySQL
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	switch d {
	case Postgres:
		return fmt.Sprintf("$%d", n)
	case SQLServer:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reserved holds words that must be quoted when used as identifiers.
var reserved = map[string]struct{}{
	"add": {}, "all": {}, "alter": {}, "and": {}, "as": {}, "asc": {},
	"between": {}, "by": {}, "case": {}, "check": {}, "column": {},
	"constraint": {}, "create": {}, "database": {}, "default": {},
	"delete": {}, "desc": {}, "distinct": {}, "drop": {}, "exists": {},
	"foreign": {}, "from": {}, "group": {}, "having": {}, "in": {},
	"index": {}, "insert": {}, "into": {}, "is": {}, "join": {}, "key": {},
	"like": {}, "limit": {}, "not": {}, "null": {}, "offset": {}, "on": {},
	"or": {}, "order": {}, "primary": {}, "references": {}, "rename": {},
	"select": {}, "set": {}, "table": {}, "to": {}, "union": {},
	"unique": {}, "update": {}, "user": {}, "values": {}, "where": {},
}

// NeedsQuote reports whether ident must be quoted to be used verbatim.
func NeedsQuote(ident string) bool {
	if !plainIdent.MatchString(ident) {
		return true
	}
	_, ok := reserved[strings.ToLower(ident)]
	return ok
}

// Quote returns ident quoted in the dialect's style when it needs quoting,
// and unchanged otherwise. Dotted names are handled per segment.
func (d Dialect) Quote(ident string) string {
	if ident == "" || ident == "*" {
		return ident
	}
	if strings.Contains(ident, ".") {
		parts := strings.Split(ident, ".")
		for i := range parts {
			parts[i] = d.Quote(parts[i])
		}
		return strings.Join(parts, ".")
	}
	if !NeedsQuote(ident) {
		return ident
	}
	return d.QuoteAlways(ident)
}

// QuoteAlways quotes ident in the dialect's style unconditionally.
func (d Dialect) QuoteAlways(ident string) string {
	switch d {
	case Postgres:
		return pq.QuoteIdentifier(ident)
	case SQLServer:
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	case SQLite:
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	default:
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
}
