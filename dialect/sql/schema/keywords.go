package schema

import (
	"strings"

	"github.com/syssam/sqlgen/dialect"
)

// Kind identifies a column type keyword.
type Kind uint8

// Column type kinds.
const (
	KindBoolean Kind = iota
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindDecimal
	KindVarchar
	KindChar
	KindText
	KindTime
	KindDate
	KindDatetime
	KindTimestamp
	KindJSON
	KindBlob
	KindVarBinary
	KindBinary
)

// keywords maps each dialect to its type keywords. MySQL is the fallback.
var keywords = map[dialect.Dialect]map[Kind]string{
	dialect.MySQL: {
		KindBoolean:   "BOOLEAN",
		KindTinyInt:   "TINYINT",
		KindSmallInt:  "SMALLINT",
		KindInt:       "INT",
		KindBigInt:    "BIGINT",
		KindFloat:     "FLOAT",
		KindDouble:    "DOUBLE",
		KindDecimal:   "DECIMAL",
		KindVarchar:   "VARCHAR",
		KindChar:      "CHAR",
		KindText:      "TEXT",
		KindTime:      "TIME",
		KindDate:      "DATE",
		KindDatetime:  "DATETIME",
		KindTimestamp: "TIMESTAMP",
		KindJSON:      "JSON",
		KindBlob:      "BLOB",
		KindVarBinary: "VARBINARY",
		KindBinary:    "BINARY",
	},
	dialect.Postgres: {
		KindBoolean:   "BOOLEAN",
		KindTinyInt:   "SMALLINT",
		KindSmallInt:  "SMALLINT",
		KindInt:       "INTEGER",
		KindBigInt:    "BIGINT",
		KindFloat:     "REAL",
		KindDouble:    "DOUBLE PRECISION",
		KindDecimal:   "DECIMAL",
		KindVarchar:   "VARCHAR",
		KindChar:      "CHAR",
		KindText:      "TEXT",
		KindTime:      "TIME",
		KindDate:      "DATE",
		KindDatetime:  "TIMESTAMP",
		KindTimestamp: "TIMESTAMP",
		KindJSON:      "JSONB",
		KindBlob:      "BYTEA",
		KindVarBinary: "BYTEA",
		KindBinary:    "BYTEA",
	},
	dialect.SQLite: {
		KindBoolean:   "BOOLEAN",
		KindTinyInt:   "INTEGER",
		KindSmallInt:  "INTEGER",
		KindInt:       "INTEGER",
		KindBigInt:    "INTEGER",
		KindFloat:     "REAL",
		KindDouble:    "DOUBLE",
		KindDecimal:   "DECIMAL",
		KindVarchar:   "VARCHAR",
		KindChar:      "CHAR",
		KindText:      "TEXT",
		KindTime:      "TIME",
		KindDate:      "DATE",
		KindDatetime:  "DATETIME",
		KindTimestamp: "TIMESTAMP",
		KindJSON:      "JSON",
		KindBlob:      "BLOB",
		KindVarBinary: "BLOB",
		KindBinary:    "BLOB",
	},
	dialect.SQLServer: {
		KindBoolean:   "BIT",
		KindTinyInt:   "TINYINT",
		KindSmallInt:  "SMALLINT",
		KindInt:       "INT",
		KindBigInt:    "BIGINT",
		KindFloat:     "REAL",
		KindDouble:    "FLOAT",
		KindDecimal:   "DECIMAL",
		KindVarchar:   "NVARCHAR",
		KindChar:      "NCHAR",
		KindText:      "NVARCHAR(MAX)",
		KindTime:      "TIME",
		KindDate:      "DATE",
		KindDatetime:  "DATETIME2",
		KindTimestamp: "DATETIME2",
		KindJSON:      "NVARCHAR(MAX)",
		KindBlob:      "VARBINARY(MAX)",
		KindVarBinary: "VARBINARY",
		KindBinary:    "BINARY",
	},
}

// Keyword returns the type keyword of kind in dialect d.
func Keyword(d dialect.Dialect, k Kind) string {
	if m, ok := keywords[d]; ok {
		if kw, ok := m[k]; ok {
			return kw
		}
	}
	return keywords[dialect.MySQL][k]
}

// sized returns kw with a length suffix, unless the keyword takes none.
func sized(kw string, n int) string {
	if strings.Contains(kw, "(") || kw == "BYTEA" || kw == "BLOB" {
		return kw
	}
	return kw + "(" + itoa(n) + ")"
}

// intKind maps a width in bytes to an integer kind. Unknown widths fall
// back to 4 bytes.
func intKind(bytes int) Kind {
	switch bytes {
	case 1:
		return KindTinyInt
	case 2:
		return KindSmallInt
	case 8:
		return KindBigInt
	default:
		return KindInt
	}
}
