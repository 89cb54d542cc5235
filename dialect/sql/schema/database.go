package schema

import (
	"strings"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
	"github.com/syssam/sqlgen/dialect/sql"
)

// Default MySQL database options.
const (
	DefaultCharset   = "utf8mb4"
	DefaultCollation = "utf8mb4_0900_ai_ci"
)

type databaseOp uint8

const (
	createDatabase databaseOp = iota
	alterDatabase
	renameDatabase
	dropDatabase
)

var databaseStatements = [...]string{
	createDatabase: "create database",
	alterDatabase:  "alter database",
	renameDatabase: "rename database",
	dropDatabase:   "drop database",
}

// Database assembles a CREATE, ALTER, RENAME or DROP DATABASE statement.
type Database struct {
	op         databaseOp
	name       string
	newName    string
	charset    string
	collation  string
	encryption Flag
	readOnly   Flag
}

// CreateDatabase returns a CREATE DATABASE statement. On MySQL the
// character set and collation default to utf8mb4 and utf8mb4_0900_ai_ci.
func CreateDatabase(name string) *Database {
	return &Database{op: createDatabase, name: name}
}

// AlterDatabase returns an ALTER DATABASE statement (MySQL).
func AlterDatabase(name string) *Database {
	return &Database{op: alterDatabase, name: name}
}

// RenameDatabase returns a statement renaming database old to name.
func RenameDatabase(old, name string) *Database {
	return &Database{op: renameDatabase, name: old, newName: name}
}

// DropDatabase returns a DROP DATABASE IF EXISTS statement.
func DropDatabase(name string) *Database {
	return &Database{op: dropDatabase, name: name}
}

// Name returns the database name.
func (db *Database) Name() string { return db.name }

// Charset sets the character set, rendered as ENCODING on Postgres.
func (db *Database) Charset(s string) *Database {
	db.charset = s
	return db
}

// Collation sets the collation.
func (db *Database) Collation(s string) *Database {
	db.collation = s
	return db
}

// Encryption sets the MySQL ENCRYPTION option.
func (db *Database) Encryption(on bool) *Database {
	db.encryption = FlagOf(on)
	return db
}

// ReadOnly sets the MySQL READ ONLY option.
func (db *Database) ReadOnly(on bool) *Database {
	db.readOnly = FlagOf(on)
	return db
}

// SQL compiles the statement for d.
func (db *Database) SQL(d dialect.Dialect) (*sql.Fragment, error) {
	stmt := databaseStatements[db.op]
	if !d.Valid() {
		return nil, sqlgen.NewUnsupportedDialectError(string(d), stmt)
	}
	if db.name == "" {
		return nil, sqlgen.NewMissingInputError(stmt, "name")
	}
	name := d.Quote(db.name)
	var b strings.Builder
	switch db.op {
	case createDatabase:
		db.create(d, name, &b)
	case alterDatabase:
		if d != dialect.MySQL {
			return nil, sqlgen.NewUnsupportedDialectError(string(d), stmt)
		}
		b.WriteString("ALTER DATABASE " + name)
		n := b.Len()
		db.mysqlOptions(&b)
		if b.Len() == n {
			return nil, sqlgen.NewMissingInputError(stmt, "options")
		}
		b.WriteString(";")
	case renameDatabase:
		if db.newName == "" {
			return nil, sqlgen.NewMissingInputError(stmt, "new name")
		}
		to := d.Quote(db.newName)
		switch d {
		case dialect.Postgres:
			b.WriteString("ALTER DATABASE " + name + " RENAME TO " + to + ";")
		case dialect.SQLServer:
			b.WriteString("ALTER DATABASE " + name + " SET SINGLE_USER WITH ROLLBACK IMMEDIATE;\n")
			b.WriteString("ALTER DATABASE " + name + " MODIFY NAME = " + to + ";\n")
			b.WriteString("ALTER DATABASE " + to + " SET MULTI_USER;")
		default:
			return nil, sqlgen.NewUnsupportedDialectError(string(d), stmt)
		}
	default:
		b.WriteString("DROP DATABASE IF EXISTS " + name + ";")
	}
	return sql.NewFragment(b.String()), nil
}

// Render compiles the statement for d and renders it.
func (db *Database) Render(d dialect.Dialect) (string, error) {
	f, err := db.SQL(d)
	if err != nil {
		return "", err
	}
	return f.Render()
}

func (db *Database) create(d dialect.Dialect, name string, b *strings.Builder) {
	switch d {
	case dialect.MySQL:
		b.WriteString("CREATE DATABASE IF NOT EXISTS " + name)
		if db.charset == "" && db.collation == "" {
			b.WriteString(" CHARACTER SET " + DefaultCharset + " COLLATE " + DefaultCollation)
		}
		db.mysqlOptions(b)
	case dialect.Postgres:
		b.WriteString("CREATE DATABASE " + name)
		if db.charset != "" {
			b.WriteString(" ENCODING '" + db.charset + "'")
		}
	case dialect.SQLServer:
		b.WriteString("IF DB_ID(N'" + db.name + "') IS NULL CREATE DATABASE " + name)
	default:
		b.WriteString("CREATE DATABASE " + name)
	}
	b.WriteString(";")
}

// mysqlOptions writes the MySQL options that are set, in fixed order.
// READ ONLY is only valid in ALTER DATABASE.
func (db *Database) mysqlOptions(b *strings.Builder) {
	if db.charset != "" {
		b.WriteString(" CHARACTER SET " + db.charset)
	}
	if db.collation != "" {
		b.WriteString(" COLLATE " + db.collation)
	}
	if db.encryption.IsSet() {
		if db.encryption.Bool() {
			b.WriteString(" ENCRYPTION 'Y'")
		} else {
			b.WriteString(" ENCRYPTION 'N'")
		}
	}
	if db.readOnly.IsSet() && db.op == alterDatabase {
		if db.readOnly.Bool() {
			b.WriteString(" READ ONLY 1")
		} else {
			b.WriteString(" READ ONLY 0")
		}
	}
}
