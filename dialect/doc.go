// Package dialect describes the SQL dialects sqlgen can target.
//
// A Dialect is a runtime value, so a single binary can render the same
// definitions for several databases. It decides the small set of syntax
// differences the compilers care about:
//
//   - the auto-increment column attribute
//   - how identifiers are quoted in RENAME and ALTER statements
//   - whether CHARACTER SET and COLLATE clauses are rendered
//   - the bind-parameter marker used in prepared mode
//
// # Supported Dialects
//
//	dialect.MySQL     = "mysql"
//	dialect.Postgres  = "postgres"
//	dialect.SQLite    = "sqlite"
//	dialect.SQLServer = "sqlserver"
//
// # Resolving a Dialect
//
// From a name, accepting common aliases such as "postgresql" or "mssql":
//
//	d, err := dialect.Parse("postgresql")
//
// From a data source name. The DSN is validated with the matching driver's
// parser; no connection is opened:
//
//	d, err := dialect.FromDSN("postgres://app@localhost/shop")
//
// # Identifier Quoting
//
// Quote leaves plain identifiers untouched and quotes reserved words or
// names with unusual characters:
//
//	dialect.MySQL.Quote("users")     // users
//	dialect.MySQL.Quote("order")     // `order`
//	dialect.Postgres.Quote("order")  // "order"
//	dialect.SQLServer.Quote("order") // [order]
package dialect
