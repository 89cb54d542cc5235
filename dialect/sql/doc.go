// Package sql composes SQL text from plain Go values.
//
// Everything in this package produces a *Fragment: SQL text together with an
// optional, ordered list of deferred values bound to its '?' placeholders. A
// fragment renders in one of two modes:
//
//   - literal: Render substitutes every placeholder with the SQL literal of
//     its value (see Stringify).
//   - prepared: Query and QueryDialect return the text with bind markers and
//     the values for database/sql.
//
// # Conditions
//
// Where, Not, Or and NotOr accept a Cond or any loose value ParseCond knows:
//
//	sql.Where(map[string]any{"a": 1, "b": []int{1, 2, 3}, "c": nil})
//	// a = 1 AND b IN (1,2,3) AND c IS NULL
//
//	sql.Not(sql.Map{sql.P("a", 1), sql.P("c", nil)})
//	// a != 1 AND c IS NOT NULL
//
//	sql.Where([]any{"created_at > ? AND owner = ?", "2024-01-01", 7})
//	// created_at > '2024-01-01' AND owner = 7
//
// Range restricts one column between two bounds:
//
//	sql.HalfOpen("id", 10, 20) // id >= 10 AND id < 20
//	sql.Between("id", 10, 20)  // id BETWEEN 10 AND 20
//
// # Statements
//
// Select, Insert, Update and Delete return builders with a terminal SQL step:
//
//	q, args, err := sql.Select("users").
//		Columns("id", "name").
//		Where(sql.Where(map[string]any{"role": "admin"}).Deferred()).
//		OrderBy("id DESC").
//		Limit(10).
//		Query()
//
// Update and Delete refuse to compile without a WHERE clause.
//
// # Thread Safety
//
// Builders and fragments are not safe for concurrent mutation. Compiling
// distinct values from several goroutines is safe; the package holds no
// mutable state.
package sql
