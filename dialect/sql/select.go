package sql

import (
	"strings"

	"github.com/syssam/sqlgen"
)

// Selector is a builder for SELECT statements.
//
//	s := sql.Select("users").
//		Columns("id", "name").
//		Where(map[string]any{"is_deleted": false}).
//		OrderBy("id DESC").
//		Paginate(2, 20)
type Selector struct {
	table    string
	columns  []string
	distinct bool
	joins    []string
	where    predicates
	groupBy  []string
	having   predicates
	window
	err error
}

// Select returns a builder for SELECT ... FROM table.
func Select(table string) *Selector {
	return &Selector{table: table}
}

// Columns appends columns to the select list. Without columns the
// statement selects *.
func (s *Selector) Columns(columns ...string) *Selector {
	s.columns = append(s.columns, columns...)
	return s
}

// Distinct sets SELECT DISTINCT.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// Join appends a raw join clause, e.g. "LEFT JOIN posts ON posts.user_id = users.id".
func (s *Selector) Join(clause string) *Selector {
	if clause = strings.TrimSpace(clause); clause != "" {
		s.joins = append(s.joins, clause)
	}
	return s
}

// Where appends a condition to the WHERE clause. v is a Predicate or any
// value accepted by ParseCond.
func (s *Selector) Where(v any) *Selector {
	s.where.add(v)
	return s
}

// WhereRange appends a range restriction to the WHERE clause.
func (s *Selector) WhereRange(r Range) *Selector {
	s.where = append(s.where, r)
	return s
}

// GroupBy appends GROUP BY terms.
func (s *Selector) GroupBy(columns ...string) *Selector {
	s.groupBy = append(s.groupBy, columns...)
	return s
}

// Having appends a condition to the HAVING clause.
func (s *Selector) Having(v any) *Selector {
	s.having.add(v)
	return s
}

// HavingRange appends a range restriction to the HAVING clause.
func (s *Selector) HavingRange(r Range) *Selector {
	s.having = append(s.having, r)
	return s
}

// OrderBy appends ORDER BY terms such as "id" or "created_at DESC".
func (s *Selector) OrderBy(terms ...string) *Selector {
	s.orderBy(terms...)
	return s
}

// OrderByPairs appends "column direction" terms from an ordered map.
func (s *Selector) OrderByPairs(m Map) *Selector {
	if err := s.orderByMap(m); err != nil && s.err == nil {
		s.err = err
	}
	return s
}

// Limit sets the LIMIT clause.
func (s *Selector) Limit(n int) *Selector {
	s.setLimit(n)
	return s
}

// Offset sets the OFFSET clause.
func (s *Selector) Offset(n int) *Selector {
	s.setOffset(n)
	return s
}

// Paginate sets LIMIT size and OFFSET (page-1)*size.
func (s *Selector) Paginate(page, size int) *Selector {
	s.paginate(page, size)
	return s
}

// SQL compiles the statement.
func (s *Selector) SQL() (*Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.table == "" {
		return nil, sqlgen.NewMissingInputError("select", "table")
	}
	f := NewFragment("SELECT ")
	if s.distinct {
		f.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		f.WriteString("*")
	} else {
		f.WriteString(strings.Join(s.columns, ","))
	}
	f.WriteString(" FROM ").WriteString(s.table)
	for _, j := range s.joins {
		f.WriteString(" ").WriteString(j)
	}
	if err := s.where.compile(f, "WHERE"); err != nil {
		return nil, err
	}
	if len(s.groupBy) > 0 {
		f.WriteString(" GROUP BY ").WriteString(strings.Join(s.groupBy, ","))
	}
	if err := s.having.compile(f, "HAVING"); err != nil {
		return nil, err
	}
	s.window.compile(f)
	return f, nil
}

// Render returns the statement as literal SQL.
func (s *Selector) Render() (string, error) { return render(s.SQL()) }

// Query returns the statement with placeholders and its deferred values.
func (s *Selector) Query() (string, []any, error) { return query(s.SQL()) }

// String implements fmt.Stringer. Errors render as an empty string.
func (s *Selector) String() string {
	q, _ := s.Render()
	return q
}
