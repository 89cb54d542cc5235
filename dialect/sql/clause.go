package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlgen"
)

// predicates holds the conditions of a WHERE or HAVING clause.
type predicates []Predicate

// add appends v. A Predicate is kept as is; any other value goes
// through Where.
func (ps *predicates) add(v any) {
	if p, ok := v.(Predicate); ok {
		*ps = append(*ps, p)
		return
	}
	*ps = append(*ps, Where(v))
}

// compile writes " <keyword> p1 AND p2 ...". Disjunct conditions are
// wrapped in parentheses.
func (ps predicates) compile(f *Fragment, keyword string) error {
	if len(ps) == 0 {
		return nil
	}
	f.WriteString(" ").WriteString(keyword)
	for i, p := range ps {
		if i > 0 {
			f.WriteString(" AND")
		}
		pf, err := p.Compile()
		if err != nil {
			return err
		}
		if g, ok := p.(interface{ grouped() bool }); ok && g.grouped() {
			f.WriteString(" (").Join(pf).WriteString(")")
		} else {
			f.WriteString(" ").Join(pf)
		}
	}
	return nil
}

// window holds the ORDER BY, LIMIT and OFFSET clauses shared by SELECT,
// UPDATE and DELETE.
type window struct {
	orders []string
	limit  *int
	offset *int
}

func (w *window) orderBy(terms ...string) {
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			w.orders = append(w.orders, t)
		}
	}
}

// orderByMap appends "column direction" for each entry of m, whose values
// must be string scalars.
func (w *window) orderByMap(m Map) error {
	for _, p := range m {
		s, ok := p.Value.(Scalar)
		if !ok {
			return sqlgen.NewUnsupportedValueError("order", p.Value)
		}
		dir, ok := s.V.(string)
		if !ok {
			return sqlgen.NewUnsupportedValueError("order", s.V)
		}
		w.orders = append(w.orders, p.Column+" "+dir)
	}
	return nil
}

func (w *window) setLimit(n int)  { w.limit = &n }
func (w *window) setOffset(n int) { w.offset = &n }

// paginate sets LIMIT size OFFSET (page-1)*size. Pages start at 1.
func (w *window) paginate(page, size int) {
	if page < 1 {
		page = 1
	}
	w.setLimit(size)
	w.setOffset((page - 1) * size)
}

func (w *window) compile(f *Fragment) {
	if len(w.orders) > 0 {
		f.WriteString(" ORDER BY ").WriteString(strings.Join(w.orders, ","))
	}
	if w.limit != nil {
		f.WriteString(" LIMIT ").WriteString(strconv.Itoa(*w.limit))
	}
	if w.offset != nil {
		f.WriteString(" OFFSET ").WriteString(strconv.Itoa(*w.offset))
	}
}

// assignments holds the column/value pairs of INSERT and UPDATE.
type assignments struct {
	values   Map
	deferred bool
	err      error
}

func (a *assignments) set(column string, v any) {
	a.values = append(a.values, P(column, v))
}

// setAll appends the entries of v, a Map or anything ParseCond turns
// into one.
func (a *assignments) setAll(v any) {
	c, err := ParseCond(v)
	if err != nil {
		a.err = err
		return
	}
	m, ok := c.(Map)
	if !ok {
		a.err = sqlgen.NewUnsupportedValueError("values", v)
		return
	}
	a.values = append(a.values, m...)
}

// literal returns the value of a pair, which must be a Scalar.
func (a *assignments) literal(p Pair) (any, error) {
	s, ok := p.Value.(Scalar)
	if !ok {
		return nil, sqlgen.NewUnsupportedValueError(p.Column, p.Value)
	}
	if _, err := Stringify(s.V); err != nil {
		return nil, sqlgen.NewUnsupportedValueError(p.Column, s.V)
	}
	return s.V, nil
}

// write appends v inline, or as a placeholder in defer mode.
func (a *assignments) write(f *Fragment, v any) {
	if a.deferred {
		f.Arg(v)
		return
	}
	s, _ := Stringify(v)
	f.literal(s)
}
