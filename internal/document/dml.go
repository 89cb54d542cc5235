package document

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect/sql"
)

type rangeSpec struct {
	Column string `yaml:"column"`
	Gte    any    `yaml:"gte"`
	Gt     any    `yaml:"gt"`
	Lte    any    `yaml:"lte"`
	Lt     any    `yaml:"lt"`
}

func (r rangeSpec) build(deferred bool) (sql.Range, error) {
	if r.Gte != nil && r.Gt != nil || r.Lte != nil && r.Lt != nil {
		return sql.Range{}, sqlgen.NewUnsupportedValueError("range bounds", r.Column)
	}
	rg := sql.Range{Column: ident(r.Column), Defer: deferred}
	switch {
	case r.Gte != nil:
		rg.Lower = sql.Inclusive(r.Gte)
	case r.Gt != nil:
		rg.Lower = sql.Exclusive(r.Gt)
	}
	switch {
	case r.Lte != nil:
		rg.Upper = sql.Inclusive(r.Lte)
	case r.Lt != nil:
		rg.Upper = sql.Exclusive(r.Lt)
	}
	return rg, nil
}

// rangeList accepts a single range or a list of them.
type rangeList []rangeSpec

func (l *rangeList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		var r rangeSpec
		if err := n.Decode(&r); err != nil {
			return err
		}
		*l = rangeList{r}
		return nil
	}
	return n.Decode((*[]rangeSpec)(l))
}

type pageSpec struct {
	Page int `yaml:"page"`
	Size int `yaml:"size"`
}

// filterSpec holds the clauses shared by select, update and delete.
type filterSpec struct {
	Where      yaml.Node   `yaml:"where"`
	WhereNot   yaml.Node   `yaml:"where_not"`
	WhereOr    yaml.Node   `yaml:"where_or"`
	WhereNotOr yaml.Node   `yaml:"where_not_or"`
	Range      rangeList   `yaml:"range"`
	Order      yaml.Node   `yaml:"order"`
	Limit      *int        `yaml:"limit"`
	Offset     *int        `yaml:"offset"`
	Page       *pageSpec   `yaml:"page"`
}

// clauses receives the compiled filter of a builder.
type clauses struct {
	where    func(any)
	order    func(...string)
	limit    func(int)
	offset   func(int)
	paginate func(page, size int)
}

func (f *filterSpec) apply(deferred bool, c clauses) error {
	for _, w := range []struct {
		node *yaml.Node
		cond func(any) sql.Condition
	}{
		{&f.Where, sql.Where},
		{&f.WhereNot, sql.Not},
		{&f.WhereOr, sql.Or},
		{&f.WhereNotOr, sql.NotOr},
	} {
		if w.node.Kind == 0 {
			continue
		}
		cond := w.cond(w.node)
		if deferred {
			cond = cond.Deferred()
		}
		c.where(cond)
	}
	for _, r := range f.Range {
		rg, err := r.build(deferred)
		if err != nil {
			return err
		}
		c.where(rg)
	}
	terms, err := orderTerms(&f.Order)
	if err != nil {
		return err
	}
	c.order(terms...)
	if f.Page != nil {
		c.paginate(f.Page.Page, f.Page.Size)
		return nil
	}
	if f.Limit != nil {
		c.limit(*f.Limit)
	}
	if f.Offset != nil {
		c.offset(*f.Offset)
	}
	return nil
}

// orderTerms accepts a single term, a list of terms, or a mapping from
// column to direction.
func orderTerms(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		var terms []string
		if err := n.Decode(&terms); err != nil {
			return nil, err
		}
		return terms, nil
	case yaml.MappingNode:
		terms := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			dir := strings.ToUpper(strings.TrimSpace(v.Value))
			if v.Kind != yaml.ScalarNode || (dir != "ASC" && dir != "DESC") {
				return nil, sqlgen.NewUnsupportedValueError("order direction", k.Value+" "+v.Value)
			}
			terms = append(terms, ident(k.Value)+" "+dir)
		}
		return terms, nil
	}
	return nil, sqlgen.NewUnsupportedValueError("order", n.Value)
}

type selectSpec struct {
	Table      string    `yaml:"table"`
	Columns    []string  `yaml:"columns"`
	Distinct   bool      `yaml:"distinct"`
	Join       []string  `yaml:"join"`
	GroupBy    []string  `yaml:"group_by"`
	Having     yaml.Node `yaml:"having"`
	Prepared   bool      `yaml:"prepared"`
	filterSpec `yaml:",inline"`
}

func (s *selectSpec) build(deferred bool) (*sql.Fragment, error) {
	b := sql.Select(ident(s.Table)).Columns(idents(s.Columns)...).GroupBy(idents(s.GroupBy)...)
	if s.Distinct {
		b.Distinct()
	}
	for _, j := range s.Join {
		b.Join(j)
	}
	if s.Having.Kind != 0 {
		cond := sql.Where(&s.Having)
		if deferred {
			cond = cond.Deferred()
		}
		b.Having(cond)
	}
	err := s.apply(deferred, clauses{
		where:    func(v any) { b.Where(v) },
		order:    func(t ...string) { b.OrderBy(t...) },
		limit:    func(n int) { b.Limit(n) },
		offset:   func(n int) { b.Offset(n) },
		paginate: func(p, n int) { b.Paginate(p, n) },
	})
	if err != nil {
		return nil, err
	}
	return b.SQL()
}

type insertSpec struct {
	Table    string    `yaml:"table"`
	Values   yaml.Node `yaml:"values"`
	Prepared bool      `yaml:"prepared"`
}

func (s *insertSpec) build(deferred bool) (*sql.Fragment, error) {
	b := sql.Insert(ident(s.Table))
	if s.Values.Kind != 0 {
		b.Values(&s.Values)
	}
	if deferred {
		b.Deferred()
	}
	return b.SQL()
}

type updateSpec struct {
	Table      string    `yaml:"table"`
	Set        yaml.Node `yaml:"set"`
	Prepared   bool      `yaml:"prepared"`
	filterSpec `yaml:",inline"`
}

func (s *updateSpec) build(deferred bool) (*sql.Fragment, error) {
	b := sql.Update(ident(s.Table))
	if s.Set.Kind != 0 {
		b.Values(&s.Set)
	}
	if deferred {
		b.Deferred()
	}
	err := s.apply(deferred, clauses{
		where:    func(v any) { b.Where(v) },
		order:    func(t ...string) { b.OrderBy(t...) },
		limit:    func(n int) { b.Limit(n) },
		offset:   func(n int) { b.Offset(n) },
		paginate: func(p, n int) { b.Paginate(p, n) },
	})
	if err != nil {
		return nil, err
	}
	return b.SQL()
}

type deleteSpec struct {
	Table      string `yaml:"table"`
	Prepared   bool   `yaml:"prepared"`
	filterSpec `yaml:",inline"`
}

func (s *deleteSpec) build(deferred bool) (*sql.Fragment, error) {
	b := sql.Delete(ident(s.Table))
	err := s.apply(deferred, clauses{
		where:    func(v any) { b.Where(v) },
		order:    func(t ...string) { b.OrderBy(t...) },
		limit:    func(n int) { b.Limit(n) },
		offset:   func(n int) { b.Offset(n) },
		paginate: func(p, n int) { b.Paginate(p, n) },
	})
	if err != nil {
		return nil, err
	}
	return b.SQL()
}
