package sql

import (
	"github.com/syssam/sqlgen"
)

// Predicate is implemented by everything that compiles to a boolean SQL
// expression: Condition and Range.
type Predicate interface {
	Compile() (*Fragment, error)
}

// Condition is a Cond together with its modifiers.
type Condition struct {
	Input Cond
	// Negate flips every comparison: = to !=, IN to NOT IN, IS NULL to
	// IS NOT NULL.
	Negate bool
	// Disjunct joins the entries of a Map with OR instead of AND.
	Disjunct bool
	// Defer emits placeholders and defers the values. NULL comparisons
	// are never deferred.
	Defer bool

	err error
}

// Where returns a condition for v. See ParseCond for the accepted shapes.
func Where(v any) Condition {
	c, err := ParseCond(v)
	return Condition{Input: c, err: err}
}

// Not is like Where, with Negate set.
func Not(v any) Condition {
	c := Where(v)
	c.Negate = true
	return c
}

// Or is like Where, with Disjunct set.
func Or(v any) Condition {
	c := Where(v)
	c.Disjunct = true
	return c
}

// NotOr is like Where, with Negate and Disjunct set.
func NotOr(v any) Condition {
	c := Where(v)
	c.Negate, c.Disjunct = true, true
	return c
}

// Deferred returns a copy of c that emits placeholders.
func (c Condition) Deferred() Condition {
	c.Defer = true
	return c
}

// grouped reports whether the condition must be wrapped in parentheses
// when joined with its siblings.
func (c Condition) grouped() bool { return c.Disjunct }

// Compile returns the SQL fragment of the condition.
func (c Condition) Compile() (*Fragment, error) {
	if c.err != nil {
		return nil, c.err
	}
	switch in := c.Input.(type) {
	case nil:
		return nil, sqlgen.NewMissingInputError("where", "condition")
	case Map:
		return c.compileMap(in)
	case List:
		return compileList(in)
	case RawTemplate:
		return NewFragment(in.Text).Defer(in.Args...), nil
	case Scalar:
		switch v := in.V.(type) {
		case string:
			return NewFragment(v), nil
		case Raw:
			return NewFragment(string(v)), nil
		}
		return nil, sqlgen.NewUnsupportedValueError("where", in.V)
	}
	return nil, sqlgen.NewUnsupportedValueError("where", c.Input)
}

// compileList treats a top-level list as a template followed by its
// arguments.
func compileList(l List) (*Fragment, error) {
	if len(l) == 0 {
		return nil, sqlgen.NewMissingInputError("where", "template")
	}
	text, ok := l[0].(string)
	if !ok {
		return nil, sqlgen.NewUnsupportedValueError("template", l[0])
	}
	if err := checkList(l[1:]); err != nil {
		return nil, err
	}
	return NewFragment(text).Defer(l[1:]...), nil
}

func (c Condition) compileMap(m Map) (*Fragment, error) {
	if len(m) == 0 {
		return nil, sqlgen.NewMissingInputError("where", "condition")
	}
	sep := " AND "
	if c.Disjunct {
		sep = " OR "
	}
	f := &Fragment{}
	for i, p := range m {
		if i > 0 {
			f.WriteString(sep)
		}
		f.WriteString(p.Column).WriteString(" ")
		if err := c.compare(f, p.Value); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// compare writes the comparison of one map value.
func (c Condition) compare(f *Fragment, v Cond) error {
	switch v := v.(type) {
	case List:
		if c.Negate {
			f.WriteString("NOT IN (")
		} else {
			f.WriteString("IN (")
		}
		for i, e := range v {
			if i > 0 {
				f.WriteString(",")
			}
			if err := c.value(f, e, "list element"); err != nil {
				return err
			}
		}
		f.WriteString(")")
	case Scalar:
		if v.V == nil {
			if c.Negate {
				f.WriteString("IS NOT NULL")
			} else {
				f.WriteString("IS NULL")
			}
			return nil
		}
		if c.Negate {
			f.WriteString("!= ")
		} else {
			f.WriteString("= ")
		}
		return c.value(f, v.V, "map value")
	default:
		return sqlgen.NewUnsupportedValueError("map value", v)
	}
	return nil
}

// value writes v inline, or as a placeholder in defer mode. It is
// stringified in both modes so invalid values fail at compile time.
func (c Condition) value(f *Fragment, v any, context string) error {
	s, err := Stringify(v)
	if err != nil {
		return sqlgen.NewUnsupportedValueError(context, v)
	}
	if c.Defer {
		f.Arg(v)
	} else {
		f.literal(s)
	}
	return nil
}
