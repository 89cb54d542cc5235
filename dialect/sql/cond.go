package sql

import (
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlgen"
)

// Cond is the input of the condition compiler. It is implemented by
// Scalar, List, Map and RawTemplate only.
type Cond interface {
	cond()
}

type (
	// Scalar is a single literal. At the top level a string Scalar is
	// raw SQL; as a map value it is compared with = or !=.
	Scalar struct{ V any }

	// List is an ordered set of literals. As a map value it compiles to
	// IN (...). At the top level its first element is a template and the
	// rest are deferred arguments.
	List []any

	// Map is an ordered set of column comparisons.
	Map []Pair

	// Pair is a Map entry.
	Pair struct {
		Column string
		Value  Cond
	}

	// RawTemplate is SQL text with '?' markers bound to Args in order.
	// Args are always deferred.
	RawTemplate struct {
		Text string
		Args []any
	}
)

func (Scalar) cond()      {}
func (List) cond()        {}
func (Map) cond()         {}
func (RawTemplate) cond() {}

// Null is the Scalar that compiles to IS NULL.
var Null = Scalar{}

// Expr returns raw SQL as a condition.
func Expr(text string) Scalar { return Scalar{V: text} }

// Template returns a raw template condition.
func Template(text string, args ...any) RawTemplate {
	return RawTemplate{Text: text, Args: args}
}

// P returns a Map entry. Slices and arrays become a List, other values a
// Scalar, and a Cond is kept as is.
func P(column string, v any) Pair {
	return Pair{Column: column, Value: valueCond(v)}
}

// Columns returns the column names of m in order.
func (m Map) Columns() []string {
	cols := make([]string, len(m))
	for i, p := range m {
		cols[i] = p.Column
	}
	return cols
}

func valueCond(v any) Cond {
	switch v := v.(type) {
	case Cond:
		return v
	case nil:
		return Null
	case []byte:
		return Scalar{V: v}
	case []any:
		return List(v)
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
		if _, ok := v.(fmt.Stringer); !ok {
			l := make(List, rv.Len())
			for i := range l {
				l[i] = rv.Index(i).Interface()
			}
			return l
		}
	}
	return Scalar{V: v}
}

// ParseCond validates a loosely typed value, typically decoded from YAML
// or JSON, and returns the matching Cond.
//
//   - string: raw SQL
//   - []any and other slices: a template followed by its arguments
//   - map[string]any: a Map with keys in ascending order
//   - *yaml.Node: a Map keeps the document order
//
// Map values may be scalars, nil or flat lists. Nested lists and maps are
// rejected with an *sqlgen.UnsupportedValueError. A nil value yields a nil
// Cond.
func ParseCond(v any) (Cond, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case Cond:
		return v, nil
	case *yaml.Node:
		return parseNode(v)
	case yaml.Node:
		return parseNode(&v)
	case string:
		return Expr(v), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Map, 0, len(keys))
		for _, k := range keys {
			c, err := parseValue(v[k])
			if err != nil {
				return nil, err
			}
			m = append(m, Pair{Column: k, Value: c})
		}
		return m, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		l, ok := valueCond(v).(List)
		if !ok {
			return nil, sqlgen.NewUnsupportedValueError("condition", v)
		}
		if err := checkList(l); err != nil {
			return nil, err
		}
		return l, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, sqlgen.NewUnsupportedValueError("condition", v)
		}
		generic := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			generic[iter.Key().String()] = iter.Value().Interface()
		}
		return ParseCond(generic)
	}
	return nil, sqlgen.NewUnsupportedValueError("condition", v)
}

// parseValue converts a Map value.
func parseValue(v any) (Cond, error) {
	c := valueCond(v)
	switch c := c.(type) {
	case List:
		if err := checkList(c); err != nil {
			return nil, err
		}
	case Scalar:
		if !scalar(c.V) {
			return nil, sqlgen.NewUnsupportedValueError("map value", v)
		}
	default:
		return nil, sqlgen.NewUnsupportedValueError("map value", v)
	}
	return c, nil
}

func checkList(l List) error {
	for _, e := range l {
		if !scalar(e) {
			return sqlgen.NewUnsupportedValueError("list element", e)
		}
	}
	return nil
}

func parseNode(n *yaml.Node) (Cond, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return parseNode(n.Content[0])
	case yaml.AliasNode:
		return parseNode(n.Alias)
	case yaml.MappingNode:
		m := make(Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var v any
			if err := n.Content[i+1].Decode(&v); err != nil {
				return nil, fmt.Errorf("sql: decode %q: %w", n.Content[i].Value, err)
			}
			c, err := parseValue(v)
			if err != nil {
				return nil, err
			}
			m = append(m, Pair{Column: n.Content[i].Value, Value: c})
		}
		return m, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("sql: decode condition: %w", err)
	}
	return ParseCond(v)
}
