package sqlgen

import (
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
)

// rules is shared by all naming helpers. The default ruleset is only
// read after initialization.
var rules = inflect.NewDefaultRuleset()

// Tabler is implemented by types that choose their own table name.
type Tabler interface {
	TableName() string
}

// TableName derives the table name of v. Types implementing Tabler return
// their own name. Otherwise the Go type name is converted to snake_case and
// pluralized:
//
//	TableName(User{})         // "users"
//	TableName(&UserProfile{}) // "user_profiles"
//	TableName("Category")     // "categories"
func TableName(v any) string {
	switch v := v.(type) {
	case Tabler:
		return v.TableName()
	case string:
		return Plural(Snake(v))
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	// Generic instantiations carry their type arguments in the name.
	name, _, _ := strings.Cut(t.Name(), "[")
	return Plural(Snake(name))
}

// Plural returns the plural form of a snake_case noun.
func Plural(s string) string {
	if s == "" {
		return ""
	}
	return rules.Pluralize(s)
}

// Snake converts a Go identifier to snake_case.
func Snake(s string) string {
	if s == "" {
		return ""
	}
	return rules.Underscore(s)
}
