package sql

import (
	"strings"

	"github.com/syssam/sqlgen"
	"github.com/syssam/sqlgen/dialect"
)

// Fragment accumulates SQL text together with an optional, ordered list of
// deferred values. Every placeholder in the text is bound to the next
// deferred value when the fragment is rendered. Placeholders are the '?'
// written by Arg, and the '?' outside single quotes in text written by
// NewFragment or WriteString. Each written string is scanned on its own, so
// an unbalanced quote never hides placeholders written after it.
//
// The zero value is an empty fragment ready to use.
type Fragment struct {
	text []byte
	args []any
	// marks holds the byte offsets of the placeholders in text.
	marks []int
	// deferred marks the list as present. Without it the text renders as is.
	deferred bool
}

// NewFragment returns a fragment holding text and no deferred values.
func NewFragment(text string) *Fragment {
	return (&Fragment{}).WriteString(text)
}

// WriteString appends s to the text.
func (f *Fragment) WriteString(s string) *Fragment {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case '?':
			if !quoted {
				f.marks = append(f.marks, len(f.text)+i)
			}
		}
	}
	f.text = append(f.text, s...)
	return f
}

// literal appends a stringified value. Its content is never scanned for
// placeholders.
func (f *Fragment) literal(s string) *Fragment {
	f.text = append(f.text, s...)
	return f
}

// Arg appends a placeholder to the text and defers v.
func (f *Fragment) Arg(v any) *Fragment {
	f.marks = append(f.marks, len(f.text))
	f.text = append(f.text, '?')
	return f.Defer(v)
}

// Defer appends values to the deferred list without touching the text.
// Calling it with no values does not create the list.
func (f *Fragment) Defer(vs ...any) *Fragment {
	if len(vs) == 0 {
		return f
	}
	f.args = append(f.args, vs...)
	f.deferred = true
	return f
}

// Join appends the text of other and moves its deferred values onto f.
// The values are copied, so later changes to other do not leak into f.
func (f *Fragment) Join(other *Fragment) *Fragment {
	if other == nil {
		return f
	}
	if other.deferred {
		f.args = append(f.args, other.args...)
		f.deferred = true
	}
	for _, m := range other.marks {
		f.marks = append(f.marks, len(f.text)+m)
	}
	f.text = append(f.text, other.text...)
	return f
}

// JoinMany appends frags separated by sep.
func (f *Fragment) JoinMany(frags []*Fragment, sep string) *Fragment {
	for i, other := range frags {
		if i > 0 {
			f.WriteString(sep)
		}
		f.Join(other)
	}
	return f
}

// Empty reports whether f has no text and no deferred list.
func (f *Fragment) Empty() bool {
	return f == nil || (len(f.text) == 0 && !f.deferred)
}

// Text returns the raw text, placeholders included.
func (f *Fragment) Text() string {
	if f == nil {
		return ""
	}
	return string(f.text)
}

// Args returns a copy of the deferred values.
func (f *Fragment) Args() []any {
	if f == nil || !f.deferred {
		return nil
	}
	args := make([]any, len(f.args))
	copy(args, f.args)
	return args
}

// Deferred reports whether f carries a deferred list.
func (f *Fragment) Deferred() bool {
	return f != nil && f.deferred
}

// Clone returns a deep copy of f.
func (f *Fragment) Clone() *Fragment {
	if f == nil {
		return nil
	}
	c := &Fragment{deferred: f.deferred}
	c.text = append(c.text, f.text...)
	c.marks = append(c.marks, f.marks...)
	if f.args != nil {
		c.args = make([]any, len(f.args))
		copy(c.args, f.args)
	}
	return c
}

// Render returns the literal SQL: each placeholder is replaced by the
// stringified form of its deferred value. A fragment without a deferred
// list is returned unchanged. A count mismatch returns a
// *sqlgen.ParamCountError carrying the text rendered so far.
func (f *Fragment) Render() (string, error) {
	if f == nil {
		return "", nil
	}
	if !f.deferred {
		return string(f.text), nil
	}
	var (
		b     strings.Builder
		used  int
		total int
	)
	b.Grow(len(f.text) + 8*len(f.args))
	err := scan(f, func(chunk []byte, placeholder bool) error {
		if !placeholder {
			b.Write(chunk)
			return nil
		}
		total++
		if used >= len(f.args) {
			b.WriteByte('?')
			return nil
		}
		s, err := Stringify(f.args[used])
		if err != nil {
			return err
		}
		used++
		b.WriteString(s)
		return nil
	})
	if err != nil {
		return "", err
	}
	if total != len(f.args) {
		return "", sqlgen.NewParamCountError(len(f.args), total, b.String())
	}
	return b.String(), nil
}

// Query returns the text with '?' placeholders and the deferred values, as
// expected by database/sql for MySQL and SQLite.
func (f *Fragment) Query() (string, []any) {
	return f.Text(), f.Args()
}

// QueryDialect is like Query, but rewrites placeholders into the bind
// markers of d, e.g. $1, $2 for Postgres.
func (f *Fragment) QueryDialect(d dialect.Dialect) (string, []any) {
	if d != dialect.Postgres && d != dialect.SQLServer {
		return f.Query()
	}
	if f == nil {
		return "", nil
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(f.text) + 2*len(f.args))
	_ = scan(f, func(chunk []byte, placeholder bool) error {
		if !placeholder {
			b.Write(chunk)
			return nil
		}
		n++
		b.WriteString(d.Placeholder(n))
		return nil
	})
	return b.String(), f.Args()
}

// scan walks the text of f and reports runs of plain text and placeholders.
func scan(f *Fragment, fn func(chunk []byte, placeholder bool) error) error {
	start := 0
	for _, m := range f.marks {
		if start < m {
			if err := fn(f.text[start:m], false); err != nil {
				return err
			}
		}
		if err := fn(f.text[m:m+1], true); err != nil {
			return err
		}
		start = m + 1
	}
	if start < len(f.text) {
		return fn(f.text[start:], false)
	}
	return nil
}

// render is shared by the statement builders' terminal helpers.
func render(f *Fragment, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return f.Render()
}

func query(f *Fragment, err error) (string, []any, error) {
	if err != nil {
		return "", nil, err
	}
	text, args := f.Query()
	return text, args, nil
}
