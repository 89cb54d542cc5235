package sql

import (
	"github.com/syssam/sqlgen"
)

type boundKind uint8

const (
	unbounded boundKind = iota
	inclusive
	exclusive
)

// Bound is one end of a Range. The zero value is unbounded.
type Bound struct {
	kind  boundKind
	value any
}

// Unbounded returns an open end.
func Unbounded() Bound { return Bound{} }

// Inclusive returns a bound that includes v.
func Inclusive(v any) Bound { return Bound{kind: inclusive, value: v} }

// Exclusive returns a bound that excludes v.
func Exclusive(v any) Bound { return Bound{kind: exclusive, value: v} }

// Range restricts a column between two bounds.
type Range struct {
	Column       string
	Lower, Upper Bound
	// Defer emits placeholders for the bound values.
	Defer bool
}

// Between returns the closed range [lo, hi] on column.
func Between(column string, lo, hi any) Range {
	return Range{Column: column, Lower: Inclusive(lo), Upper: Inclusive(hi)}
}

// HalfOpen returns the range [lo, hi) on column.
func HalfOpen(column string, lo, hi any) Range {
	return Range{Column: column, Lower: Inclusive(lo), Upper: Exclusive(hi)}
}

// Deferred returns a copy of r that emits placeholders.
func (r Range) Deferred() Range {
	r.Defer = true
	return r
}

// Compile returns the comparison for the range. Both bounds unbounded is
// an *sqlgen.RangeError.
//
//	[a, ∞)  col >= a
//	(a, b]  col > a AND col <= b
//	[a, b]  col BETWEEN a AND b
func (r Range) Compile() (*Fragment, error) {
	f := &Fragment{}
	lower, upper := r.Lower, r.Upper
	switch {
	case lower.kind == unbounded && upper.kind == unbounded:
		return nil, sqlgen.NewRangeError(r.Column)
	case lower.kind == inclusive && upper.kind == inclusive:
		f.WriteString(r.Column).WriteString(" BETWEEN ")
		if err := r.bound(f, lower.value); err != nil {
			return nil, err
		}
		f.WriteString(" AND ")
		if err := r.bound(f, upper.value); err != nil {
			return nil, err
		}
		return f, nil
	}
	if lower.kind != unbounded {
		op := " >= "
		if lower.kind == exclusive {
			op = " > "
		}
		f.WriteString(r.Column).WriteString(op)
		if err := r.bound(f, lower.value); err != nil {
			return nil, err
		}
	}
	if upper.kind != unbounded {
		if lower.kind != unbounded {
			f.WriteString(" AND ")
		}
		op := " <= "
		if upper.kind == exclusive {
			op = " < "
		}
		f.WriteString(r.Column).WriteString(op)
		if err := r.bound(f, upper.value); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r Range) bound(f *Fragment, v any) error {
	s, err := Stringify(v)
	if err != nil {
		return sqlgen.NewUnsupportedValueError("range bound", v)
	}
	if r.Defer {
		f.Arg(v)
	} else {
		f.literal(s)
	}
	return nil
}
