package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors returned by the compilers and assemblers.
var (
	// ErrParamCount is returned when a fragment's deferred values do not
	// match the placeholders in its text at render time.
	ErrParamCount = errors.New("sqlgen: parameter count mismatch")

	// ErrUnsupportedValue is returned when a literal or condition value
	// falls outside the shapes the compiler understands.
	ErrUnsupportedValue = errors.New("sqlgen: unsupported value shape")

	// ErrMissingInput is returned when a statement is assembled without a
	// clause it cannot do without, such as an UPDATE without WHERE.
	ErrMissingInput = errors.New("sqlgen: missing required input")

	// ErrInvalidRange is returned for a range with both bounds unbounded.
	ErrInvalidRange = errors.New("sqlgen: invalid range")

	// ErrUnsupportedDialect is returned for unknown dialect names and for
	// statements a dialect has no syntax for.
	ErrUnsupportedDialect = errors.New("sqlgen: unsupported dialect")
)

// ParamCountError reports a placeholder/deferred-value mismatch.
type ParamCountError struct {
	want    int
	got     int
	partial string
}

// Error returns the error string.
func (e *ParamCountError) Error() string {
	return fmt.Sprintf("sqlgen: prepared sql params count not match (placeholders=%d, values=%d): %s", e.got, e.want, e.partial)
}

// Is reports whether the target error matches ParamCountError.
func (e *ParamCountError) Is(err error) bool {
	return err == ErrParamCount
}

// Values returns the number of deferred values the fragment carried.
func (e *ParamCountError) Values() int { return e.want }

// Placeholders returns the number of placeholders found in the text.
func (e *ParamCountError) Placeholders() int { return e.got }

// Partial returns the text rendered up to the point of failure.
func (e *ParamCountError) Partial() string { return e.partial }

// NewParamCountError returns a new ParamCountError.
func NewParamCountError(values, placeholders int, partial string) *ParamCountError {
	return &ParamCountError{want: values, got: placeholders, partial: partial}
}

// IsParamCount returns true if the error is a ParamCountError.
func IsParamCount(err error) bool {
	if err == nil {
		return false
	}
	var e *ParamCountError
	return errors.As(err, &e) || errors.Is(err, ErrParamCount)
}

// UnsupportedValueError carries the value the compiler refused.
type UnsupportedValueError struct {
	value   any
	context string
}

// Error returns the error string.
func (e *UnsupportedValueError) Error() string {
	if e.context != "" {
		return fmt.Sprintf("sqlgen: %s: unsupported value %#v (%T)", e.context, e.value, e.value)
	}
	return fmt.Sprintf("sqlgen: unsupported value %#v (%T)", e.value, e.value)
}

// Is reports whether the target error matches UnsupportedValueError.
func (e *UnsupportedValueError) Is(err error) bool {
	return err == ErrUnsupportedValue
}

// Value returns the offending value.
func (e *UnsupportedValueError) Value() any { return e.value }

// Context returns where the value was found, e.g. "where" or "in list".
func (e *UnsupportedValueError) Context() string { return e.context }

// NewUnsupportedValueError returns a new UnsupportedValueError.
func NewUnsupportedValueError(context string, value any) *UnsupportedValueError {
	return &UnsupportedValueError{value: value, context: context}
}

// IsUnsupportedValue returns true if the error is an UnsupportedValueError.
func IsUnsupportedValue(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedValueError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedValue)
}

// MissingInputError reports a statement assembled without a required clause.
type MissingInputError struct {
	statement string
	clause    string
}

// Error returns the error string.
func (e *MissingInputError) Error() string {
	var sb strings.Builder
	sb.WriteString("sqlgen: ")
	sb.WriteString(e.statement)
	if e.clause != "" {
		sb.WriteString(": missing ")
		sb.WriteString(e.clause)
	} else {
		sb.WriteString(": missing input")
	}
	return sb.String()
}

// Is reports whether the target error matches MissingInputError.
func (e *MissingInputError) Is(err error) bool {
	return err == ErrMissingInput
}

// Statement returns the statement kind, e.g. "update".
func (e *MissingInputError) Statement() string { return e.statement }

// Clause returns the missing clause, e.g. "where".
func (e *MissingInputError) Clause() string { return e.clause }

// NewMissingInputError returns a new MissingInputError.
func NewMissingInputError(statement, clause string) *MissingInputError {
	return &MissingInputError{statement: statement, clause: clause}
}

// IsMissingInput returns true if the error is a MissingInputError.
func IsMissingInput(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingInputError
	return errors.As(err, &e) || errors.Is(err, ErrMissingInput)
}

// RangeError reports a range that cannot be compiled.
type RangeError struct {
	column string
}

// Error returns the error string.
func (e *RangeError) Error() string {
	return fmt.Sprintf("sqlgen: range on %q has no bounds", e.column)
}

// Is reports whether the target error matches RangeError.
func (e *RangeError) Is(err error) bool {
	return err == ErrInvalidRange
}

// Column returns the column of the range.
func (e *RangeError) Column() string { return e.column }

// NewRangeError returns a new RangeError.
func NewRangeError(column string) *RangeError {
	return &RangeError{column: column}
}

// IsInvalidRange returns true if the error is a RangeError.
func IsInvalidRange(err error) bool {
	if err == nil {
		return false
	}
	var e *RangeError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidRange)
}

// UnsupportedDialectError reports an unknown dialect or a statement the
// dialect has no syntax for.
type UnsupportedDialectError struct {
	dialect string
	feature string
}

// Error returns the error string.
func (e *UnsupportedDialectError) Error() string {
	if e.feature != "" {
		return fmt.Sprintf("sqlgen: dialect %q does not support %s", e.dialect, e.feature)
	}
	return fmt.Sprintf("sqlgen: unsupported dialect %q", e.dialect)
}

// Is reports whether the target error matches UnsupportedDialectError.
func (e *UnsupportedDialectError) Is(err error) bool {
	return err == ErrUnsupportedDialect
}

// Dialect returns the dialect name.
func (e *UnsupportedDialectError) Dialect() string { return e.dialect }

// Feature returns the unsupported feature, or "" for unknown dialects.
func (e *UnsupportedDialectError) Feature() string { return e.feature }

// NewUnsupportedDialectError returns a new UnsupportedDialectError.
func NewUnsupportedDialectError(dialect, feature string) *UnsupportedDialectError {
	return &UnsupportedDialectError{dialect: dialect, feature: feature}
}

// IsUnsupportedDialect returns true if the error is an UnsupportedDialectError.
func IsUnsupportedDialect(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedDialectError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedDialect)
}
