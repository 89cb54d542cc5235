package sql

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/sqlgen"
)

// Raw is a literal that renders verbatim, such as an identifier or an
// expression like CURRENT_TIMESTAMP.
type Raw string

// TimeLayout is the layout used to render time.Time literals.
const TimeLayout = "2006-01-02 15:04:05"

// Stringify returns the SQL literal form of v.
//
// Strings are single-quoted without escaping, so embedded quotes are the
// caller's responsibility. Booleans render as 1 and 0, nil as null and
// numbers in their shortest decimal form. Lists, maps and structs are
// rejected with an *sqlgen.UnsupportedValueError.
func Stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case Raw:
		return string(v), nil
	case string:
		return quote(v), nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'", nil
	case time.Time:
		layout := TimeLayout
		if v.Nanosecond() != 0 {
			layout += ".999999"
		}
		return quote(v.Format(layout)), nil
	case uuid.UUID:
		return quote(v.String()), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("sql: stringify %T: %w", v, err)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return "", sqlgen.NewUnsupportedValueError("literal", v)
		}
		return Stringify(dv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "null", nil
		}
		return Stringify(rv.Elem().Interface())
	case reflect.String:
		return quote(rv.String()), nil
	case reflect.Bool:
		return Stringify(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return quote(s.String()), nil
	}
	return "", sqlgen.NewUnsupportedValueError("literal", v)
}

// scalar reports whether v is a value Stringify accepts.
func scalar(v any) bool {
	_, err := Stringify(v)
	return err == nil
}

func quote(s string) string {
	return "'" + s + "'"
}
