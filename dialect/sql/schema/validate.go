package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlgen/dialect"
)

// ValidationError is one finding of Validate.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption turns a breaking change from an error into a warning.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropIndex     bool
	allowNullToNotNull bool
}

// AllowDropColumn allows dropping columns without error.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable allows dropping tables without error.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowDropIndex allows dropping indexes without error.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropIndex = true
	}
}

// AllowNullToNotNull allows changing nullable columns to not null.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// Validate inspects the actions of t and reports the ones that may lose
// data or fail on a populated table.
//
//	result := schema.Validate(table, schema.AllowDropIndex())
//	if result.HasErrors() {
//	    return errors.New(result.String())
//	}
func Validate(t *Table, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	switch t.op {
	case dropTable:
		result.report(cfg.allowDropTable, &ValidationError{
			Table:    t.name,
			Message:  "table will be dropped",
			Breaking: true,
		})
	case renameTable:
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.name,
			Message: fmt.Sprintf("table renamed to %q; queries using the old name will fail", t.newName),
		})
	case createTable:
		validateCreate(t, result)
	case alterTable:
		validateAlter(t, cfg, result)
	}
	return result
}

// ValidateAll validates each table and checks that no table is created
// twice.
func ValidateAll(tables []*Table, opts ...ValidateOption) *ValidationResult {
	result := &ValidationResult{}
	created := make(map[string]bool)
	for _, t := range tables {
		if t.op == createTable {
			if created[t.name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Message: "duplicate table name",
				})
			}
			created[t.name] = true
		}
		r := Validate(t, opts...)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
	}
	return result
}

func (r *ValidationResult) report(allowed bool, err *ValidationError) {
	if allowed {
		r.Warnings = append(r.Warnings, err)
	} else {
		r.Errors = append(r.Errors, err)
	}
}

func validateNames(t *Table, result *ValidationResult) {
	for _, c := range t.columns {
		for _, n := range c.Names {
			if n == "" {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Message: fmt.Sprintf("%s with empty column name", c.Action.Kind),
				})
			}
		}
	}
}

func validateCreate(t *Table, result *ValidationResult) {
	validateNames(t, result)
	var (
		names = make(map[string]bool)
		pk    bool
	)
	for _, c := range t.columns {
		if c.Type != nil && c.Type.Attributes().PrimaryKey.Bool() {
			pk = true
		}
		if c.Action.Kind != AddColumn || c.Name() == "" {
			continue
		}
		if names[c.Name()] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Column:  c.Name(),
				Message: "duplicate column name",
			})
		}
		names[c.Name()] = true
	}
	if !pk {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.name,
			Message: "table has no primary key",
		})
	}
}

func validateAlter(t *Table, cfg *validateConfig, result *ValidationResult) {
	validateNames(t, result)
	added := make(map[string]bool)
	for _, c := range t.columns {
		name := c.Name()
		if name == "" {
			continue
		}
		switch c.Action.Kind {
		case AddColumn:
			if added[name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Column:  name,
					Message: "duplicate column name",
				})
			}
			added[name] = true
			if c.Type == nil {
				continue
			}
			if s, ok := c.Type.spec(dialect.MySQL); ok && c.Type.Attributes().Null == False && !s.hasDefault && !s.autoIncrement {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.name,
					Column:  name,
					Message: "new NOT NULL column without default value may fail if table has data",
				})
			}
		case ModifyColumn, ChangeColumn:
			if c.Type != nil && c.Type.Attributes().Null == False {
				result.report(cfg.allowNullToNotNull, &ValidationError{
					Table:    t.name,
					Column:   name,
					Message:  "column set to NOT NULL may fail if it has NULL values",
					Breaking: true,
				})
			}
			if c.Action.Kind == ChangeColumn {
				result.Warnings = append(result.Warnings, renamed(t.name, name, c.Action.NewName))
			}
		case RenameColumn:
			result.Warnings = append(result.Warnings, renamed(t.name, name, c.Action.NewName))
		case DropColumn:
			result.report(cfg.allowDropColumn, &ValidationError{
				Table:    t.name,
				Column:   name,
				Message:  "column will be dropped",
				Breaking: true,
			})
		case DropConstraint:
			result.report(cfg.allowDropIndex, &ValidationError{
				Table:    t.name,
				Message:  fmt.Sprintf("constraint %q will be dropped", constraintName(c)),
				Breaking: true,
			})
		case AddConstraint:
			if c.Type != nil && c.Type.Attributes().Unique.Bool() {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.name,
					Column:  strings.Join(c.Names, ","),
					Message: "adding UNIQUE constraint may fail if duplicate values exist",
				})
			}
		}
	}
}

func renamed(table, from, to string) *ValidationError {
	return &ValidationError{
		Table:   table,
		Column:  from,
		Message: fmt.Sprintf("column renamed to %q; queries using the old name will fail", to),
	}
}

// constraintName returns the name a drop-constraint column removes.
func constraintName(c Column) string {
	if c.Type == nil {
		return c.Name()
	}
	a := c.Type.Attributes()
	switch {
	case a.PrimaryKey.Bool():
		return "pk_on_" + c.Name()
	case a.ForeignKey != nil:
		return a.ForeignKey.resolve(c.Name()).Name
	default:
		return c.Name()
	}
}
