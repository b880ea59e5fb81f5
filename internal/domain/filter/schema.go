package filter

import (
	"fmt"
	"regexp"

	"crudcenter/internal/core/apperror"
)

var (
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// Field declares one filterable field.
type Field struct {
	// Name is the public filter name used in Values and query parameters.
	Name string
	Type FieldType
	// Operators in declaration order. Empty means every operator legal for Type.
	Operators []Operator
	// Column is the physical column. Defaults to Name.
	Column string
	// EnumValues lists the members of an Enum field.
	EnumValues []string
}

// ColumnName returns the physical column for the field.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Allows reports whether the field declares op.
func (f Field) Allows(op Operator) bool {
	for _, o := range f.Operators {
		if o == op {
			return true
		}
	}
	return false
}

func (f Field) isMember(v string) bool {
	for _, m := range f.EnumValues {
		if m == v {
			return true
		}
	}
	return false
}

// Schema is an ordered, immutable set of filterable fields.
// It is built once at startup and shared by all requests.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema validates the field declarations. Every problem is a SCHEMA_ERROR.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if err := validateField(&f); err != nil {
			return nil, err.WithDetail("schema", name)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, apperror.NewSchema("duplicate filter field").
				WithDetail("schema", name).
				WithDetail("field", f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustSchema is NewSchema for package-level declarations; it panics on error.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(fmt.Sprintf("filter schema %q: %v", name, err))
	}
	return s
}

func validateField(f *Field) *apperror.AppError {
	if !identPattern.MatchString(f.Name) {
		return apperror.NewSchema("invalid filter field name").WithDetail("field", f.Name)
	}
	if !f.Type.Valid() {
		return apperror.NewSchema("unknown field type").
			WithDetail("field", f.Name).
			WithDetail("type", string(f.Type))
	}
	if f.Column != "" && !columnPattern.MatchString(f.Column) {
		return apperror.NewSchema("invalid column name").
			WithDetail("field", f.Name).
			WithDetail("column", f.Column)
	}
	if f.Type == Enum && len(f.EnumValues) == 0 {
		return apperror.NewSchema("enum field declares no members").WithDetail("field", f.Name)
	}

	if len(f.Operators) == 0 {
		f.Operators = AllowedOperators(f.Type)
		return nil
	}

	seen := make(map[Operator]struct{}, len(f.Operators))
	ops := make([]Operator, 0, len(f.Operators))
	for _, op := range f.Operators {
		if !f.Type.Allows(op) {
			return apperror.NewSchema("operator not allowed for field type").
				WithDetail("field", f.Name).
				WithDetail("type", string(f.Type)).
				WithDetail("operator", string(op))
		}
		if _, dup := seen[op]; dup {
			return apperror.NewSchema("duplicate operator").
				WithDetail("field", f.Name).
				WithDetail("operator", string(op))
		}
		seen[op] = struct{}{}
		ops = append(ops, op)
	}
	f.Operators = ops
	return nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by its public name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
