// Package filter turns a declarative field schema and per-request filter values
// into SQL predicates.
//
// Only identifiers declared in a Schema ever reach the SQL text. Values are either
// bound as placeholders (ToSql) or, for executors without parameter binding,
// rendered as quoted literals (Literal) after an unsafe-character check.
package filter

// FieldType is the logical type of a filterable field.
type FieldType string

const (
	String   FieldType = "string"
	Integer  FieldType = "integer"
	Decimal  FieldType = "decimal"
	Boolean  FieldType = "boolean"
	DateTime FieldType = "datetime"
	Enum     FieldType = "enum"
	UUID     FieldType = "uuid"
)

// Operator is a comparison token, as used in `field__op=value` query parameters.
type Operator string

const (
	Gt        Operator = "gt"
	Gte       Operator = "gte"
	Lt        Operator = "lt"
	Lte       Operator = "lte"
	Eq        Operator = "eq"
	Neq       Operator = "neq"
	IsNull    Operator = "isnull"
	IsNotNull Operator = "isnotnull"
	In        Operator = "in"
	Like      Operator = "like"
	NotLike   Operator = "not_like"
	LeftLike  Operator = "left_like"
	RightLike Operator = "right_like"
)

var (
	rangeOperators  = []Operator{Gt, Gte, Lt, Lte, Eq, Neq, IsNull, IsNotNull}
	stringOperators = []Operator{Eq, Neq, Like, NotLike, LeftLike, RightLike, In, IsNull, IsNotNull}
	memberOperators = []Operator{Eq, Neq, In, IsNull, IsNotNull}
)

// allowedOperators is the legal operator set per type, in default declaration order.
var allowedOperators = map[FieldType][]Operator{
	Integer:  rangeOperators,
	Decimal:  rangeOperators,
	DateTime: rangeOperators,
	String:   stringOperators,
	Boolean:  {Eq, IsNull, IsNotNull},
	Enum:     memberOperators,
	UUID:     memberOperators,
}

// AllowedOperators returns the operators a field of type t may declare.
func AllowedOperators(t FieldType) []Operator {
	ops := allowedOperators[t]
	out := make([]Operator, len(ops))
	copy(out, ops)
	return out
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	_, ok := allowedOperators[t]
	return ok
}

// Allows reports whether op is legal for fields of type t.
func (t FieldType) Allows(op Operator) bool {
	for _, o := range allowedOperators[t] {
		if o == op {
			return true
		}
	}
	return false
}

// IsNullCheck reports whether op is isnull or isnotnull.
func (op Operator) IsNullCheck() bool {
	return op == IsNull || op == IsNotNull
}

// negate flips a null-check operator.
func (op Operator) negate() Operator {
	if op == IsNull {
		return IsNotNull
	}
	return IsNull
}

// symbol is the SQL comparison operator for ordered and equality comparisons.
func (op Operator) symbol() string {
	switch op {
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Neq:
		return "<>"
	default:
		return "="
	}
}
