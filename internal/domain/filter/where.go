package filter

import (
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"

	"crudcenter/internal/core/apperror"
)

// Clause is one resolved comparison. Value is nil only for null checks;
// for In it is a []any of coerced members.
type Clause struct {
	Field    string
	Column   string
	Type     FieldType
	Operator Operator
	Value    any
}

// Where is the resolved predicate of one request: filter clauses plus an
// optional search group. The zero value matches every row.
type Where struct {
	clauses []Clause
	search  Search
	prefix  string
}

// Resolve validates values against the schema and produces the predicate.
// Clauses follow field declaration order, then operator declaration order.
func (s *Schema) Resolve(values Values) (Where, error) {
	if err := s.checkNames(values); err != nil {
		return Where{}, err
	}

	var clauses []Clause
	for _, f := range s.fields {
		ops := values[f.Name]
		if len(ops) == 0 {
			continue
		}
		for _, op := range f.Operators {
			raw, ok := ops[op]
			if !ok || raw == nil {
				continue
			}

			c := Clause{Field: f.Name, Column: f.ColumnName(), Type: f.Type, Operator: op}
			if op.IsNullCheck() {
				flag, ok := toBool(raw)
				if !ok {
					return Where{}, apperror.NewInvalidFilterValue(f.Name, string(op), raw)
				}
				// isnull=false means "is not null" and vice versa
				if !flag {
					c.Operator = op.negate()
				}
			} else {
				v, err := coerce(f, op, raw)
				if err != nil {
					return Where{}, err
				}
				c.Value = v
			}
			clauses = append(clauses, c)
		}
	}

	return Where{clauses: clauses}, nil
}

// checkNames rejects fields and operators the schema does not declare.
// Names are checked in sorted order so the reported error is stable.
func (s *Schema) checkNames(values Values) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, ok := s.Field(name)
		if !ok {
			return apperror.NewValidation("unknown filter field").
				WithDetail("schema", s.name).
				WithDetail("field", name)
		}
		for op := range values[name] {
			if !f.Allows(op) {
				return apperror.NewValidation("operator not allowed for field").
					WithDetail("field", name).
					WithDetail("operator", string(op))
			}
		}
	}
	return nil
}

// NewWhere builds a predicate from already-resolved clauses.
func NewWhere(clauses ...Clause) Where {
	out := make([]Clause, len(clauses))
	copy(out, clauses)
	return Where{clauses: out}
}

// And appends clauses after the resolved ones.
func (w Where) And(clauses ...Clause) Where {
	merged := make([]Clause, 0, len(w.clauses)+len(clauses))
	merged = append(merged, w.clauses...)
	w.clauses = append(merged, clauses...)
	return w
}

// Clauses returns a copy of the filter clauses.
func (w Where) Clauses() []Clause {
	out := make([]Clause, len(w.clauses))
	copy(out, w.clauses)
	return out
}

// WithPrefix qualifies every column with a table alias.
func (w Where) WithPrefix(alias string) Where {
	w.prefix = alias
	return w
}

// WithSearch ANDs a search group onto the predicate.
func (w Where) WithSearch(s Search) Where {
	w.search = s
	return w
}

// Search returns the attached search group.
func (w Where) Search() Search { return w.search }

// IsEmpty reports whether the predicate matches every row.
func (w Where) IsEmpty() bool {
	return len(w.clauses) == 0 && w.search.IsEmpty()
}

// Literal renders the predicate with inlined values: "WHERE 1=1" when empty,
// otherwise "WHERE c1 AND c2 ...".
func (w Where) Literal() (string, error) {
	pred, err := w.LiteralPredicate()
	if err != nil {
		return "", err
	}
	return "WHERE " + pred, nil
}

// LiteralPredicate is Literal without the WHERE keyword.
func (w Where) LiteralPredicate() (string, error) {
	parts := make([]string, 0, len(w.clauses)+1)
	for _, c := range w.clauses {
		s, err := c.literal(w.prefix)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if !w.search.IsEmpty() {
		s, err := w.search.literal(w.prefix)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "1=1", nil
	}
	return strings.Join(parts, " AND "), nil
}

// ToSql implements squirrel.Sqlizer. Values are bound as "?" placeholders;
// the enclosing builder rewrites them for the target dialect.
func (w Where) ToSql() (string, []any, error) {
	parts := make([]squirrel.Sqlizer, 0, len(w.clauses)+1)
	for _, c := range w.clauses {
		parts = append(parts, c.sqlizer(w.prefix))
	}
	if !w.search.IsEmpty() {
		parts = append(parts, w.search.sqlizer(w.prefix))
	}
	if len(parts) == 0 {
		return "1=1", nil, nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	for i, p := range parts {
		sql, a, err := p.ToSql()
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(sql)
		args = append(args, a...)
	}
	return sb.String(), args, nil
}

func qualify(prefix, column string) string {
	if prefix == "" {
		return column
	}
	return prefix + "." + column
}

// quote wraps text in single quotes, refusing anything that could end the literal.
func quote(field, text string) (string, error) {
	if strings.ContainsAny(text, `'\`) {
		return "", apperror.NewUnsafeValue(field, text)
	}
	return "'" + text + "'", nil
}

func (c Clause) literal(prefix string) (string, error) {
	col := qualify(prefix, c.Column)

	switch c.Operator {
	case IsNull:
		return col + " is null", nil
	case IsNotNull:
		return col + " is not null", nil
	case In:
		items, _ := c.Value.([]any)
		quoted := make([]string, 0, len(items))
		for _, item := range items {
			q, err := quote(c.Field, literalText(item))
			if err != nil {
				return "", err
			}
			quoted = append(quoted, q)
		}
		return col + " in (" + strings.Join(quoted, ",") + ")", nil
	}

	if c.Type == Boolean {
		return col + " " + c.Operator.symbol() + " " + literalText(c.Value), nil
	}

	text := literalText(c.Value)
	switch c.Operator {
	case Like, NotLike, LeftLike, RightLike:
		pattern, err := quote(c.Field, likePattern(c.Operator, text))
		if err != nil {
			return "", err
		}
		if c.Operator == NotLike {
			return col + " not like " + pattern, nil
		}
		return col + " like " + pattern, nil
	}

	q, err := quote(c.Field, text)
	if err != nil {
		return "", err
	}
	return col + " " + c.Operator.symbol() + " " + q, nil
}

func (c Clause) sqlizer(prefix string) squirrel.Sqlizer {
	col := qualify(prefix, c.Column)

	switch c.Operator {
	case IsNull:
		return squirrel.Eq{col: nil}
	case IsNotNull:
		return squirrel.NotEq{col: nil}
	case In:
		return squirrel.Eq{col: c.Value}
	case Neq:
		return squirrel.NotEq{col: c.Value}
	case Gt:
		return squirrel.Gt{col: c.Value}
	case Gte:
		return squirrel.GtOrEq{col: c.Value}
	case Lt:
		return squirrel.Lt{col: c.Value}
	case Lte:
		return squirrel.LtOrEq{col: c.Value}
	case Like, LeftLike, RightLike:
		return squirrel.Like{col: likePattern(c.Operator, literalText(c.Value))}
	case NotLike:
		return squirrel.NotLike{col: likePattern(c.Operator, literalText(c.Value))}
	default:
		return squirrel.Eq{col: c.Value}
	}
}

func likePattern(op Operator, text string) string {
	switch op {
	case LeftLike:
		return text + "%"
	case RightLike:
		return "%" + text
	default:
		return "%" + text + "%"
	}
}
