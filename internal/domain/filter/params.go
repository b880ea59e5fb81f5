package filter

import (
	"net/url"
	"strings"

	"crudcenter/internal/core/apperror"
)

// OperatorSeparator joins a field and an operator in query parameter names.
const OperatorSeparator = "__"

// ParseQuery binds `field__op=value` parameters onto Values. A bare
// `field=value` means eq. Parameters that name no schema field are left for
// the paging and search layers.
func (s *Schema) ParseQuery(q url.Values) (Values, error) {
	values := Values{}

	for key, raw := range q {
		if len(raw) == 0 {
			continue
		}
		name, token, hasOp := strings.Cut(key, OperatorSeparator)
		f, ok := s.Field(name)
		if !ok {
			continue
		}

		op := Eq
		if hasOp {
			op = Operator(token)
		}
		if !f.Allows(op) {
			return nil, apperror.NewValidation("operator not allowed for field").
				WithDetail("field", name).
				WithDetail("operator", token)
		}

		if op == In {
			items := make([]string, 0, len(raw))
			for _, r := range raw {
				for _, p := range strings.Split(r, ",") {
					if p = strings.TrimSpace(p); p != "" {
						items = append(items, p)
					}
				}
			}
			values.Set(name, op, items)
			continue
		}
		values.Set(name, op, raw[len(raw)-1])
	}

	return values, nil
}
