package paging

import (
	"crudcenter/internal/core/apperror"
)

// ResolveFields restricts a requested projection to the allow-list.
// No request, or nothing left after dropping unknown names, selects every allowed field.
func ResolveFields(requested, allowed []string, mode Mode) ([]string, error) {
	allow := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allow[f] = struct{}{}
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, f := range requested {
		if _, ok := allow[f]; !ok {
			if mode == Strict {
				return nil, apperror.NewUnknownSelectField(f)
			}
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	if len(out) == 0 {
		out = append(out, allowed...)
	}
	return out, nil
}
