package paging

import (
	"sort"
	"strings"

	"crudcenter/internal/core/apperror"
)

// Mode decides what happens to order tokens or fields outside an allow-list.
type Mode int

const (
	// Lenient drops unknown names.
	Lenient Mode = iota
	// Strict rejects the request.
	Strict
)

// ModeFor maps a strictness flag to a Mode.
func ModeFor(strict bool) Mode {
	if strict {
		return Strict
	}
	return Lenient
}

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Field string
	Desc  bool
}

// Token returns the term in `field` / `-field` form.
func (t OrderTerm) Token() string {
	if t.Desc {
		return "-" + t.Field
	}
	return t.Field
}

// SQL renders the term, optionally qualified by a table alias.
func (t OrderTerm) SQL(prefix string) string {
	col := t.Field
	if prefix != "" {
		col = prefix + "." + col
	}
	if t.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// OrderSpec is an ordered list of terms.
type OrderSpec []OrderTerm

// Tokens returns the spec in token form.
func (o OrderSpec) Tokens() []string {
	out := make([]string, len(o))
	for i, t := range o {
		out[i] = t.Token()
	}
	return out
}

// Clauses returns the ORDER BY expressions.
func (o OrderSpec) Clauses(prefix string) []string {
	out := make([]string, len(o))
	for i, t := range o {
		out[i] = t.SQL(prefix)
	}
	return out
}

// ResolveOrder validates order tokens against the allow-list.
// Input order is kept; a field named twice keeps its first direction.
func ResolveOrder(tokens, allowed []string, mode Mode) (OrderSpec, error) {
	allow := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allow[f] = struct{}{}
	}

	spec := make(OrderSpec, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		term, ok := parseToken(token)
		if ok {
			_, ok = allow[term.Field]
		}
		if !ok {
			if mode == Strict {
				return nil, apperror.NewUnknownOrderField(token)
			}
			continue
		}
		if _, dup := seen[term.Field]; dup {
			continue
		}
		seen[term.Field] = struct{}{}
		spec = append(spec, term)
	}
	return spec, nil
}

func parseToken(token string) (OrderTerm, bool) {
	token = strings.TrimSpace(token)
	term := OrderTerm{Field: token}
	switch {
	case strings.HasPrefix(token, "-"):
		term = OrderTerm{Field: strings.TrimSpace(token[1:]), Desc: true}
	case strings.HasPrefix(token, "+"):
		term.Field = strings.TrimSpace(token[1:])
	}
	return term, term.Field != ""
}

// SortedTokens flattens a token set into lexical order, for callers holding sets.
func SortedTokens(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SplitTokens splits comma-separated parameter values, dropping blanks.
func SplitTokens(raw ...string) []string {
	var out []string
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
