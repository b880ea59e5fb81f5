package filter

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Search expands one free-text term into an OR group of "contains" predicates
// over allow-listed columns.
type Search struct {
	Term   string
	Fields []string

	foldCase bool
}

// NewSearch trims the term. Fields must come from a trusted declaration.
func NewSearch(term string, fields ...string) Search {
	return Search{Term: strings.TrimSpace(term), Fields: fields}
}

// CaseInsensitive makes the bound form use ILIKE.
func (s Search) CaseInsensitive(fold bool) Search {
	s.foldCase = fold
	return s
}

// IsEmpty reports whether the search contributes nothing.
func (s Search) IsEmpty() bool {
	return s.Term == "" || len(s.Fields) == 0
}

func (s Search) literal(prefix string) (string, error) {
	pattern, err := quote("search", "%"+s.Term+"%")
	if err != nil {
		return "", err
	}
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = qualify(prefix, f) + " like " + pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func (s Search) sqlizer(prefix string) squirrel.Sqlizer {
	pattern := "%" + s.Term + "%"
	group := make(squirrel.Or, len(s.Fields))
	for i, f := range s.Fields {
		col := qualify(prefix, f)
		if s.foldCase {
			group[i] = squirrel.ILike{col: pattern}
		} else {
			group[i] = squirrel.Like{col: pattern}
		}
	}
	return group
}
