package schema

import (
	"regexp"
	"strings"
)

// Snake-casing splits lowercase-to-uppercase boundaries and acronym tails,
// matching the original export tooling's renaming.
var (
	snakeBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	snakeTail     = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToSnake converts a camelCase field name to snake_case.
func CamelToSnake(name string) string {
	s := snakeBoundary.ReplaceAllString(name, `${1}_${2}`)
	s = snakeTail.ReplaceAllString(s, `${1}_${2}`)
	return strings.ToLower(s)
}

// columnName maps a source field to its rendered column name. Without
// snake-casing the field name is kept verbatim; renderers quote identifiers,
// so mixed case and leading underscores are safe.
func columnName(field string, snake bool) string {
	if !snake {
		return field
	}
	switch field {
	case "_id":
		return "id"
	case "_creationTime":
		return "creation_time"
	}
	return CamelToSnake(strings.TrimPrefix(field, "_"))
}
