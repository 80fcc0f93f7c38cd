package store

import (
	"strconv"
	"strings"
)

// likeEscaper neutralizes LIKE/ILIKE metacharacters in user-supplied
// search input so a search for "100%" matches the literal text.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// inClause appends a parenthesized placeholder list to prefix and returns
// the query plus its args. database/sql has no portable array binding, so
// IN lists are expanded to numbered placeholders.
func inClause[T any](prefix string, values []T) (string, []any) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('(')

	args := make([]any, 0, len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(i + 1))
		args = append(args, v)
	}
	b.WriteByte(')')
	return b.String(), args
}
