package ascender_test

import (
	"github.com/itassets/identity-sync/internal/ascender"
)

// row builds a raw feed row with the given columns set and everything else NULL.
func row(set map[string]any) []any {
	values := make([]any, len(ascender.Columns))

	for i, c := range ascender.Columns {
		if v, ok := set[c.Name]; ok {
			values[i] = v
		}
	}

	return values
}
