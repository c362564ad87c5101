// Package sqlbuild assembles parameterized SQL text for the repositories:
// partial UPDATE statements from sparse field sets and AND-joined WHERE
// clauses from optional listing filters. Only table and column identifiers
// are interpolated; callers pass them from fixed allow-lists. Values always
// bind via numbered placeholders.
package sqlbuild

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kordano/jobly/pkg/apperr"
)

// PartialUpdate builds a single UPDATE statement touching only the columns in
// fields, keyed on keyCol=keyVal. Placeholders are numbered $1..$N with the
// SET values first, in sorted column order so the column→placeholder mapping
// is stable, and the identifying value last.
func PartialUpdate(table string, fields map[string]any, keyCol string, keyVal any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, apperr.Validation("no fields to update")
	}

	cols := make([]string, 0, len(fields))
	for c := range fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s=$%d", c, i+1))
		args = append(args, fields[c])
	}
	args = append(args, keyVal)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d RETURNING *",
		table, strings.Join(sets, ", "), keyCol, len(args))

	return query, args, nil
}

// Filter maps one optional query-string parameter onto a predicate fragment.
type Filter struct {
	Param     string
	Column    string
	Op        string
	Transform func(string) any
}

// Range names a min/max parameter pair that must satisfy min <= max when both
// are present.
type Range struct {
	MinParam string
	MaxParam string
}

// Where builds an AND-joined predicate list from the recognized, non-empty
// values. It returns an empty clause when no filter matches; the caller must
// then fall back to an unfiltered listing. Range violations fail with a
// validation error rather than producing an always-false predicate.
func Where(filters []Filter, ranges []Range, values map[string]string) (string, []any, error) {
	for _, rg := range ranges {
		minRaw, maxRaw := values[rg.MinParam], values[rg.MaxParam]
		if minRaw == "" || maxRaw == "" {
			continue
		}
		minV, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return "", nil, apperr.Validation("invalid %s: %q", rg.MinParam, minRaw)
		}
		maxV, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return "", nil, apperr.Validation("invalid %s: %q", rg.MaxParam, maxRaw)
		}
		if minV > maxV {
			return "", nil, apperr.Validation("%s cannot be greater than %s", rg.MinParam, rg.MaxParam)
		}
	}

	var frags []string
	var args []any
	for _, f := range filters {
		raw, ok := values[f.Param]
		if !ok || raw == "" {
			continue
		}
		var v any = raw
		if f.Transform != nil {
			v = f.Transform(raw)
		}
		args = append(args, v)
		frags = append(frags, fmt.Sprintf("%s %s $%d", f.Column, f.Op, len(args)))
	}

	if len(frags) == 0 {
		return "", nil, nil
	}

	return strings.Join(frags, " AND "), args, nil
}

// Substring lower-cases a raw search term and wraps it for a LIKE match.
func Substring(raw string) any {
	return "%" + strings.ToLower(raw) + "%"
}
