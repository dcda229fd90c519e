package queryir

import (
	"fmt"
	"strings"
)

// ValidationError describes one structural problem in a query.
type ValidationError struct {
	Field   string // Part of the query at fault ("from", "joins[2]", "limit", ...)
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a query for structural problems.
// Returns every problem found; an empty slice means the query can be compiled.
//
// Validate is a pure function with no side effects.
func Validate(q Query) []ValidationError {
	v := &validator{errs: []ValidationError{}}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.add("query", "nil select")
			break
		}
		v.validateSelect(*query)
	case nil:
		v.add("query", "nil query")
	default:
		v.add("query", "unsupported query type %T", q)
	}

	return v.errs
}

// validator accumulates errors during traversal.
type validator struct {
	errs    []ValidationError
	aliases map[string]bool
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validateSelect(sel Select) {
	v.aliases = make(map[string]bool)

	if sel.From.Name == "" {
		v.add("from", "table name is required")
	} else {
		v.aliases[sel.From.Ref()] = true
	}

	for i, j := range sel.Joins {
		field := fmt.Sprintf("joins[%d]", i)
		if j.Table.Name == "" {
			v.add(field, "table name is required")
			continue
		}
		ref := j.Table.Ref()
		if v.aliases[ref] {
			v.add(field, "duplicate table reference %q", ref)
		}
		if j.LeftField == "" || j.RightField == "" {
			v.add(field, "join on %q requires both fields", ref)
		} else {
			// Left side must already be in scope; right side must be the joined table.
			v.checkRef(field, j.LeftField)
			if q, ok := qualifier(j.RightField); ok && q != ref {
				v.add(field, "right field %q does not reference %q", j.RightField, ref)
			}
		}
		v.aliases[ref] = true
	}

	if len(sel.Columns) == 0 {
		v.add("columns", "at least one column is required")
	}
	for i, c := range sel.Columns {
		if c.Field == "" {
			v.add(fmt.Sprintf("columns[%d]", i), "field is required")
			continue
		}
		v.checkRef(fmt.Sprintf("columns[%d]", i), c.Field)
	}

	if sel.Filter != nil {
		v.validatePredicate("filter", sel.Filter)
	}

	for i, o := range sel.OrderBy {
		if o.Field == "" {
			v.add(fmt.Sprintf("order_by[%d]", i), "field is required")
			continue
		}
		v.checkRef(fmt.Sprintf("order_by[%d]", i), o.Field)
	}

	if sel.Limit <= 0 {
		v.add("limit", "must be positive, got %d", sel.Limit)
	}
}

func (v *validator) validatePredicate(field string, p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.validateEquals(field, pred)
	case *Equals:
		v.validateEquals(field, *pred)
	case And:
		for i, sub := range pred.Predicates {
			v.validatePredicate(fmt.Sprintf("%s.and[%d]", field, i), sub)
		}
	case *And:
		for i, sub := range pred.Predicates {
			v.validatePredicate(fmt.Sprintf("%s.and[%d]", field, i), sub)
		}
	case nil:
		v.add(field, "nil predicate")
	default:
		v.add(field, "unsupported predicate type %T", p)
	}
}

func (v *validator) validateEquals(field string, eq Equals) {
	if eq.Field == "" {
		v.add(field, "equals requires a field")
		return
	}
	if eq.Value == nil {
		v.add(field, "field %q compared to nil value", eq.Field)
	}
	v.checkRef(field, eq.Field)
}

// checkRef reports qualified references to tables that are not in scope.
// Unqualified fields are accepted as-is.
func (v *validator) checkRef(field, ref string) {
	q, ok := qualifier(ref)
	if !ok {
		return
	}
	if !v.aliases[q] {
		v.add(field, "%q references unknown table %q", ref, q)
	}
}

// qualifier returns the table part of "alias.column".
func qualifier(ref string) (string, bool) {
	i := strings.IndexByte(ref, '.')
	if i <= 0 {
		return "", false
	}
	return ref[:i], true
}
