package querysql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/nicemap/internal/queryir"
)

// Dialect selects bind-parameter syntax.
type Dialect int

const (
	// SQLite uses positional "?" placeholders.
	SQLite Dialect = iota
	// Postgres uses numbered "$1", "$2", ... placeholders.
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	default:
		return "dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// SQLCompiler compiles queryir queries to parameterized SQL.
//
// CRITICAL: All values are parameterized (never interpolated), including
// LIMIT.
type SQLCompiler struct {
	Dialect Dialect
}

// NewSQLCompiler creates a compiler for the given dialect.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Compile converts a query to SQL text and its bind parameters.
// The query is validated first; all validation errors are joined into the
// returned error.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	if errs := queryir.Validate(q); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return "", nil, fmt.Errorf("invalid query: %w", errors.Join(joined...))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// builder accumulates SQL text and parameters so placeholders can be
// numbered in order of appearance.
type builder struct {
	dialect Dialect
	sb      strings.Builder
	params  []any
}

func (b *builder) write(parts ...string) {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
}

// bind appends a parameter and writes its placeholder.
func (b *builder) bind(v any) {
	b.params = append(b.params, v)
	if b.dialect == Postgres {
		b.sb.WriteString("$" + strconv.Itoa(len(b.params)))
		return
	}
	b.sb.WriteString("?")
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	b := &builder{dialect: c.Dialect}

	b.write("SELECT ")
	for i, col := range q.Columns {
		if i > 0 {
			b.write(", ")
		}
		b.write(col.Field)
		if col.As != "" && col.As != col.Field {
			b.write(" AS ", col.As)
		}
	}

	b.write(" FROM ", tableSQL(q.From))

	// Only inner joins: rows without a match in any joined table are excluded.
	for _, j := range q.Joins {
		b.write(" INNER JOIN ", tableSQL(j.Table), " ON ", j.LeftField, " = ", j.RightField)
	}

	if q.Filter != nil {
		b.write(" WHERE ")
		if err := c.compilePredicate(b, q.Filter); err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
	}

	if len(q.OrderBy) > 0 {
		b.write(" ORDER BY ")
		for i, o := range q.OrderBy {
			if i > 0 {
				b.write(", ")
			}
			b.write(o.Field)
			if o.Desc {
				b.write(" DESC")
			} else {
				b.write(" ASC")
			}
		}
	}

	b.write(" LIMIT ")
	b.bind(int64(q.Limit))

	return b.sb.String(), b.params, nil
}

func tableSQL(t queryir.Table) string {
	if t.Alias == "" || t.Alias == t.Name {
		return t.Name
	}
	return t.Name + " " + t.Alias
}

// compilePredicate writes a WHERE fragment.
// CRITICAL: Values NEVER interpolated - always placeholders.
func (c *SQLCompiler) compilePredicate(b *builder, p queryir.Predicate) error {
	switch pred := p.(type) {
	case queryir.Equals:
		return c.compileEquals(b, pred)
	case *queryir.Equals:
		return c.compileEquals(b, *pred)
	case queryir.And:
		return c.compileAnd(b, pred)
	case *queryir.And:
		return c.compileAnd(b, *pred)
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileEquals(b *builder, eq queryir.Equals) error {
	param, err := valueToParam(eq.Value)
	if err != nil {
		return fmt.Errorf("convert value for %s: %w", eq.Field, err)
	}
	b.write(eq.Field, " = ")
	b.bind(param)
	return nil
}

func (c *SQLCompiler) compileAnd(b *builder, and queryir.And) error {
	if len(and.Predicates) == 0 {
		b.write("1 = 1") // vacuous truth
		return nil
	}
	for i, pred := range and.Predicates {
		if i > 0 {
			b.write(" AND ")
		}
		if err := c.compilePredicate(b, pred); err != nil {
			return err
		}
	}
	return nil
}

// valueToParam converts a queryir.Value to a driver parameter.
func valueToParam(v queryir.Value) (any, error) {
	switch val := v.(type) {
	case queryir.String:
		return string(val), nil
	case queryir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
