package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nicemap/internal/queryir"
)

func TestCompile_SimpleSelect(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := queryir.Select{
		From:    queryir.Table{Name: "countries"},
		Columns: []queryir.Column{{Field: "code"}, {Field: "name", As: "country"}},
		Filter:  queryir.Equals{Field: "code", Value: queryir.String("zz-sentinel")},
		Limit:   10,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t, "SELECT code, name AS country FROM countries WHERE code = ? LIMIT ?", sql)
	assert.NotContains(t, sql, "zz-sentinel") // Value NOT in SQL
	assert.NotContains(t, sql, "10")
	assert.Equal(t, []any{"zz-sentinel", int64(10)}, params)
}

func TestCompile_SelectPointer(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := &queryir.Select{
		From:    queryir.Table{Name: "countries"},
		Columns: []queryir.Column{{Field: "name"}},
		Limit:   1,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM countries LIMIT ?", sql)
	assert.Equal(t, []any{int64(1)}, params)
}

func TestCompile_JoinChain(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := queryir.Select{
		From: queryir.Table{Name: "children", Alias: "c"},
		Joins: []queryir.Join{
			{Table: queryir.Table{Name: "behavior", Alias: "b"}, LeftField: "c.id", RightField: "b.child_id"},
			{Table: queryir.Table{Name: "households", Alias: "h"}, LeftField: "c.household_id", RightField: "h.id"},
		},
		Columns: []queryir.Column{{Field: "c.first_name"}, {Field: "b.nice_score"}},
		Filter:  queryir.Equals{Field: "b.year", Value: queryir.Int(2025)},
		OrderBy: []queryir.Order{{Field: "b.nice_score", Desc: true}},
		Limit:   3,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT c.first_name, b.nice_score FROM children c"+
			" INNER JOIN behavior b ON c.id = b.child_id"+
			" INNER JOIN households h ON c.household_id = h.id"+
			" WHERE b.year = ? ORDER BY b.nice_score DESC LIMIT ?",
		sql)
	assert.Equal(t, []any{int64(2025), int64(3)}, params)
}

func TestCompile_PostgresPlaceholders(t *testing.T) {
	compiler := NewSQLCompiler(Postgres)

	query := queryir.Select{
		From:    queryir.Table{Name: "behavior", Alias: "b"},
		Columns: []queryir.Column{{Field: "b.child_id"}},
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "b.year", Value: queryir.Int(2025)},
			&queryir.Equals{Field: "b.child_id", Value: queryir.Int(7)},
		}},
		OrderBy: []queryir.Order{{Field: "b.child_id"}},
		Limit:   5,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT b.child_id FROM behavior b WHERE b.year = $1 AND b.child_id = $2 ORDER BY b.child_id ASC LIMIT $3",
		sql)
	assert.Equal(t, []any{int64(2025), int64(7), int64(5)}, params)
}

func TestCompile_EmptyAnd(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := queryir.Select{
		From:    queryir.Table{Name: "cities"},
		Columns: []queryir.Column{{Field: "name"}},
		Filter:  &queryir.And{},
		Limit:   2,
	}

	sql, _, err := compiler.Compile(query)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 1")
}

func TestCompile_AliasEqualToNameIsOmitted(t *testing.T) {
	compiler := NewSQLCompiler(SQLite)

	query := queryir.Select{
		From:    queryir.Table{Name: "cities", Alias: "cities"},
		Columns: []queryir.Column{{Field: "name", As: "name"}},
		Limit:   1,
	}

	sql, _, err := compiler.Compile(query)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM cities LIMIT ?", sql)
}

func TestCompile_NilQuery(t *testing.T) {
	_, _, err := NewSQLCompiler(SQLite).Compile(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil query")
}

func TestCompile_InvalidQuery(t *testing.T) {
	query := queryir.Select{
		From:    queryir.Table{Name: "children"},
		Columns: []queryir.Column{{Field: "first_name"}},
		Limit:   0,
	}

	_, _, err := NewSQLCompiler(SQLite).Compile(query)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
	assert.Contains(t, err.Error(), "limit")

	var verr queryir.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDialect_String(t *testing.T) {
	assert.Equal(t, "sqlite", SQLite.String())
	assert.Equal(t, "postgres", Postgres.String())
	assert.Equal(t, "dialect(9)", Dialect(9).String())
}
