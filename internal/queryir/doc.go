// Package queryir describes relational retrieval as data instead of SQL text.
//
// A query is a Select over one base table with an explicit chain of INNER
// joins, an ordered column list, an optional filter, an ORDER BY list and a
// row limit. Backends (see internal/querysql) compile it to a concrete
// dialect.
//
// Query, Predicate and Value are sealed interfaces using the marker method
// pattern, so backends can switch exhaustively over them:
//
//	switch p := pred.(type) {
//	case Equals:
//	case And:
//	}
//
// Only inner joins exist. A row from the base table that has no match in any
// joined table drops out of the result; callers that rely on this (for
// example the ranking query, which excludes children without a coordinate
// plan) get it by construction.
//
// Literal values never appear in generated SQL. They are carried as Value
// and surface as bind parameters.
package queryir
