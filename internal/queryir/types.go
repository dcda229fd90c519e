package queryir

// Query represents an abstract query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition.
//
// Predicate types:
//   - Equals: field = literal_value
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Value is a literal bound into a query as a parameter.
// Floats are excluded: filters compare exact keys and periods.
type Value interface {
	valueNode()
}

// String is a text literal.
type String string

func (String) valueNode() {}

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Table names a source table and the alias used to qualify its fields.
// An empty Alias means fields are qualified by Name.
type Table struct {
	Name  string
	Alias string
}

// Ref returns the identifier used to qualify this table's fields.
func (t Table) Ref() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// Join adds Table to the query with an inner equi-join.
//
// LeftField references a table already in scope (base table or an earlier
// join), RightField references the joined table. Both are qualified
// ("c.household_id", "h.id").
type Join struct {
	Table      Table
	LeftField  string
	RightField string
}

// Column is one entry of the projection. Columns keep declaration order so
// row decoding can rely on it.
type Column struct {
	Field string // Qualified field ("ct.name")
	As    string // Optional output name
}

// Order is one ORDER BY key.
type Order struct {
	Field string
	Desc  bool
}

// Select represents table access with joins, filtering, ordering and a limit.
//
// Semantics:
//
//	SELECT <columns> FROM <from> [INNER JOIN <join> ON <left> = <right>]...
//	WHERE <filter> ORDER BY <order> LIMIT <limit>
//
// Example:
//
//	Select{
//	  From:    Table{Name: "children", Alias: "c"},
//	  Joins:   []Join{{Table: Table{Name: "behavior", Alias: "b"}, LeftField: "c.id", RightField: "b.child_id"}},
//	  Columns: []Column{{Field: "c.first_name"}, {Field: "b.nice_score"}},
//	  Filter:  Equals{Field: "b.year", Value: Int(2025)},
//	  OrderBy: []Order{{Field: "b.nice_score", Desc: true}},
//	  Limit:   3,
//	}
type Select struct {
	From    Table
	Joins   []Join
	Columns []Column
	Filter  Predicate // nil = no filter
	OrderBy []Order
	Limit   int // must be positive
}

func (Select) queryNode() {}

// Equals represents a field-equals-literal predicate.
//
//	<field> = ?
type Equals struct {
	Field string
	Value Value
}

func (Equals) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
