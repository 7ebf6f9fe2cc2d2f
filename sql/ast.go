package sql

// Literal is a parsed value: either an Int or a Str, never both.
type Literal struct {
	IsInt bool
	Int   int64
	Str   string
}

// CreateTable binds a column schema for Table, recorded only for
// printing SELECT * results — there is no catalog persistence.
type CreateTable struct {
	Table   string
	Columns []string
}

// Insert appends one row tuple to Table. The primary key is Values[0],
// which must be an integer literal.
type Insert struct {
	Table  string
	Values []Literal
}

// Where compares a named column against a literal using Op, one of
// "=", "!=", "<", "<=", ">", ">=".
type Where struct {
	Column string
	Op     string
	Value  Literal
}

// Select reads every row from Table, optionally filtered by Where.
type Select struct {
	Table string
	Where *Where
}

// Statement is one of CreateTable, Insert, or Select.
type Statement interface {
	isStatement()
}

func (CreateTable) isStatement() {}
func (Insert) isStatement()      {}
func (Select) isStatement()      {}
