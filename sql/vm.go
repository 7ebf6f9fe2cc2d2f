package sql

import (
	"strconv"

	"github.com/kraytos17/zdb/zdb"
)

// Row is one decoded result row.
type Row struct {
	Values []Literal
}

// SelectResult is what a SELECT statement returns: the column names in
// effect for the queried table (generated if no CREATE TABLE bound
// one) and the matching rows.
type SelectResult struct {
	Columns []string
	Rows    []Row
}

// VM executes parsed statements against a *zdb.DB. It keeps an
// in-memory table->columns schema cache purely so SELECT can print
// column names and resolve WHERE column references; there is no
// catalog persistence, and every table shares the one underlying
// B-tree (an implicit single namespace — INSERT never scopes its
// primary key by table).
type VM struct {
	db     *zdb.DB
	schema map[string][]string
}

// NewVM returns a VM bound to db.
func NewVM(db *zdb.DB) *VM {
	return &VM{db: db, schema: make(map[string][]string)}
}

// Execute runs stmt and returns (*SelectResult, nil) for a SELECT, or
// (nil, nil) on a successful INSERT/CREATE TABLE.
func (vm *VM) Execute(stmt Statement) (*SelectResult, error) {
	switch s := stmt.(type) {
	case CreateTable:
		vm.schema[s.Table] = s.Columns
		return nil, nil
	case Insert:
		return nil, vm.execInsert(s)
	case Select:
		return vm.execSelect(s)
	default:
		return nil, ErrInvalidSyntax
	}
}

func (vm *VM) execInsert(stmt Insert) error {
	if _, ok := vm.schema[stmt.Table]; !ok {
		vm.schema[stmt.Table] = generatedColumns(len(stmt.Values))
	}
	key := uint64(stmt.Values[0].Int)
	return vm.db.Set(key, encodeRow(stmt.Values))
}

func generatedColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "col" + strconv.Itoa(i)
	}
	return cols
}

func (vm *VM) execSelect(stmt Select) (*SelectResult, error) {
	columns := vm.schema[stmt.Table]

	var whereIdx = -1
	if stmt.Where != nil {
		if columns == nil {
			return nil, ErrColumnNotFound
		}
		for i, c := range columns {
			if c == stmt.Where.Column {
				whereIdx = i
				break
			}
		}
		if whereIdx == -1 {
			return nil, ErrColumnNotFound
		}
	}

	result := &SelectResult{Columns: columns}
	vm.db.ForEach(func(key uint64, payload []byte) {
		values, ok := decodeRow(payload)
		if !ok {
			return
		}
		if stmt.Where != nil {
			if whereIdx >= len(values) || !matches(stmt.Where.Op, values[whereIdx], stmt.Where.Value) {
				return
			}
		}
		result.Rows = append(result.Rows, Row{Values: values})
	})
	return result, nil
}

func matches(op string, got, want Literal) bool {
	if got.IsInt != want.IsInt {
		return false
	}
	if got.IsInt {
		return compareOp(op, int(sign(got.Int-want.Int)))
	}
	switch {
	case got.Str < want.Str:
		return compareOp(op, -1)
	case got.Str > want.Str:
		return compareOp(op, 1)
	default:
		return compareOp(op, 0)
	}
}

func sign(n int64) int64 {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func compareOp(op string, cmp int) bool {
	switch op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}
