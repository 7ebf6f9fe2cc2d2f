package sql

import "testing"

func parseOne(t *testing.T, src string) Statement {
	t.Helper()
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	stmt, err := p.ParseStatement()
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	return stmt
}

func TestParseInsert(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO users VALUES(1, 'alice');")
	ins, ok := stmt.(Insert)
	if !ok {
		t.Fatalf("expected Insert, got %T", stmt)
	}
	if ins.Table != "users" {
		t.Fatalf("expected table users, got %q", ins.Table)
	}
	if len(ins.Values) != 2 || !ins.Values[0].IsInt || ins.Values[0].Int != 1 {
		t.Fatalf("unexpected values: %+v", ins.Values)
	}
	if ins.Values[1].IsInt || ins.Values[1].Str != "alice" {
		t.Fatalf("unexpected second value: %+v", ins.Values[1])
	}
}

func TestParseSelectWithWhere(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE id = 1;")
	sel, ok := stmt.(Select)
	if !ok {
		t.Fatalf("expected Select, got %T", stmt)
	}
	if sel.Table != "users" {
		t.Fatalf("expected table users, got %q", sel.Table)
	}
	if sel.Where == nil || sel.Where.Column != "id" || sel.Where.Op != "=" || sel.Where.Value.Int != 1 {
		t.Fatalf("unexpected where clause: %+v", sel.Where)
	}
}

func TestParseSelectWithoutWhere(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users;")
	sel := stmt.(Select)
	if sel.Where != nil {
		t.Fatalf("expected no where clause, got %+v", sel.Where)
	}
}

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE users (id, name);")
	ct, ok := stmt.(CreateTable)
	if !ok {
		t.Fatalf("expected CreateTable, got %T", stmt)
	}
	if ct.Table != "users" || len(ct.Columns) != 2 || ct.Columns[0] != "id" || ct.Columns[1] != "name" {
		t.Fatalf("unexpected create table: %+v", ct)
	}
}

func TestParseInsertRejectsNonIntegerPrimaryKey(t *testing.T) {
	p, err := NewParser("INSERT INTO users VALUES('alice', 1);")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	if _, err := p.ParseStatement(); err != ErrInvalidSyntax {
		t.Fatalf("expected ErrInvalidSyntax, got %v", err)
	}
}

func TestParseUnknownStatementIsInvalidSyntax(t *testing.T) {
	p, err := NewParser("DROP TABLE users;")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	if _, err := p.ParseStatement(); err != ErrInvalidSyntax {
		t.Fatalf("expected ErrInvalidSyntax, got %v", err)
	}
}

func TestLexerRejectsUnterminatedString(t *testing.T) {
	p, err := NewParser("SELECT * FROM t WHERE name = 'oops;")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	if _, err := p.ParseStatement(); err != ErrUnexpectedToken {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestParseIntegerOverflow(t *testing.T) {
	p, err := NewParser("INSERT INTO t VALUES(99999999999999999999);")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	if _, err := p.ParseStatement(); err != ErrIntegerOverflow {
		t.Fatalf("expected ErrIntegerOverflow, got %v", err)
	}
}
