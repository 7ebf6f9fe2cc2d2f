package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/kraytos17/zdb/sql"
	"github.com/kraytos17/zdb/zdb"
)

// REPL is the interactive command loop over a *zdb.DB: a handful of
// direct KV debug commands (.get/.set/.del/.stats) alongside the
// minimal SQL surface (INSERT/SELECT/CREATE TABLE) parsed by
// sql.NewParser and executed by an sql.VM.
type REPL struct {
	db       *zdb.DB
	vm       *sql.VM
	cfg      Config
	readonly bool
	liner    *liner.State
}

func newREPL(db *zdb.DB, cfg Config, readonly bool) *REPL {
	return &REPL{db: db, vm: sql.NewVM(db), cfg: cfg, readonly: readonly}
}

// Run starts the REPL loop. It returns nil on .exit, Ctrl-D (EOF), or
// Ctrl-C (liner.ErrPromptAborted), and a wrapped error on any other
// input failure.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(r.cfg.HistoryFile); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("zdb - embedded key/value store")
	if r.readonly {
		fmt.Println("(read-only mode: .set/.del and INSERT are rejected)")
	}
	fmt.Println("Type '.help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt(r.cfg.Prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if strings.HasPrefix(line, ".") {
			if r.dispatch(line) {
				break
			}
			continue
		}

		r.execSQL(line)
	}

	r.saveHistory()
	return nil
}

func (r *REPL) saveHistory() {
	if r.cfg.HistoryFile == "" {
		return
	}
	if f, err := os.Create(r.cfg.HistoryFile); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

// dispatch handles a leading-dot debug command. It returns true if the
// REPL should stop.
func (r *REPL) dispatch(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ".exit", ".quit", ".q":
		fmt.Println("Bye!")
		return true
	case ".help", ".?":
		r.printHelp()
	case ".get":
		r.cmdGet(args)
	case ".set":
		r.cmdSet(args)
	case ".del", ".delete":
		r.cmdDel(args)
	case ".stats":
		r.cmdStats()
	case ".compact":
		r.cmdCompact()
	default:
		fmt.Printf("Unknown command: %s (type '.help' for commands)\n", cmd)
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  .get <key>          Look up a raw uint64 key")
	fmt.Println("  .set <key> <value>  Store a raw uint64 key and string value")
	fmt.Println("  .del <key>          Delete a raw uint64 key")
	fmt.Println("  .stats              Show engine statistics")
	fmt.Println("  .compact            Rebuild the data page and index")
	fmt.Println("  .help               Show this help")
	fmt.Println("  .exit / .quit / .q  Exit")
	fmt.Println()
	fmt.Println("Anything else is parsed as SQL: INSERT INTO t VALUES(...);")
	fmt.Println("                                SELECT * FROM t [WHERE col OP literal];")
	fmt.Println("                                CREATE TABLE t (col, ...);")
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		".get", ".set", ".del", ".delete", ".stats", ".compact",
		".help", ".?", ".exit", ".quit", ".q",
	}
	lower := strings.ToLower(line)
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: .get <key>")
		return
	}
	key, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Error parsing key: %v\n", err)
		return
	}
	v, ok := r.db.Get(key)
	if !ok {
		fmt.Println("(not found)")
		return
	}
	fmt.Printf("%s\n", formatValue(v))
}

func (r *REPL) cmdSet(args []string) {
	if r.readonly {
		fmt.Println("Error: database opened read-only")
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: .set <key> <value>")
		return
	}
	key, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Error parsing key: %v\n", err)
		return
	}
	value := strings.Join(args[1:], " ")
	if err := r.db.Set(key, []byte(value)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: set %d\n", key)
}

func (r *REPL) cmdDel(args []string) {
	if r.readonly {
		fmt.Println("Error: database opened read-only")
		return
	}
	if len(args) < 1 {
		fmt.Println("Usage: .del <key>")
		return
	}
	key, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Error parsing key: %v\n", err)
		return
	}
	if err := r.db.Delete(key); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: deleted %d\n", key)
}

func (r *REPL) cmdStats() {
	count := 0
	r.db.ForEach(func(uint64, []byte) { count++ })
	fmt.Printf("Live keys: %d\n", count)
}

func (r *REPL) cmdCompact() {
	if r.readonly {
		fmt.Println("Error: database opened read-only")
		return
	}
	if err := r.db.Compact(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK: compacted")
}

func (r *REPL) execSQL(line string) {
	if r.readonly && looksLikeMutation(line) {
		fmt.Println("Error: database opened read-only")
		return
	}

	p, err := sql.NewParser(line)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	stmt, err := p.ParseStatement()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	result, err := r.vm.Execute(stmt)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if result == nil {
		fmt.Println("OK")
		return
	}
	printSelectResult(result)
}

func looksLikeMutation(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	return strings.HasPrefix(upper, "INSERT")
}

func printSelectResult(result *sql.SelectResult) {
	if len(result.Columns) > 0 {
		fmt.Println(strings.Join(result.Columns, " | "))
	}
	for _, row := range result.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			if v.IsInt {
				cells[i] = strconv.FormatInt(v.Int, 10)
			} else {
				cells[i] = v.Str
			}
		}
		fmt.Println(strings.Join(cells, " | "))
	}
	fmt.Printf("(%d row(s))\n", len(result.Rows))
}

// formatValue prints a raw .get payload as text if every byte is
// printable, otherwise as its length plus its first 8 bytes read as a
// little-endian uint64.
func formatValue(v []byte) string {
	printable := true
	for _, b := range v {
		if b < 32 || b > 126 {
			printable = false
			break
		}
	}
	if printable {
		return string(v)
	}
	return fmt.Sprintf("(%d bytes, first 8 as uint64 LE: %d)", len(v), leUint64Prefix(v))
}

func leUint64Prefix(v []byte) uint64 {
	var buf [8]byte
	copy(buf[:], v)
	return binary.LittleEndian.Uint64(buf[:])
}
