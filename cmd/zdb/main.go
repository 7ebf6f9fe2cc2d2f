// Command zdb is an interactive shell over the embedded key/value
// store: a small set of raw-key debug commands plus a minimal SQL
// surface (INSERT/SELECT/CREATE TABLE).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kraytos17/zdb/zdb"
)

func main() {
	dbPath := pflag.String("db", "zdb.db", "path to the database file")
	readonly := pflag.Bool("readonly", false, "reject .set/.del and INSERT")
	prompt := pflag.String("prompt", "", "override the REPL prompt")
	prefsPath := pflag.String("prefs", prefsFilePath(), "path to the hujson preferences file")
	pflag.Parse()

	cfg, err := loadPrefs(*prefsPath, DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading preferences: %v\n", err)
		os.Exit(1)
	}
	if *prompt != "" {
		cfg.Prompt = *prompt
	}

	db, err := zdb.Open("", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repl := newREPL(db, cfg, *readonly)
	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := savePrefs(*prefsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error saving preferences: %v\n", err)
		os.Exit(1)
	}
}
