// Command query-kb inspects a knowledge base exported with
// "learnpath kb export": table row counts, a table's schema, and sample rows.
//
//	query-kb                     # every *.db in the current directory
//	query-kb kb.db               # topics table, 10 rows
//	query-kb kb.db goal_topics 25
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	_ "modernc.org/sqlite"
)

const (
	defaultTable = "topics"
	defaultLimit = 10
	maxCellRunes = 60
)

func main() {
	if len(os.Args) < 2 {
		matches, err := filepath.Glob("*.db")
		if err != nil || len(matches) == 0 {
			fmt.Println("No .db files in the current directory")
			os.Exit(1)
		}
		for _, dbPath := range matches {
			fmt.Printf("\n=== %s ===\n", dbPath)
			if err := queryDB(os.Stdout, dbPath, defaultTable, 5); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
		return
	}

	dbPath := os.Args[1]
	table := defaultTable
	limit := defaultLimit
	if len(os.Args) > 2 {
		table = os.Args[2]
	}
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n < 1 {
			fmt.Printf("Invalid limit %q\n", os.Args[3])
			os.Exit(1)
		}
		limit = n
	}
	if err := queryDB(os.Stdout, dbPath, table, limit); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func queryDB(w io.Writer, dbPath, table string, limit int) error {
	// sql.Open creates missing sqlite files
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("opening DB: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening DB: %w", err)
	}
	defer db.Close()

	tables, err := listTables(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Tables:\n")
	for _, name := range tables {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM "` + name + `"`).Scan(&count); err != nil {
			return fmt.Errorf("counting %s: %w", name, err)
		}
		fmt.Fprintf(w, "  - %s (%d rows)\n", name, count)
	}

	var version string
	if slices.Contains(tables, "kb_meta") {
		err := db.QueryRow(`SELECT value FROM kb_meta WHERE key = 'version'`).Scan(&version)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			version = "(unset)"
		case err != nil:
			return fmt.Errorf("reading kb_meta version: %w", err)
		}
		fmt.Fprintf(w, "\nKnowledge base version: %s\n", version)
	}

	// table names come from sqlite_master, so quoting them is safe
	if !slices.Contains(tables, table) {
		return fmt.Errorf("no %s table (have %v)", table, tables)
	}

	schemaRows, err := db.Query(`PRAGMA table_info("` + table + `")`)
	if err != nil {
		return fmt.Errorf("reading schema of %s: %w", table, err)
	}
	fmt.Fprintf(w, "\nSchema of %s:\n", table)
	for schemaRows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt any
		if err := schemaRows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			schemaRows.Close()
			return fmt.Errorf("scanning schema: %w", err)
		}
		fmt.Fprintf(w, "  - %s (%s)\n", name, typ)
	}
	schemaRows.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, table, limit))
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nSample data:\n")
	fmt.Fprintln(w, "─────────────────────────────────────────────────────────────")
	i := 0
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning %s: %w", table, err)
		}
		i++
		fmt.Fprintf(w, "%d. ", i)
		for j, col := range cols {
			val := values[j]
			if s, ok := val.(string); ok {
				val = truncate(s, maxCellRunes)
			}
			fmt.Fprintf(w, "%s=%v  ", col, val)
		}
		fmt.Fprintln(w)
	}
	return rows.Err()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
