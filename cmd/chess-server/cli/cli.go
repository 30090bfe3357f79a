package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"chessarchive/internal/archive"
	"chessarchive/internal/storage"
)

// Run is the entry point for the db maintenance commands
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, verify, export")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "export":
		return runExport(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// dbFlags registers the flags every SQL subcommand shares
func dbFlags(fs *flag.FlagSet) (driver, dsn *string) {
	driver = fs.String("driver", storage.DriverSQLite, "Database driver: sqlite3|postgres")
	dsn = fs.String("path", "", "SQLite file path or Postgres URL (required)")
	return driver, dsn
}

func openStore(driver, dsn string) (*storage.SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewSQLStore(driver, dsn, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	driver, dsn := dbFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*driver, *dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Printf("Database initialized at: %s\n", *dsn)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	driver, dsn := dbFlags(fs)
	force := fs.Bool("force", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force && !confirm(fmt.Sprintf("Delete all archives in %s?", *dsn)) {
		fmt.Println("Aborted")
		return nil
	}

	store, err := openStore(*driver, *dsn)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Printf("Database deleted: %s\n", *dsn)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	driver, dsn := dbFlags(fs)
	id := fs.String("id", "", "Archive ID to filter (optional, * for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*driver, *dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(context.Background(), *id)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No archives found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Archive ID\tSteps\tTo Move\tSaved\tFEN")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			r.ID,
			r.Steps,
			r.ColorToMove,
			r.SavedAt.Format("2006-01-02 15:04:05"),
			r.FEN,
		)
	}
	w.Flush()

	fmt.Printf("\nFound %d archive(s)\n", len(records))
	return nil
}

// runVerify validates archive documents. Files are given as arguments; with
// -path the stored archives are checked instead.
func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	driver, dsn := dbFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	failed := 0
	report := func(name string, data []byte) {
		h, err := archive.Unmarshal(data)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Printf("OK    %s (%d steps, %s to move)\n", name, h.Len(), h.ColorToMove())
	}

	if *dsn != "" {
		store, err := openStore(*driver, *dsn)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		records, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}
		for _, r := range records {
			data, err := store.Load(ctx, r.ID)
			if err != nil {
				failed++
				fmt.Printf("FAIL  %s: %v\n", r.ID, err)
				continue
			}
			report(r.ID, data)
		}
	}

	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", path, err)
			continue
		}
		report(path, data)
	}

	if failed > 0 {
		return fmt.Errorf("%d archive(s) failed verification", failed)
	}
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	driver, dsn := dbFlags(fs)
	id := fs.String("id", "", "Archive ID (required)")
	out := fs.String("out", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("archive ID required")
	}

	store, err := openStore(*driver, *dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := store.Load(context.Background(), *id)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Printf("Exported %s to %s\n", *id, *out)
	return nil
}

// confirm asks on the terminal; non-interactive input never confirms
func confirm(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	fmt.Scanln(&answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
