package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spikeflow-xyz/go-spikeflow/config"
	"github.com/spikeflow-xyz/go-spikeflow/results"
	"github.com/spikeflow-xyz/go-spikeflow/store"
)

func runs(args []string) error {
	if len(args) < 1 {
		printRunsUsage()
		return fmt.Errorf("runs subcommand required")
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "list":
		return runsList(rest)
	case "show":
		return runsShow(rest)
	case "delete":
		return runsDelete(rest)
	case "prune":
		return runsPrune(rest)
	case "help", "-h", "--help":
		printRunsUsage()
		return nil
	default:
		printRunsUsage()
		return fmt.Errorf("unknown runs subcommand: %s", sub)
	}
}

func printRunsUsage() {
	fmt.Fprintln(os.Stderr, `Usage: spikeflow runs <subcommand> [options]

Manage the run archive.

Subcommands:
  list     List archived runs, newest first
  show     Print the full results document for a run
  delete   Remove a run from the archive
  prune    Keep only the newest N runs

The archive path comes from --db, the SPIKEFLOW_STORE_PATH environment
variable, or the config default, in that order of preference.`)
}

func openArchive(fs *flag.FlagSet, dbPath string) (*store.Store, error) {
	cfg, err := config.LoadWithEnv("")
	if err != nil {
		return nil, err
	}
	path := cfg.Store.Path
	applyFlag(fs, "db", func() { path = dbPath })

	log := newLogger(cfg.Logging.Level, cfg.Logging.Pretty)
	return store.Open(path, log)
}

func runsList(args []string) error {
	fs := flag.NewFlagSet("runs list", flag.ExitOnError)
	dbPath := fs.String("db", "", "Run archive path")
	limit := fs.Int("limit", 20, "Maximum runs to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openArchive(fs, *dbPath)
	if err != nil {
		return fmt.Errorf("open run archive: %w", err)
	}
	defer db.Close()

	infos, err := db.List(*limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Printf("%-36s %-20s %-10s %8s %8s %7s %-9s\n",
		"run", "timestamp", "source", "rate", "spikes", "CV", "pattern")
	for _, info := range infos {
		fmt.Printf("%-36s %-20s %-10s %8.1f %8d %7.3f %-9s\n",
			info.RunID, info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Source, info.Rate, info.SpikeCount, info.CV, info.Pattern)
	}
	return nil
}

func runsShow(args []string) error {
	fs := flag.NewFlagSet("runs show", flag.ExitOnError)
	dbPath := fs.String("db", "", "Run archive path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("run ID required")
	}

	db, err := openArchive(fs, *dbPath)
	if err != nil {
		return fmt.Errorf("open run archive: %w", err)
	}
	defer db.Close()

	res, err := db.Get(fs.Arg(0))
	if err != nil {
		return err
	}
	s, err := results.ToJSON(res)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	fmt.Println(s)
	return nil
}

func runsDelete(args []string) error {
	fs := flag.NewFlagSet("runs delete", flag.ExitOnError)
	dbPath := fs.String("db", "", "Run archive path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("run ID required")
	}

	db, err := openArchive(fs, *dbPath)
	if err != nil {
		return fmt.Errorf("open run archive: %w", err)
	}
	defer db.Close()

	if err := db.Delete(fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", fs.Arg(0))
	return nil
}

func runsPrune(args []string) error {
	fs := flag.NewFlagSet("runs prune", flag.ExitOnError)
	dbPath := fs.String("db", "", "Run archive path")
	keep := fs.Int("keep", 10, "Number of newest runs to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openArchive(fs, *dbPath)
	if err != nil {
		return fmt.Errorf("open run archive: %w", err)
	}
	defer db.Close()

	removed, err := db.Prune(*keep)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d runs, kept the newest %d\n", removed, *keep)
	return nil
}
