package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"plate2share/internal/model"
	"plate2share/internal/screen"
	"plate2share/internal/storage"
	"plate2share/migrations"
)

type command struct {
	name string
	help string
	run  func(ctx context.Context, dbPath string) error
}

// schema wraps a goose operation on a plain connection.
func schema(op func(db *sql.DB) error) func(context.Context, string) error {
	return func(_ context.Context, dbPath string) error {
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := migrations.Prepare(); err != nil {
			return err
		}
		return op(db)
	}
}

var commands = []command{
	{"up", "Migrate to the latest version", schema(func(db *sql.DB) error { return goose.Up(db, ".") })},
	{"up-one", "Migrate one version up", schema(func(db *sql.DB) error { return goose.UpByOne(db, ".") })},
	{"down", "Roll back one version", schema(func(db *sql.DB) error { return goose.Down(db, ".") })},
	{"status", "Show migration status", schema(func(db *sql.DB) error { return goose.Status(db, ".") })},
	{"version", "Show current version", schema(func(db *sql.DB) error { return goose.Version(db, ".") })},
	{"reset", "Roll back all migrations", schema(func(db *sql.DB) error { return goose.Reset(db, ".") })},
	{"seed", "Store the sample dashboard data", seed},
	{"counts", "Show stored records per kind", counts},
}

var kinds = []string{
	model.KindFood, model.KindDonation, model.KindUser,
	model.KindNotification, model.KindContact, model.KindMessage,
}

func seed(ctx context.Context, dbPath string) error {
	store, err := storage.NewSQLite(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := screen.Seed(ctx, store)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d records\n", n)
	return nil
}

func counts(ctx context.Context, dbPath string) error {
	store, err := storage.NewSQLite(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	for _, kind := range kinds {
		n, err := store.CountRecords(ctx, kind)
		if err != nil {
			return err
		}
		fmt.Printf("%-14s %d\n", kind, n)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-db path] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s  %s\n", c.name, c.help)
	}
}

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/plate2share.db"), "path to sqlite database")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	name := args[0]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(context.Background(), *dbPath); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		return
	}
	log.Fatalf("unknown command: %s", name)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
