package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	limit := flag.Int("limit", 0, "max migrations to apply, 0 for all")
	flag.Parse()

	dbCfg := config.LoadDatabase()
	db, err := sql.Open("pgx", dbCfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	dir := migrate.Up
	if *direction == "down" {
		dir = migrate.Down
	}

	source := &migrate.FileMigrationSource{Dir: "migrations"}
	applied, err := migrate.ExecMax(db, "postgres", source, dir, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("applied %d migrations (%s)\n", applied, *direction)
}
