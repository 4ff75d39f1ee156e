package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/db"
	"github.com/EdwardLakin/ProFixIQ-sub003/migrations"
)

func main() {
	_ = godotenv.Load()

	command := flag.String("command", "up", "goose command: up, down, status")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	if *command == "up" {
		if err := db.Migrate(ctx, databaseURL); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose dialect: %v", err)
	}
	if err := goose.RunContext(ctx, *command, conn, "."); err != nil {
		log.Fatalf("goose %s: %v", *command, err)
	}
}
