package main

import (
	"ae-dashboard-service/internal/app"
	"ae-dashboard-service/internal/config"
	"ae-dashboard-service/internal/mcpserver"
	"context"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main serves the dashboard as MCP tools over stdio.
// Logs go to stderr; stdout carries the protocol.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := mcpserver.New(a.Dashboard).ServeStdio(); err != nil {
		log.Printf("mcp server stopped: %v", err)
	}
}
