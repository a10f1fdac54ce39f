package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/store"
)

// Prints a stored league snapshot as JSON, e.g. to replay it through rotoctl.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: dump_league <league-id>")
	}
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		log.Fatal("POSTGRES_URL is not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close(ctx)

	league, err := store.New(conn, zap.NewNop().Sugar()).LoadLeague(ctx, os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(league); err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "teams=%d rosters=%d players=%d free_agents=%d\n",
		len(league.Teams), len(league.Rosters), len(league.Players), len(league.FreeAgents))
}
