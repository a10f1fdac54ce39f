package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/rotolab/roto-api/internal/models"
)

// Config
const (
	DefaultAPIURL   = "http://localhost:8080/api/v1/leagues/"
	LeagueID        = "seed-league"
	Teams           = 10
	HittersPerTeam  = 9
	PitchersPerTeam = 7
	FreeAgents      = 20
)

func main() {
	apiURL := os.Getenv("SEED_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	league := buildLeague(rand.New(rand.NewPCG(42, 7)))

	payload, err := json.Marshal(league)
	if err != nil {
		log.Fatalf("Failed to marshal league: %v", err)
	}

	req, err := http.NewRequest(http.MethodPut, apiURL+LeagueID, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Seeding failed")
	}

	// The recompute runs in the background; the report endpoint computes on a miss anyway.
	reportResp, err := client.Get(apiURL + LeagueID + "/report")
	if err != nil {
		log.Fatalf("Failed to fetch report: %v", err)
	}
	defer reportResp.Body.Close()

	var report models.LeagueReport
	if err := json.NewDecoder(reportResp.Body).Decode(&report); err != nil {
		log.Fatalf("Failed to decode report: %v", err)
	}
	for _, row := range report.Standings {
		fmt.Printf("%2d. %-12s %3d\n", row.Position, row.Name, row.OverallTotal)
	}
}

func buildLeague(rng *rand.Rand) models.League {
	league := models.League{ID: LeagueID, Name: "Seed League"}

	player := 0
	nextID := func() string {
		player++
		return fmt.Sprintf("p%03d", player)
	}

	for t := 1; t <= Teams; t++ {
		roster := models.Roster{
			TeamID:   fmt.Sprintf("t%02d", t),
			TeamName: fmt.Sprintf("Team %02d", t),
		}
		for i := 0; i < HittersPerTeam; i++ {
			p := hitter(rng, nextID())
			roster.PlayerIDs = append(roster.PlayerIDs, p.ID)
			league.Players = append(league.Players, p)
		}
		for i := 0; i < PitchersPerTeam; i++ {
			p := pitcher(rng, nextID(), i >= PitchersPerTeam-2)
			roster.PlayerIDs = append(roster.PlayerIDs, p.ID)
			league.Players = append(league.Players, p)
		}
		league.Rosters = append(league.Rosters, roster)
	}

	// Unrostered players become the free-agent pool.
	for i := 0; i < FreeAgents; i++ {
		if i%2 == 0 {
			league.Players = append(league.Players, hitter(rng, nextID()))
		} else {
			league.Players = append(league.Players, pitcher(rng, nextID(), i%3 == 0))
		}
	}
	return league
}

func hitter(rng *rand.Rand, id string) models.Entity {
	ab := 350 + rng.Float64()*300
	avg := 0.220 + rng.Float64()*0.090
	return models.Entity{
		ID:   id,
		Name: "Hitter " + id,
		Pool: "OF",
		Stats: models.StatLine{
			"AB":  float64(int(ab)),
			"R":   float64(40 + rng.IntN(70)),
			"HR":  float64(5 + rng.IntN(40)),
			"RBI": float64(35 + rng.IntN(80)),
			"SB":  float64(rng.IntN(35)),
			"AVG": avg,
			"OPS": avg + 0.380 + rng.Float64()*0.200,
		},
	}
}

func pitcher(rng *rand.Rand, id string, reliever bool) models.Entity {
	e := models.Entity{ID: id, Name: "Pitcher " + id, Pool: "SP"}
	if reliever {
		e.Pool = "RP"
		e.Stats = models.StatLine{
			"IP":   float64(50 + rng.IntN(25)),
			"ERA":  2.0 + rng.Float64()*2.5,
			"WHIP": 0.95 + rng.Float64()*0.40,
			"K/9":  8.5 + rng.Float64()*4.0,
			"QS":   0,
			"SV":   float64(rng.IntN(40)),
		}
		return e
	}
	e.Stats = models.StatLine{
		"IP":   float64(120 + rng.IntN(90)),
		"ERA":  2.8 + rng.Float64()*2.2,
		"WHIP": 1.00 + rng.Float64()*0.40,
		"K/9":  7.0 + rng.Float64()*4.5,
		"QS":   float64(5 + rng.IntN(22)),
		"SV":   0,
	}
	return e
}
