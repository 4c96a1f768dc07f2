package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedTournament struct {
	name         string
	game         string
	tier         string
	perPersonFee int64
	prizePool    int64
	maxTeams     int
	participants int
	minPlayers   int
	maxPlayers   int
	startDate    string
	status       string
}

var tournaments = []seedTournament{
	{"Valorant Champions League Season 5", "Valorant", "Elite", 5000, 500000, 32, 24, 5, 5, "2026-02-15", "Registering"},
	{"PUBG Mobile Grandmaster Pro League", "PUBG", "Challenger", 1000, 250000, 64, 48, 4, 4, "2026-02-20", "Registering"},
	{"BGMI Grassroots Championship", "BGMI", "Grassroots", 100, 50000, 128, 112, 4, 4, "2026-02-10", "Registering"},
	{"Free Fire Elite Invitational", "Free Fire", "Elite", 3000, 300000, 24, 18, 4, 4, "2026-03-01", "Registering"},
	{"Valorant Grassroots Qualifiers", "Valorant", "Grassroots", 200, 75000, 96, 72, 5, 5, "2026-02-12", "Registering"},
	{"PUBG Challenger Series Spring", "PUBG", "Challenger", 1500, 400000, 48, 36, 4, 4, "2026-02-18", "Registering"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	const q = `
		INSERT INTO tournaments
			(name, game, tier, per_person_fee, prize_pool, max_teams,
			 participants, min_players, max_players, start_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`

	seeded := 0
	for _, t := range tournaments {
		start, err := time.Parse("2006-01-02", t.startDate)
		if err != nil {
			log.Fatalf("Bad start date for %q: %v", t.name, err)
		}
		var exists bool
		if err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM tournaments WHERE name = $1)", t.name).Scan(&exists); err != nil {
			log.Fatalf("Check tournament %q: %v", t.name, err)
		}
		if exists {
			continue
		}
		if _, err := pool.Exec(ctx, q,
			t.name, t.game, t.tier, t.perPersonFee, t.prizePool, t.maxTeams,
			t.participants, t.minPlayers, t.maxPlayers, start, t.status,
		); err != nil {
			log.Fatalf("Seed tournament %q: %v", t.name, err)
		}
		seeded++
	}

	log.Printf("Seeding completed: %d tournaments inserted", seeded)
}
