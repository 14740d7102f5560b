package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/database"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "courtboard.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], "", "", cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	defer db.Close()

	adapter := persistence.NewLocal(db)
	ctx := context.Background()

	players := []roster.Player{
		{ID: uuid.NewString(), Jersey: "1", Name: "Mette Larsen"},
		{ID: uuid.NewString(), Jersey: "4", Name: "Ann Holm"},
		{ID: uuid.NewString(), Jersey: "7", Name: "Mia Berg"},
		{ID: uuid.NewString(), Jersey: "9", Name: "Sofie Juhl"},
		{ID: uuid.NewString(), Jersey: "11", Name: "Emma Friis"},
		{ID: uuid.NewString(), Jersey: "14", Name: "Ida Skov"},
	}
	for _, p := range players {
		if _, err := adapter.SavePlayer(ctx, p); err != nil {
			log.Fatalf("Failed to seed player %s: %s", p.Name, err)
		}
	}
	log.Info("Seeded players", "count", len(players))

	serveReceive := roster.Position{
		ID:   uuid.NewString(),
		Name: "Serve receive",
		Tags: []string{"defense"},
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: players[0].ID, Jersey: players[0].Jersey, Name: players[0].Name, X: 100, Y: 400},
			{PlayerID: players[1].ID, Jersey: players[1].Jersey, Name: players[1].Name, X: 275, Y: 450},
			{PlayerID: players[2].ID, Jersey: players[2].Jersey, Name: players[2].Name, X: 450, Y: 400},
			{PlayerID: players[3].ID, Jersey: players[3].Jersey, Name: players[3].Name, X: 100, Y: 150},
			{PlayerID: players[4].ID, Jersey: players[4].Jersey, Name: players[4].Name, X: 275, Y: 100},
			{PlayerID: players[5].ID, Jersey: players[5].Jersey, Name: players[5].Name, X: 450, Y: 150},
		},
	}
	attack := roster.Position{
		ID:   uuid.NewString(),
		Name: "Attack",
		Tags: []string{"offense"},
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: players[0].ID, Jersey: players[0].Jersey, Name: players[0].Name, X: 150, Y: 350},
			{PlayerID: players[1].ID, Jersey: players[1].Jersey, Name: players[1].Name, X: 275, Y: 380},
			{PlayerID: players[2].ID, Jersey: players[2].Jersey, Name: players[2].Name, X: 400, Y: 350},
			{PlayerID: players[3].ID, Jersey: players[3].Jersey, Name: players[3].Name, X: 120, Y: 60},
			{PlayerID: players[4].ID, Jersey: players[4].Jersey, Name: players[4].Name, X: 275, Y: 40},
			{PlayerID: players[5].ID, Jersey: players[5].Jersey, Name: players[5].Name, X: 430, Y: 60},
		},
	}
	for _, pos := range []roster.Position{serveReceive, attack} {
		if _, err := adapter.SavePosition(ctx, pos); err != nil {
			log.Fatalf("Failed to seed position %s: %s", pos.Name, err)
		}
	}
	log.Info("Seeded positions", "count", 2)

	scenario := roster.Scenario{
		ID:              uuid.NewString(),
		Name:            "Receive to attack",
		StartPositionID: serveReceive.ID,
		EndPositionID:   attack.ID,
		Tags:            []string{"transition"},
	}
	if _, err := adapter.SaveScenario(ctx, scenario); err != nil {
		log.Fatalf("Failed to seed scenario: %s", err)
	}

	sequence := roster.Sequence{
		ID:   uuid.NewString(),
		Name: "Warmup drill",
		Items: []roster.SequenceItem{
			{Type: roster.StepPosition, ID: serveReceive.ID},
			{Type: roster.StepScenario, ID: scenario.ID},
		},
	}
	if _, err := adapter.SaveSequence(ctx, sequence); err != nil {
		log.Fatalf("Failed to seed sequence: %s", err)
	}

	// One legacy flat-map row so the name-keyed fallback path has data.
	legacy, err := json.Marshal([]roster.PlayerPlacement{
		{PlayerID: players[0].ID, Jersey: players[0].Jersey, Name: players[0].Name, X: 200, Y: 300},
		{PlayerID: players[1].ID, Jersey: players[1].Jersey, Name: players[1].Name, X: 350, Y: 300},
	})
	if err != nil {
		log.Fatalf("Failed to marshal legacy placements: %s", err)
	}
	if _, err := db.Exec(
		"INSERT INTO legacy_positions (name, placements_json) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET placements_json = excluded.placements_json",
		"Old rotation", string(legacy),
	); err != nil {
		log.Fatalf("Failed to seed legacy position: %s", err)
	}

	log.Info("Seeding complete")
}
