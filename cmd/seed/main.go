// cmd/seed/main.go
// Inserts sample teams and cars so a fresh database has something to race.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"

	"github.com/rallyhq/rallyapi/config"
	bundb "github.com/rallyhq/rallyapi/db"
	"github.com/rallyhq/rallyapi/models"
)

func intPtr(v int) *int { return &v }

func main() {
	ctx := context.Background()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	teams := []*models.Team{
		{TeamName: "Falcon Motorsport", Members: "Alice,Bob", Budget: 10000},
		{TeamName: "Thunder Racing", Members: "Carol,Dan", Budget: 8000},
	}
	for _, t := range teams {
		_, err := db.NewInsert().Model(t).
			On("CONFLICT (team_name) DO UPDATE SET members = EXCLUDED.members").
			Returning("team_id").
			Exec(ctx)
		if err != nil {
			log.Fatalf("insert team %s: %v", t.TeamName, err)
		}
	}

	cars := []*models.Car{
		{TeamID: teams[0].TeamID, CarName: "Falcon X1", TopSpeedKMH: 220, Acceleration0100S: 5.2, Handling: 85, Reliability: 0.92, WeightKG: intPtr(1200)},
		{TeamID: teams[0].TeamID, CarName: "Falcon X2", TopSpeedKMH: 210, Acceleration0100S: 5.6, Handling: 80, Reliability: 0.88, WeightKG: intPtr(1250)},
		{TeamID: teams[1].TeamID, CarName: "Storm ZR", TopSpeedKMH: 230, Acceleration0100S: 4.9, Handling: 78, Reliability: 0.85, WeightKG: intPtr(1180)},
	}
	for _, c := range cars {
		if _, err := db.NewInsert().Model(c).Exec(ctx); err != nil {
			log.Fatalf("insert car %s: %v", c.CarName, err)
		}
	}

	log.Printf("seeded %d teams and %d cars", len(teams), len(cars))
}
