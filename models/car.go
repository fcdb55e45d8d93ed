package models

import "github.com/uptrace/bun"

// Car belongs to exactly one team. Performance attributes drive the race
// simulation; they are immutable once a race is under way.
type Car struct {
	bun.BaseModel `bun:"table:cars,alias:cr"`

	CarID             int     `bun:"car_id,pk,autoincrement" json:"carID"`
	TeamID            int     `bun:"team_id,notnull" json:"teamID"`
	CarName           string  `bun:"car_name,notnull" json:"carName"`
	TopSpeedKMH       float64 `bun:"top_speed_kmh,notnull" json:"topSpeedKmh"`
	Acceleration0100S float64 `bun:"acceleration_0_100_s,notnull" json:"acceleration0100s"`
	Handling          int     `bun:"handling,notnull" json:"handling"`
	Reliability       float64 `bun:"reliability,notnull" json:"reliability"`
	WeightKG          *int    `bun:"weight_kg" json:"weightKg,omitempty"`

	Team *Team `bun:"rel:belongs-to,join:team_id=team_id" json:"-"`
}
