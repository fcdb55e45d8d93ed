package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Race status values.
const (
	RacePlanned   = "planned"
	RaceCompleted = "completed"
)

// Race is a single rally event. Fee and prize amounts are frozen on the row
// when the race is created, so later config changes never rewrite history.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID      int       `bun:"race_id,pk,autoincrement" json:"raceID"`
	RaceName    string    `bun:"race_name,notnull" json:"raceName"`
	DistanceKM  float64   `bun:"distance_km,notnull" json:"distanceKm"`
	EntryFee    float64   `bun:"entry_fee,notnull" json:"entryFee"`
	PrizeFirst  float64   `bun:"prize_first,notnull" json:"prizeFirst"`
	PrizeSecond float64   `bun:"prize_second,notnull" json:"prizeSecond"`
	PrizeThird  float64   `bun:"prize_third,notnull" json:"prizeThird"`
	Status      string    `bun:"status,notnull,default:'planned'" json:"status"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
