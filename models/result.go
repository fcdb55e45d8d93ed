package models

import "github.com/uptrace/bun"

// Result status values.
const (
	ResultFinished = "FINISHED"
	ResultDNF      = "DNF"
)

// RaceResult holds the outcome for a single entrant car. Positions run 1..N
// over all entrants; DNF cars are ranked after every finisher. FinishTimeMinutes
// is nil for a car that did not finish.
type RaceResult struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	ID                int      `bun:"id,pk,autoincrement" json:"id"`
	RaceID            int      `bun:"race_id,notnull" json:"raceID"`
	CarID             int      `bun:"car_id,notnull" json:"carID"`
	TeamID            int      `bun:"team_id,notnull" json:"teamID"`
	FinishTimeMinutes *float64 `bun:"finish_time_minutes" json:"finishTimeMinutes,omitempty"`
	Status            string   `bun:"status,notnull" json:"status"`
	Position          int      `bun:"position,notnull" json:"position"`
}
