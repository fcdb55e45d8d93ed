package models

import "github.com/uptrace/bun"

// Team owns cars and carries the running budget mutated by race transactions.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID   int     `bun:"team_id,pk,autoincrement" json:"teamID"`
	TeamName string  `bun:"team_name,notnull,unique" json:"teamName"`
	Members  string  `bun:"members,notnull,default:''" json:"members"`
	Budget   float64 `bun:"budget,notnull,default:0" json:"budget"`
}
