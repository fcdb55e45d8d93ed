package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Transaction is an append-only ledger entry: negative amounts are entry fees,
// positive amounts are prizes. Balance is the team budget after the entry was
// applied, so the ledger can be audited without replaying it.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:tx"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	TeamID    int       `bun:"team_id,notnull" json:"teamID"`
	RaceID    int       `bun:"race_id,notnull" json:"raceID"`
	Amount    float64   `bun:"amount,notnull" json:"amount"`
	Currency  string    `bun:"currency,notnull,default:'USD'" json:"currency"`
	Reason    string    `bun:"reason,notnull" json:"reason"`
	Balance   float64   `bun:"balance,notnull" json:"balance"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
