package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/rallyhq/rallyapi/models"
	"github.com/rallyhq/rallyapi/race"
)

// FetchTeamBudgets returns the current budget for every team, keyed by team id.
func FetchTeamBudgets(ctx context.Context, db *bun.DB) (map[int]float64, error) {
	var teams []models.Team
	if err := db.NewSelect().Model(&teams).
		Column("t.team_id", "t.budget").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("fetching team budgets: %w", err)
	}

	budgets := make(map[int]float64, len(teams))
	for _, t := range teams {
		budgets[t.TeamID] = t.Budget
	}
	return budgets, nil
}

// FetchCarsWithTeams returns all cars joined to their teams, ordered by team
// name then car name.
func FetchCarsWithTeams(ctx context.Context, db *bun.DB) ([]models.Car, error) {
	var cars []models.Car
	err := db.NewSelect().Model(&cars).
		Relation("Team").
		OrderExpr("team.team_name ASC, cr.car_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching cars: %w", err)
	}
	return cars, nil
}

// SaveBundle persists one completed race run as a single transaction: the race
// row, every result, every ledger entry, and the new budget for each affected
// team. Nothing is written if any step fails.
func SaveBundle(ctx context.Context, db *bun.DB, b *race.Bundle) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&b.Race).Exec(ctx); err != nil {
			return fmt.Errorf("inserting race: %w", err)
		}

		for i := range b.Results {
			b.Results[i].RaceID = b.Race.RaceID
		}
		if _, err := tx.NewInsert().Model(&b.Results).Exec(ctx); err != nil {
			return fmt.Errorf("inserting results: %w", err)
		}

		for i := range b.Transactions {
			b.Transactions[i].RaceID = b.Race.RaceID
		}
		if _, err := tx.NewInsert().Model(&b.Transactions).Exec(ctx); err != nil {
			return fmt.Errorf("inserting transactions: %w", err)
		}

		done := map[int]bool{}
		for _, txn := range b.Transactions {
			if done[txn.TeamID] {
				continue
			}
			done[txn.TeamID] = true
			if _, err := tx.NewUpdate().
				Model((*models.Team)(nil)).
				Set("budget = ?", b.Budgets[txn.TeamID]).
				Where("team_id = ?", txn.TeamID).
				Exec(ctx); err != nil {
				return fmt.Errorf("updating budget for team %d: %w", txn.TeamID, err)
			}
		}

		return nil
	})
}
