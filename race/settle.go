package race

import (
	"fmt"
	"sort"

	"github.com/rallyhq/rallyapi/models"
)

// podiumSize is how many finishing positions pay a prize.
const podiumSize = 3

// Settle turns ranked results into ledger transactions and updated budgets.
// Every participating team is charged the entry fee exactly once, however many
// of its cars raced, then prizes are credited for positions 1..3. A team
// holding two podium cars collects both prizes; a podium position held by a
// DNF car pays nothing. Budgets may go negative. The input budget map is not
// modified; the returned map covers every team in it, participating or not.
func Settle(raceName string, results []models.RaceResult, budgets map[int]float64, entryFee float64, prizes []float64) ([]models.Transaction, map[int]float64, error) {
	if len(results) == 0 {
		return nil, nil, fmt.Errorf("%w: no results to settle", ErrInvalidInput)
	}
	if len(prizes) != podiumSize {
		return nil, nil, fmt.Errorf("%w: want %d prize amounts, got %d", ErrInvalidInput, podiumSize, len(prizes))
	}
	if entryFee < 0 {
		return nil, nil, fmt.Errorf("%w: negative entry fee %v", ErrInvalidInput, entryFee)
	}
	for i, p := range prizes {
		if p < 0 {
			return nil, nil, fmt.Errorf("%w: negative prize %v for position %d", ErrInvalidInput, p, i+1)
		}
	}

	// Deduplicate participating teams; fees are charged in team-id order.
	seen := map[int]bool{}
	teamIDs := []int{}
	for _, r := range results {
		if seen[r.TeamID] {
			continue
		}
		if _, ok := budgets[r.TeamID]; !ok {
			return nil, nil, fmt.Errorf("%w: team %d from results missing in budgets", ErrMissingTeam, r.TeamID)
		}
		seen[r.TeamID] = true
		teamIDs = append(teamIDs, r.TeamID)
	}
	sort.Ints(teamIDs)

	updated := make(map[int]float64, len(budgets))
	for id, b := range budgets {
		updated[id] = b
	}

	var txns []models.Transaction
	for _, id := range teamIDs {
		updated[id] -= entryFee
		txns = append(txns, models.Transaction{
			TeamID:   id,
			Amount:   -entryFee,
			Currency: "USD",
			Reason:   fmt.Sprintf("Entry fee for %s", raceName),
			Balance:  updated[id],
		})
	}

	for pos := 1; pos <= podiumSize && pos <= len(results); pos++ {
		r, ok := resultAt(results, pos)
		if !ok || r.Status != models.ResultFinished {
			continue
		}
		amount := prizes[pos-1]
		if amount <= 0 {
			continue
		}
		updated[r.TeamID] += amount
		txns = append(txns, models.Transaction{
			TeamID:   r.TeamID,
			Amount:   amount,
			Currency: "USD",
			Reason:   fmt.Sprintf("Prize for position %d in %s", pos, raceName),
			Balance:  updated[r.TeamID],
		})
	}

	return txns, updated, nil
}

// resultAt finds the result holding the given position. Results from Simulate
// arrive ordered, but settlement only relies on the Position field.
func resultAt(results []models.RaceResult, pos int) (models.RaceResult, bool) {
	for _, r := range results {
		if r.Position == pos {
			return r, true
		}
	}
	return models.RaceResult{}, false
}
