package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallyhq/rallyapi/models"
)

func finished(t float64) *float64 { return &t }

func rankedResults(teamIDs ...int) []models.RaceResult {
	results := make([]models.RaceResult, len(teamIDs))
	for i, id := range teamIDs {
		results[i] = models.RaceResult{
			CarID:             i + 1,
			TeamID:            id,
			Position:          i + 1,
			Status:            models.ResultFinished,
			FinishTimeMinutes: finished(float64(30 + i)),
		}
	}
	return results
}

func TestSettleThreeTeams(t *testing.T) {
	budgets := map[int]float64{1: 1000, 2: 500, 3: 0}

	txns, updated, err := Settle("Spring Rally", rankedResults(1, 2, 3), budgets, 50, []float64{300, 150, 50})
	require.NoError(t, err)

	assert.Equal(t, 1250.0, updated[1])
	assert.Equal(t, 600.0, updated[2])
	assert.Equal(t, 0.0, updated[3])

	// Three fees then three prizes, fees in team-id order.
	require.Len(t, txns, 6)
	assert.Equal(t, -50.0, txns[0].Amount)
	assert.Equal(t, 1, txns[0].TeamID)
	assert.Equal(t, 950.0, txns[0].Balance)
	assert.Equal(t, "Entry fee for Spring Rally", txns[0].Reason)
	assert.Equal(t, 300.0, txns[3].Amount)
	assert.Equal(t, "Prize for position 1 in Spring Rally", txns[3].Reason)
	assert.Equal(t, 1250.0, txns[3].Balance)

	// Input map must not be touched.
	assert.Equal(t, 1000.0, budgets[1])
}

func TestSettleTransactionSumInvariant(t *testing.T) {
	budgets := map[int]float64{1: 100, 2: 200, 3: 300, 4: 400}
	fee := 75.0
	prizes := []float64{500, 250, 100}

	txns, _, err := Settle("Rally", rankedResults(3, 1, 4, 2), budgets, fee, prizes)
	require.NoError(t, err)

	sum := 0.0
	for _, txn := range txns {
		sum += txn.Amount
	}
	assert.InDelta(t, -fee*4+500+250+100, sum, 1e-9)
}

func TestSettleDoublePodiumTeam(t *testing.T) {
	// Team 1 finishes 1st and 2nd: both prizes, one fee.
	budgets := map[int]float64{1: 1000, 2: 500}

	txns, updated, err := Settle("Rally", rankedResults(1, 1, 2), budgets, 100, []float64{300, 150, 50})
	require.NoError(t, err)

	assert.Equal(t, 1000.0-100+300+150, updated[1])
	assert.Equal(t, 500.0-100+50, updated[2])

	fees := 0
	for _, txn := range txns {
		if txn.TeamID == 1 && txn.Amount < 0 {
			fees++
		}
	}
	assert.Equal(t, 1, fees, "team with two cars is charged once")
	require.Len(t, txns, 5)
}

func TestSettleDNFPodiumPaysNothing(t *testing.T) {
	results := rankedResults(1, 2, 3)
	results[1].Status = models.ResultDNF
	results[1].FinishTimeMinutes = nil

	txns, updated, err := Settle("Rally", results, map[int]float64{1: 0, 2: 0, 3: 0}, 0, []float64{300, 150, 50})
	require.NoError(t, err)

	assert.Equal(t, 300.0, updated[1])
	assert.Equal(t, 0.0, updated[2], "DNF in second place earns no prize")
	assert.Equal(t, 50.0, updated[3])
	// Three zero fees plus two prizes.
	require.Len(t, txns, 5)
}

func TestSettleZeroPrizeEmitsNoTransaction(t *testing.T) {
	txns, _, err := Settle("Rally", rankedResults(1, 2, 3), map[int]float64{1: 0, 2: 0, 3: 0}, 10, []float64{300, 0, 50})
	require.NoError(t, err)

	for _, txn := range txns {
		assert.NotEqual(t, 0.0, txn.Amount)
	}
	require.Len(t, txns, 5)
}

func TestSettleBudgetsMayGoNegative(t *testing.T) {
	_, updated, err := Settle("Rally", rankedResults(1, 2), map[int]float64{1: 30, 2: 0}, 50, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, -20.0, updated[1])
	assert.Equal(t, -50.0, updated[2])
}

func TestSettleNonParticipantsUntouched(t *testing.T) {
	budgets := map[int]float64{1: 100, 2: 200, 99: 12345}

	_, updated, err := Settle("Rally", rankedResults(1, 2), budgets, 25, []float64{50, 20, 10})
	require.NoError(t, err)
	assert.Equal(t, 12345.0, updated[99])
}

func TestSettleInvalidInput(t *testing.T) {
	budgets := map[int]float64{1: 100}

	_, _, err := Settle("Rally", nil, budgets, 10, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = Settle("Rally", rankedResults(1), budgets, 10, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = Settle("Rally", rankedResults(1), budgets, -10, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = Settle("Rally", rankedResults(1), budgets, 10, []float64{1, -2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettleMissingTeam(t *testing.T) {
	_, _, err := Settle("Rally", rankedResults(1, 2), map[int]float64{1: 100}, 10, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrMissingTeam)
}

func TestSettleIsPure(t *testing.T) {
	budgets := map[int]float64{1: 1000, 2: 500, 3: 0}
	prizes := []float64{300, 150, 50}

	txns1, up1, err := Settle("Rally", rankedResults(1, 2, 3), budgets, 50, prizes)
	require.NoError(t, err)
	txns2, up2, err := Settle("Rally", rankedResults(1, 2, 3), budgets, 50, prizes)
	require.NoError(t, err)

	assert.Equal(t, txns1, txns2)
	assert.Equal(t, up1, up2)
}
