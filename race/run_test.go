package race

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallyhq/rallyapi/models"
)

func runParams(seed int64) RunParams {
	return RunParams{
		Name:       "Autumn Stage",
		DistanceKM: 100,
		Track:      TrackMixed,
		EntryFee:   1000,
		Prizes:     []float64{5000, 3000, 1000},
		Entrants:   testField(),
		Budgets:    map[int]float64{10: 10000, 20: 8000, 30: 5000},
		Rand:       rand.New(rand.NewSource(seed)),
	}
}

func TestRunProducesCompleteBundle(t *testing.T) {
	bundle, err := Run(runParams(7))
	require.NoError(t, err)

	assert.Equal(t, models.RaceCompleted, bundle.Race.Status)
	assert.Equal(t, "Autumn Stage", bundle.Race.RaceName)
	assert.Equal(t, 100.0, bundle.Race.DistanceKM)
	assert.Equal(t, 1000.0, bundle.Race.EntryFee)
	assert.Equal(t, 5000.0, bundle.Race.PrizeFirst)
	assert.Equal(t, 3000.0, bundle.Race.PrizeSecond)
	assert.Equal(t, 1000.0, bundle.Race.PrizeThird)
	assert.False(t, bundle.Race.CreatedAt.IsZero())

	require.Len(t, bundle.Results, 5)
	require.Len(t, bundle.Budgets, 3)

	// Every participating team is charged, so the ledger has at least the fees.
	fees := 0
	for _, txn := range bundle.Transactions {
		if txn.Amount == -1000.0 {
			fees++
		}
	}
	assert.Equal(t, 3, fees)

	// Updated budgets agree with the per-team transaction balances.
	last := map[int]float64{}
	for _, txn := range bundle.Transactions {
		last[txn.TeamID] = txn.Balance
	}
	for id, balance := range last {
		assert.Equal(t, bundle.Budgets[id], balance, "team %d", id)
	}
}

func TestRunDefaultsName(t *testing.T) {
	p := runParams(1)
	p.Name = ""
	bundle, err := Run(p)
	require.NoError(t, err)
	assert.Equal(t, "Rally", bundle.Race.RaceName)
	require.NotEmpty(t, bundle.Transactions)
	assert.Contains(t, bundle.Transactions[0].Reason, "Rally")
}

func TestRunDeterministicWithSeed(t *testing.T) {
	a, err := Run(runParams(99))
	require.NoError(t, err)
	b, err := Run(runParams(99))
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Transactions, b.Transactions)
	assert.Equal(t, a.Budgets, b.Budgets)
}

func TestRunSurfacesSimulateError(t *testing.T) {
	p := runParams(1)
	p.Entrants = nil
	_, err := Run(p)
	assert.ErrorIs(t, err, ErrInvalidInput)

	p = runParams(1)
	p.DistanceKM = -1
	_, err = Run(p)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRunSurfacesSettleError(t *testing.T) {
	p := runParams(1)
	delete(p.Budgets, 20)
	_, err := Run(p)
	assert.ErrorIs(t, err, ErrMissingTeam)

	p = runParams(1)
	p.Prizes = []float64{1, 2}
	_, err = Run(p)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
