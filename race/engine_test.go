package race

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallyhq/rallyapi/models"
)

func testField() []models.Car {
	return []models.Car{
		{CarID: 1, TeamID: 10, CarName: "Falcon X1", TopSpeedKMH: 220, Acceleration0100S: 5.2, Handling: 85, Reliability: 0.92},
		{CarID: 2, TeamID: 10, CarName: "Falcon X2", TopSpeedKMH: 210, Acceleration0100S: 5.6, Handling: 80, Reliability: 0.88},
		{CarID: 3, TeamID: 20, CarName: "Storm ZR", TopSpeedKMH: 230, Acceleration0100S: 4.9, Handling: 78, Reliability: 0.85},
		{CarID: 4, TeamID: 30, CarName: "Dune Hopper", TopSpeedKMH: 180, Acceleration0100S: 7.5, Handling: 70, Reliability: 0.95},
		{CarID: 5, TeamID: 30, CarName: "Mud King", TopSpeedKMH: 160, Acceleration0100S: 9.0, Handling: 95, Reliability: 0.99},
	}
}

func TestSimulateRanksAllEntrants(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		results, err := Simulate(100, testField(), rng, TrackMixed)
		require.NoError(t, err)
		require.Len(t, results, 5)

		// Positions must be a permutation of 1..N.
		seen := map[int]bool{}
		for i, r := range results {
			assert.Equal(t, i+1, r.Position)
			assert.False(t, seen[r.Position], "duplicate position %d", r.Position)
			seen[r.Position] = true
		}

		// Finishers come first, ordered by ascending time.
		sawDNF := false
		var prev float64
		for _, r := range results {
			if r.Status == models.ResultDNF {
				sawDNF = true
				assert.Nil(t, r.FinishTimeMinutes)
				continue
			}
			assert.False(t, sawDNF, "finisher ranked after a DNF")
			require.NotNil(t, r.FinishTimeMinutes)
			assert.GreaterOrEqual(t, *r.FinishTimeMinutes, prev)
			prev = *r.FinishTimeMinutes
		}
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	a, err := Simulate(100, testField(), rand.New(rand.NewSource(42)), TrackGravelTwisty)
	require.NoError(t, err)
	b, err := Simulate(100, testField(), rand.New(rand.NewSource(42)), TrackGravelTwisty)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Simulate(100, testField(), rand.New(rand.NewSource(43)), TrackGravelTwisty)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should not reproduce identical times")
}

func TestSimulateInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Simulate(100, nil, rng, TrackMixed)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Simulate(0, testField(), rng, TrackMixed)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Simulate(-5, testField(), rng, TrackMixed)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Simulate(100, testField(), nil, TrackMixed)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrMissingTeam))
}

func TestSimulateBetterCarWinsOnAverage(t *testing.T) {
	fast := models.Car{CarID: 1, TeamID: 1, TopSpeedKMH: 320, Acceleration0100S: 3.0, Handling: 100, Reliability: 1.0}
	slow := models.Car{CarID: 2, TeamID: 2, TopSpeedKMH: 150, Acceleration0100S: 12.0, Handling: 55, Reliability: 1.0}

	fastWins := 0
	const runs = 200
	for seed := int64(0); seed < runs; seed++ {
		results, err := Simulate(100, []models.Car{fast, slow}, rand.New(rand.NewSource(seed)), TrackMixed)
		require.NoError(t, err)
		if results[0].CarID == fast.CarID {
			fastWins++
		}
	}
	assert.Greater(t, fastWins, runs*3/4, "stronger attributes should dominate over many runs")
}

func TestSimulateAlwaysProducesAWinner(t *testing.T) {
	// Reliability 0 clamps to a 5% finish chance; with a single unreliable car
	// the all-retired fallback must still reinstate a finisher every time.
	car := []models.Car{{CarID: 7, TeamID: 1, TopSpeedKMH: 200, Acceleration0100S: 6, Handling: 75, Reliability: 0}}
	for seed := int64(0); seed < 100; seed++ {
		results, err := Simulate(100, car, rand.New(rand.NewSource(seed)), TrackMixed)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, models.ResultFinished, results[0].Status)
		require.NotNil(t, results[0].FinishTimeMinutes)
		assert.Equal(t, 1, results[0].Position)
	}
}

func TestRankResultsTieBreakByCarID(t *testing.T) {
	time := 55.5
	results := []models.RaceResult{
		{CarID: 9, TeamID: 1, Status: models.ResultFinished, FinishTimeMinutes: &time},
		{CarID: 3, TeamID: 2, Status: models.ResultFinished, FinishTimeMinutes: &time},
		{CarID: 12, TeamID: 3, Status: models.ResultDNF},
		{CarID: 4, TeamID: 4, Status: models.ResultDNF},
	}

	rankResults(results)

	// Equal times break on lowest car id, and DNF ordering is by car id too.
	assert.Equal(t, 3, results[0].CarID)
	assert.Equal(t, 9, results[1].CarID)
	assert.Equal(t, 4, results[2].CarID)
	assert.Equal(t, 12, results[3].CarID)
	for i, r := range results {
		assert.Equal(t, i+1, r.Position)
	}
}

func TestTrackSegmentsCoverFullDistance(t *testing.T) {
	for _, track := range []Track{TrackMixed, TrackFastAsphalt, TrackGravelTwisty, Track("unknown")} {
		total := 0.0
		for _, seg := range track.segments() {
			total += seg.share
		}
		assert.InDelta(t, 1.0, total, 1e-9, "track %q", track)
	}
}
