package race

import (
	"math/rand"
	"time"

	"github.com/rallyhq/rallyapi/models"
)

// RunParams collects everything one race run needs. Budgets must cover every
// team that owns an entrant car.
type RunParams struct {
	Name       string
	DistanceKM float64
	Track      Track
	EntryFee   float64
	Prizes     []float64
	Entrants   []models.Car
	Budgets    map[int]float64
	Rand       *rand.Rand
}

// Bundle is the complete output of one race run, ready to persist as a single
// durable unit.
type Bundle struct {
	Race         models.Race          `json:"race"`
	Results      []models.RaceResult  `json:"results"`
	Transactions []models.Transaction `json:"transactions"`
	Budgets      map[int]float64      `json:"budgets"`
}

// Run simulates the race and settles it, packaging a completed Race record
// with results, transactions, and updated budgets. If either step fails the
// error is returned unchanged and no partial bundle is produced; persisting
// the bundle is the caller's job.
func Run(p RunParams) (*Bundle, error) {
	if p.Name == "" {
		p.Name = "Rally"
	}

	results, err := Simulate(p.DistanceKM, p.Entrants, p.Rand, p.Track)
	if err != nil {
		return nil, err
	}

	txns, budgets, err := Settle(p.Name, results, p.Budgets, p.EntryFee, p.Prizes)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Race: models.Race{
			RaceName:    p.Name,
			DistanceKM:  p.DistanceKM,
			EntryFee:    p.EntryFee,
			PrizeFirst:  p.Prizes[0],
			PrizeSecond: p.Prizes[1],
			PrizeThird:  p.Prizes[2],
			Status:      models.RaceCompleted,
			CreatedAt:   time.Now(),
		},
		Results:      results,
		Transactions: txns,
		Budgets:      budgets,
	}, nil
}
