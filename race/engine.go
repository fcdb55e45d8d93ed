// Package race implements the rally simulation core: stochastic progress
// simulation over a track, finishing-order ranking, and fee/prize settlement.
// Everything here is pure computation; persistence belongs to the db package.
package race

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rallyhq/rallyapi/models"
)

var (
	// ErrInvalidInput reports malformed or empty simulation/settlement input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingTeam reports a result whose team is absent from the budget map.
	ErrMissingTeam = errors.New("team not found")
)

// Track selects the segment profile used by Simulate.
type Track string

const (
	TrackMixed        Track = "mixed"
	TrackFastAsphalt  Track = "fast_asphalt"
	TrackGravelTwisty Track = "gravel_twisty"
)

// segment describes a stretch of track as a share of total distance with
// multipliers applied to car speed on that stretch.
type segment struct {
	share    float64
	speed    float64
	handling float64
}

func (t Track) segments() []segment {
	switch t {
	case TrackFastAsphalt:
		return []segment{{1.0, 1.05, 1.0}}
	case TrackGravelTwisty:
		return []segment{{0.6, 0.8, 0.9}, {0.4, 0.7, 0.85}}
	default:
		// Mixed profile: fast opening, technical middle, rough finish.
		return []segment{
			{0.4, 0.95, 0.98},
			{0.3, 0.85, 0.92},
			{0.3, 0.75, 0.9},
		}
	}
}

// Simulate runs every entrant over the given distance and returns results
// ranked best first, positions 1..N assigned. Finishing order is driven by car
// attributes plus per-segment random variation drawn from rng, so a fixed seed
// reproduces the exact outcome. Cars that fail their reliability roll are
// marked DNF and ranked after all finishers; if the whole field retires, the
// fastest car is reinstated so a race always has a winner.
func Simulate(distanceKM float64, entrants []models.Car, rng *rand.Rand, track Track) ([]models.RaceResult, error) {
	if distanceKM <= 0 {
		return nil, fmt.Errorf("%w: distance must be positive, got %v", ErrInvalidInput, distanceKM)
	}
	if len(entrants) == 0 {
		return nil, fmt.Errorf("%w: no entrants", ErrInvalidInput)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}

	type outcome struct {
		result  models.RaceResult
		minutes float64
	}

	outcomes := make([]outcome, len(entrants))
	allDNF := true
	for i, car := range entrants {
		minutes, dnf := simulateTime(car, distanceKM, track, rng)
		res := models.RaceResult{
			CarID:  car.CarID,
			TeamID: car.TeamID,
			Status: models.ResultDNF,
		}
		if !dnf {
			allDNF = false
			t := minutes
			res.FinishTimeMinutes = &t
			res.Status = models.ResultFinished
		}
		outcomes[i] = outcome{result: res, minutes: minutes}
	}

	// Reinstate the fastest car when nobody finishes.
	if allDNF {
		best := 0
		for i := range outcomes {
			if outcomes[i].minutes < outcomes[best].minutes {
				best = i
			}
		}
		t := outcomes[best].minutes
		outcomes[best].result.FinishTimeMinutes = &t
		outcomes[best].result.Status = models.ResultFinished
	}

	results := make([]models.RaceResult, len(outcomes))
	for i := range outcomes {
		results[i] = outcomes[i].result
	}
	rankResults(results)
	return results, nil
}

// simulateTime returns the simulated minutes over the course and whether the
// car retired. Minutes are computed even for a DNF so the all-retired fallback
// can pick the genuinely fastest car.
func simulateTime(car models.Car, distanceKM float64, track Track, rng *rand.Rand) (float64, bool) {
	// Handling 50..100 maps to a 0.5..1.0 speed scale.
	handlingScale := 0.5 + (clamp(float64(car.Handling), 50, 100)-50)/100.0
	// Quicker 0-100 times give a small pace boost, capped both ways.
	accelScale := clamp(1.0+(6.0-car.Acceleration0100S)*0.02, 0.9, 1.05)

	minutes := 0.0
	for _, seg := range track.segments() {
		variation := 0.92 + rng.Float64()*0.16
		speed := car.TopSpeedKMH * handlingScale * accelScale * seg.speed * seg.handling * variation
		if speed < 60.0 {
			speed = 60.0
		}
		minutes += distanceKM * seg.share / speed * 60.0
	}

	finishProbability := clamp(car.Reliability, 0.05, 0.99)
	dnf := rng.Float64() > finishProbability
	if !dnf {
		minutes *= 0.98 + rng.Float64()*0.07
	}
	return minutes, dnf
}

// rankResults orders finishers by ascending time before all DNF cars and
// assigns positions 1..N. Ties break on the lowest car ID so a fixed seed
// always yields the same order regardless of entrant insertion order.
func rankResults(results []models.RaceResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Status == models.ResultFinished) != (b.Status == models.ResultFinished) {
			return a.Status == models.ResultFinished
		}
		if a.FinishTimeMinutes != nil && b.FinishTimeMinutes != nil &&
			*a.FinishTimeMinutes != *b.FinishTimeMinutes {
			return *a.FinishTimeMinutes < *b.FinishTimeMinutes
		}
		return a.CarID < b.CarID
	})
	for i := range results {
		results[i].Position = i + 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
