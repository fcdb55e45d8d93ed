package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rallyhq/rallyapi/db"
	"github.com/rallyhq/rallyapi/models"
	"github.com/rallyhq/rallyapi/race"
)

type startRaceRequest struct {
	RaceName    string   `json:"raceName"`
	DistanceKM  *float64 `json:"distanceKm"`
	EntryFee    *float64 `json:"entryFee"`
	PrizeFirst  *float64 `json:"prizeFirst"`
	PrizeSecond *float64 `json:"prizeSecond"`
	PrizeThird  *float64 `json:"prizeThird"`
	Track       string   `json:"track"`
}

// resultRow is a flat scan target for the race results join query.
type resultRow struct {
	Position          int      `bun:"position"`
	CarID             int      `bun:"car_id"`
	CarName           string   `bun:"car_name"`
	TeamID            int      `bun:"team_id"`
	TeamName          string   `bun:"team_name"`
	FinishTimeMinutes *float64 `bun:"finish_time_minutes"`
	Status            string   `bun:"status"`
}

type resultJSON struct {
	Position          int      `json:"position"`
	CarID             int      `json:"carID"`
	CarName           string   `json:"carName"`
	TeamID            int      `json:"teamID"`
	TeamName          string   `json:"teamName"`
	FinishTimeMinutes *float64 `json:"finishTimeMinutes,omitempty"`
	Status            string   `json:"status"`
}

const resultsJoinSQL = `
SELECT
	rr.position, rr.car_id, cr.car_name, rr.team_id, t.team_name,
	rr.finish_time_minutes, rr.status
FROM race_results rr
INNER JOIN cars  cr ON rr.car_id  = cr.car_id
INNER JOIN teams t  ON rr.team_id = t.team_id
`

// StartRace fetches the full field of cars and team budgets, runs the
// simulation and settlement, persists the whole bundle in one transaction, and
// returns it.
func (h *Handler) StartRace(c echo.Context) error {
	var req startRaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	distance := h.cfg.RaceDistanceKM
	if req.DistanceKM != nil {
		distance = *req.DistanceKM
	}
	entryFee := h.cfg.EntryFee
	if req.EntryFee != nil {
		entryFee = *req.EntryFee
	}
	prizes := h.cfg.Prizes()
	if req.PrizeFirst != nil {
		prizes[0] = *req.PrizeFirst
	}
	if req.PrizeSecond != nil {
		prizes[1] = *req.PrizeSecond
	}
	if req.PrizeThird != nil {
		prizes[2] = *req.PrizeThird
	}

	ctx := c.Request().Context()
	budgets, err := db.FetchTeamBudgets(ctx, h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	cars, err := db.FetchCarsWithTeams(ctx, h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(cars) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no cars available, add cars first")
	}

	bundle, err := race.Run(race.RunParams{
		Name:       strings.TrimSpace(req.RaceName),
		DistanceKM: distance,
		Track:      race.Track(req.Track),
		EntryFee:   entryFee,
		Prizes:     prizes,
		Entrants:   cars,
		Budgets:    budgets,
		Rand:       h.newRand(),
	})
	if err != nil {
		switch {
		case errors.Is(err, race.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, race.ErrMissingTeam):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := db.SaveBundle(ctx, h.db, bundle); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	zap.L().Info("race completed",
		zap.Int("raceID", bundle.Race.RaceID),
		zap.String("raceName", bundle.Race.RaceName),
		zap.Int("entrants", len(bundle.Results)),
		zap.Int("transactions", len(bundle.Transactions)),
	)

	return c.JSON(http.StatusCreated, bundle)
}

// Races returns all races, newest first.
func (h *Handler) Races(c echo.Context) error {
	var races []models.Race
	err := h.db.NewSelect().Model(&races).
		OrderExpr("rc.race_id DESC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, races)
}

// RaceResults returns the ranked results for one race with car and team names.
func (h *Handler) RaceResults(c echo.Context) error {
	raceID := c.QueryParam("raceID")
	if raceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing raceID param")
	}

	var rows []resultRow
	q := resultsJoinSQL + `WHERE rr.race_id = ? ORDER BY rr.position`

	if err := h.db.NewRaw(q, raceID).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result := make([]resultJSON, len(rows))
	for i, row := range rows {
		result[i] = resultJSON{
			Position:          row.Position,
			CarID:             row.CarID,
			CarName:           row.CarName,
			TeamID:            row.TeamID,
			TeamName:          row.TeamName,
			FinishTimeMinutes: row.FinishTimeMinutes,
			Status:            row.Status,
		}
	}

	return c.JSON(http.StatusOK, result)
}

// Transactions returns ledger entries, newest first, optionally filtered by team.
func (h *Handler) Transactions(c echo.Context) error {
	var txns []models.Transaction
	q := h.db.NewSelect().Model(&txns).
		OrderExpr("tx.id DESC")

	if teamID := c.QueryParam("teamID"); teamID != "" {
		q = q.Where("tx.team_id = ?", teamID)
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, txns)
}
