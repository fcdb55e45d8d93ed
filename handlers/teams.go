package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rallyhq/rallyapi/models"
)

type createTeamRequest struct {
	TeamName string   `json:"teamName"`
	Members  string   `json:"members"`
	Budget   *float64 `json:"budget"`
}

// Teams returns all teams with their current budgets, ordered by name.
func (h *Handler) Teams(c echo.Context) error {
	var teams []models.Team
	err := h.db.NewSelect().Model(&teams).
		OrderExpr("t.team_name ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, teams)
}

// CreateTeam inserts a new team. The starting budget falls back to the
// configured default when the request leaves it unset.
func (h *Handler) CreateTeam(c echo.Context) error {
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.TeamName = strings.TrimSpace(req.TeamName)
	if req.TeamName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "teamName is required")
	}

	budget := h.cfg.DefaultTeamBudget
	if req.Budget != nil {
		budget = *req.Budget
	}
	if budget < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "starting budget cannot be negative")
	}

	team := &models.Team{
		TeamName: req.TeamName,
		Members:  strings.TrimSpace(req.Members),
		Budget:   budget,
	}

	if _, err := h.db.NewInsert().Model(team).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			return echo.NewHTTPError(http.StatusConflict, "team already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, team)
}
