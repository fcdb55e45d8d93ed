package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rallyhq/rallyapi/db"
	"github.com/rallyhq/rallyapi/models"
)

type carData struct {
	CarID             int     `json:"carID"`
	CarName           string  `json:"carName"`
	TeamID            int     `json:"teamID"`
	TeamName          string  `json:"teamName"`
	TopSpeedKMH       float64 `json:"topSpeedKmh"`
	Acceleration0100S float64 `json:"acceleration0100s"`
	Handling          int     `json:"handling"`
	Reliability       float64 `json:"reliability"`
	WeightKG          *int    `json:"weightKg,omitempty"`
}

type createCarRequest struct {
	TeamID            int     `json:"teamID"`
	CarName           string  `json:"carName"`
	TopSpeedKMH       float64 `json:"topSpeedKmh"`
	Acceleration0100S float64 `json:"acceleration0100s"`
	Handling          int     `json:"handling"`
	Reliability       float64 `json:"reliability"`
	WeightKG          *int    `json:"weightKg"`
}

func (r *createCarRequest) validate() string {
	r.CarName = strings.TrimSpace(r.CarName)
	switch {
	case r.CarName == "":
		return "carName is required"
	case r.TopSpeedKMH < 120 || r.TopSpeedKMH > 400:
		return "topSpeedKmh must be between 120 and 400"
	case r.Acceleration0100S < 2 || r.Acceleration0100S > 15:
		return "acceleration0100s must be between 2 and 15"
	case r.Handling < 50 || r.Handling > 100:
		return "handling must be between 50 and 100"
	case r.Reliability < 0.5 || r.Reliability > 1.0:
		return "reliability must be between 0.5 and 1.0"
	case r.WeightKG != nil && (*r.WeightKG < 800 || *r.WeightKG > 2000):
		return "weightKg must be between 800 and 2000"
	}
	return ""
}

// Cars returns all cars joined to their owning teams.
func (h *Handler) Cars(c echo.Context) error {
	cars, err := db.FetchCarsWithTeams(c.Request().Context(), h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result := make([]carData, len(cars))
	for i, car := range cars {
		result[i] = carData{
			CarID:             car.CarID,
			CarName:           car.CarName,
			TeamID:            car.TeamID,
			TopSpeedKMH:       car.TopSpeedKMH,
			Acceleration0100S: car.Acceleration0100S,
			Handling:          car.Handling,
			Reliability:       car.Reliability,
			WeightKG:          car.WeightKG,
		}
		if car.Team != nil {
			result[i].TeamName = car.Team.TeamName
		}
	}

	return c.JSON(http.StatusOK, result)
}

// CreateCar inserts a new car after validating attribute ranges and that the
// owning team exists.
func (h *Handler) CreateCar(c echo.Context) error {
	var req createCarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if msg := req.validate(); msg != "" {
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.Team)(nil)).
		Where("team_id = ?", req.TeamID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "team not found")
	}

	car := &models.Car{
		TeamID:            req.TeamID,
		CarName:           req.CarName,
		TopSpeedKMH:       req.TopSpeedKMH,
		Acceleration0100S: req.Acceleration0100S,
		Handling:          req.Handling,
		Reliability:       req.Reliability,
		WeightKG:          req.WeightKG,
	}

	if _, err := h.db.NewInsert().Model(car).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, car)
}
