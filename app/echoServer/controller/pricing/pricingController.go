package pricing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	ps "github.com/InkaFilipinka/scooter-website-sub000/service/pricing"
)

type PreviewReq struct {
	ScooterID          string   `json:"scooterId" validate:"required"`
	StartDate          string   `json:"startDate" validate:"required"`
	EndDate            string   `json:"endDate" validate:"required"`
	Insurance          string   `json:"insurance" validate:"required,oneof=full limited none"`
	Delivery           bool     `json:"delivery"`
	DeliveryDistanceKm float64  `json:"deliveryDistanceKm" validate:"gte=0"`
	AddOns             []string `json:"addOns"`
}

type Controller struct {
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/price/preview
//
// The preview runs the same computation the booking create path runs, so the
// number the customer sees is the number that gets stored.
func (h *Controller) Preview(c echo.Context) error {
	var req PreviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid startDate"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid endDate"})
	}

	q, err := ps.Compute(ps.Input{
		ScooterID:          req.ScooterID,
		StartDate:          start,
		EndDate:            end,
		Insurance:          model.InsuranceTier(req.Insurance),
		Delivery:           req.Delivery,
		DeliveryDistanceKm: req.DeliveryDistanceKm,
		AddOnIDs:           req.AddOns,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, q)
}
