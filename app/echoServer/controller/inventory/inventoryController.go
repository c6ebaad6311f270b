package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	is "github.com/InkaFilipinka/scooter-website-sub000/service/inventory"
)

type SetInventoryReq struct {
	Available int `json:"available" validate:"gte=0"`
}

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/inventory
func (h *Controller) Get(c echo.Context) error {
	n, err := h.Svc.Get(c.Request().Context())
	if err != nil {
		h.Log.Error("inventory get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": n, "capacity": model.MaxFleet})
}

// PUT /v1/inventory
func (h *Controller) Set(c echo.Context) error {
	var req SetInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	n, err := h.Svc.Set(c.Request().Context(), req.Available)
	if err != nil {
		h.Log.Error("inventory set", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": n, "capacity": model.MaxFleet})
}
