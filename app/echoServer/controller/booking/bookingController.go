package booking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	bs "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid startDate"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid endDate"})
	}

	b, err := h.Svc.Create(c.Request().Context(), bs.CreateReq{
		ID:                 req.ID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		ScooterID:          req.ScooterID,
		Quantity:           req.Quantity,
		StartDate:          start,
		EndDate:            end,
		Delivery:           req.Delivery,
		DeliveryDistanceKm: req.DeliveryDistanceKm,
		DeliveryPlace:      req.DeliveryPlace,
		DeliveryLat:        req.DeliveryLat,
		DeliveryLng:        req.DeliveryLng,
		Insurance:          model.InsuranceTier(req.Insurance),
		AddOns:             req.AddOns,
		SurfRack:           req.SurfRack,
		PaymentOption:      model.PaymentOption(req.PaymentOption),
		PaymentMethod:      model.PaymentMethod(req.PaymentMethod),
		Timestamp:          time.UnixMilli(req.Timestamp).UTC(),
	})
	if err != nil {
		h.Log.Error("booking create", "err", err, "booking_id", req.ID)
		switch bs.Code(err) {
		case bs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case bs.ErrNoCapacity:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case bs.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking id already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, b)
}

// GET /v1/bookings
//
// Three shapes share the path: ?start=&end= answers availability for the
// booking form, ?id= narrows to one record, and the bare call lists all.
func (h *Controller) List(c echo.Context) error {
	if c.QueryParam("start") != "" && c.QueryParam("end") != "" {
		return h.Availability(c)
	}
	if id := c.QueryParam("id"); id != "" {
		b, err := h.Svc.Get(c.Request().Context(), id)
		if err != nil {
			if bs.Code(err) == bs.ErrNotFound {
				return c.JSON(http.StatusOK, echo.Map{"data": []model.Booking{}})
			}
			h.Log.Error("booking list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": []model.Booking{*b}})
	}

	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	b, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if bs.Code(err) == bs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		}
		h.Log.Error("booking detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/bookings/availability
func (h *Controller) Availability(c echo.Context) error {
	av, err := h.Svc.Availability(c.Request().Context())
	if err != nil {
		h.Log.Error("availability", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, av)
}

// PATCH /v1/bookings/:id
func (h *Controller) Patch(c echo.Context) error {
	var req PatchBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	var status *model.BookingStatus
	if req.Status != nil {
		st := model.BookingStatus(*req.Status)
		status = &st
	}
	b, err := h.Svc.Patch(c.Request().Context(), c.Param("id"), bs.PatchReq{
		Status:           status,
		AmountPaid:       req.AmountPaid,
		PaymentMethodLbl: req.PaymentMethodLbl,
		PaymentReference: req.PaymentReference,
		PaidAt:           req.PaidAt,
	})
	if err != nil {
		h.Log.Error("booking patch", "err", err, "booking_id", c.Param("id"))
		switch bs.Code(err) {
		case bs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case bs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case bs.ErrBadTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /v1/bookings/:id
func (h *Controller) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if bs.Code(err) == bs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		}
		h.Log.Error("booking delete", "err", err, "booking_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// parseDate accepts the form's plain date as well as full RFC3339 stamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t.UTC(), err
}
