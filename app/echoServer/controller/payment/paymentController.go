package payment

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ps "github.com/InkaFilipinka/scooter-website-sub000/service/payment"
)

type CheckoutReq struct {
	BookingID string `json:"bookingId" validate:"required"`
}

type ConfirmReq struct {
	BookingID string `json:"bookingId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}

type CancelReq struct {
	BookingID string `json:"bookingId" validate:"required"`
}

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments/checkout
func (h *Controller) CreateCheckout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.CreateCheckout(c.Request().Context(), req.BookingID)
	if err != nil {
		h.Log.Error("checkout create", "err", err, "booking_id", req.BookingID)
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case ps.ErrNotPayable, ps.ErrWrongRail:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case ps.ErrProvider:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment provider error"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /v1/payments/checkout/webhook
func (h *Controller) Webhook(c echo.Context) error {
	sig := c.Request().Header.Get("Paymongo-Signature")
	raw, _ := io.ReadAll(c.Request().Body)

	if err := h.Svc.HandleWebhook(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("checkout webhook", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "payment rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// POST /v1/payments/checkout/confirm
func (h *Controller) Confirm(c echo.Context) error {
	var req ConfirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b, err := h.Svc.ConfirmRedirect(c.Request().Context(), req.BookingID, req.SessionID)
	if err != nil {
		h.Log.Error("checkout confirm", "err", err, "booking_id", req.BookingID)
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case ps.ErrBookingMism:
			return c.JSON(http.StatusConflict, echo.Map{"message": "session does not match booking"})
		case ps.ErrNotPaid:
			return c.JSON(http.StatusConflict, echo.Map{"message": "session not paid"})
		case ps.ErrProvider:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment provider error"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// POST /v1/payments/checkout/cancel
func (h *Controller) Cancel(c echo.Context) error {
	var req CancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b, err := h.Svc.CancelRedirect(c.Request().Context(), req.BookingID)
	if err != nil {
		h.Log.Error("checkout cancel", "err", err, "booking_id", req.BookingID)
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}
