package crypto

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	cs "github.com/InkaFilipinka/scooter-website-sub000/service/crypto"
)

type QuoteReq struct {
	BookingID string `json:"bookingId" validate:"required"`
	Chain     string `json:"chain" validate:"required"`
	Wallet    string `json:"wallet" validate:"required"`
}

type ConfirmReq struct {
	BookingID string `json:"bookingId" validate:"required"`
	Chain     string `json:"chain" validate:"required"`
	TxHash    string `json:"txHash" validate:"required"`
}

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments/crypto/quote
func (h *Controller) Quote(c echo.Context) error {
	var req QuoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	q, err := h.Svc.GetQuote(c.Request().Context(), req.BookingID, req.Chain, req.Wallet)
	if err != nil {
		h.Log.Error("crypto quote", "err", err, "booking_id", req.BookingID, "chain", req.Chain)
		switch cs.Code(err) {
		case cs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case cs.ErrNotPayable, cs.ErrWrongRail:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case cs.ErrBadChain:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case cs.ErrFiatAmount, cs.ErrExchangeRate, cs.ErrTokenString,
			cs.ErrMinimumAmount, cs.ErrBaseUnits, cs.ErrWalletBalance:
			// a failed validation layer: the customer sees exactly which
			// check stopped the transfer
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, q)
}

// POST /v1/payments/crypto/confirm
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

	b, err := h.Svc.ConfirmTransfer(c.Request().Context(), req.BookingID, req.Chain, req.TxHash)
	if err != nil {
		h.Log.Error("crypto confirm", "err", err, "booking_id", req.BookingID, "tx", req.TxHash)
		switch cs.Code(err) {
		case cs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		case cs.ErrNotPayable, cs.ErrWrongRail:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case cs.ErrBadChain:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case cs.ErrUnconfirmed:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		case cs.ErrChain:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "chain lookup failed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}
