package paymentlink

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/InkaFilipinka/scooter-website-sub000/model"
	pls "github.com/InkaFilipinka/scooter-website-sub000/service/paymentlink"
)

type CreateLinkReq struct {
	Amount        int64      `json:"amount" validate:"required,gt=0"`
	Description   string     `json:"description" validate:"required"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail" validate:"omitempty,email"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

type PatchLinkReq struct {
	Status        *string `json:"status" validate:"omitempty,oneof=paid cancelled"`
	PaymentMethod *string `json:"paymentMethod"`
	TransactionID *string `json:"transactionId"`
}

type Controller struct {
	Svc pls.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payment-links
func (h *Controller) Create(c echo.Context) error {
	var req CreateLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	l, err := h.Svc.Create(c.Request().Context(), pls.CreateReq{
		Amount:        req.Amount,
		Description:   req.Description,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		h.Log.Error("payment link create", "err", err)
		if pls.Code(err) == pls.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, l)
}

// GET /v1/payment-links
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("payment link list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/payment-links/:id
func (h *Controller) Detail(c echo.Context) error {
	l, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if pls.Code(err) == pls.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment link not found"})
		}
		h.Log.Error("payment link detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, l)
}

// PATCH /v1/payment-links/:id
func (h *Controller) Patch(c echo.Context) error {
	var req PatchLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	var status *model.PaymentLinkStatus
	if req.Status != nil {
		st := model.PaymentLinkStatus(*req.Status)
		status = &st
	}
	l, err := h.Svc.Patch(c.Request().Context(), c.Param("id"), pls.PatchReq{
		Status:        status,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		h.Log.Error("payment link patch", "err", err, "link_id", c.Param("id"))
		switch pls.Code(err) {
		case pls.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment link not found"})
		case pls.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case pls.ErrBadTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, l)
}

// DELETE /v1/payment-links/:id
func (h *Controller) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if pls.Code(err) == pls.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment link not found"})
		}
		h.Log.Error("payment link delete", "err", err, "link_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
