package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/auth"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/booking"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/crypto"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/inventory"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/payment"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/paymentlink"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/pricing"
)

type C struct {
	Auth        *auth.Controller
	Booking     *booking.Controller
	Inventory   *inventory.Controller
	Pricing     *pricing.Controller
	Payment     *payment.Controller
	Crypto      *crypto.Controller
	PaymentLink *paymentlink.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public: the customer-facing booking and payment flow
	pub := e.Group("/v1")
	pub.POST("/auth/login", c.Auth.Login)

	pub.POST("/bookings", c.Booking.Create)
	pub.GET("/bookings", c.Booking.List)
	pub.GET("/bookings/availability", c.Booking.Availability)
	pub.GET("/bookings/:id", c.Booking.Detail)

	pub.POST("/price/preview", c.Pricing.Preview)

	pub.POST("/payments/checkout", c.Payment.CreateCheckout)
	pub.POST("/payments/checkout/webhook", c.Payment.Webhook)
	pub.POST("/payments/checkout/confirm", c.Payment.Confirm)
	pub.POST("/payments/checkout/cancel", c.Payment.Cancel)

	pub.POST("/payments/crypto/quote", c.Crypto.Quote)
	pub.POST("/payments/crypto/confirm", c.Crypto.Confirm)

	// customers open payment links from a shared URL
	pub.GET("/payment-links/:id", c.PaymentLink.Detail)

	// Admin: dashboard routes behind the JWT
	admin := e.Group("/v1")
	admin.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	admin.Use(RequireAdmin())

	admin.PATCH("/bookings/:id", c.Booking.Patch)
	admin.DELETE("/bookings/:id", c.Booking.Delete)

	admin.GET("/inventory", c.Inventory.Get)
	admin.PUT("/inventory", c.Inventory.Set)

	admin.POST("/payment-links", c.PaymentLink.Create)
	admin.GET("/payment-links", c.PaymentLink.List)
	admin.PATCH("/payment-links/:id", c.PaymentLink.Patch)
	admin.DELETE("/payment-links/:id", c.PaymentLink.Delete)
}
