// Package main scooter rental API.
//
// @title           Siargao Scooter Rentals API
// @version         1.0
// @description     Booking, pricing and payment reconciliation for the rental fleet.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer"
	authctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/auth"
	bookingctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/booking"
	cryptoctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/crypto"
	inventoryctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/inventory"
	paymentctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/payment"
	paymentlinkctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/paymentlink"
	pricingctrl "github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/controller/pricing"
	"github.com/InkaFilipinka/scooter-website-sub000/app/echoServer/validation"
	"github.com/InkaFilipinka/scooter-website-sub000/config"
	bookingrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/booking"
	chainrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/chain"
	checkoutrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/checkout"
	inventoryrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/inventory"
	notifyrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/notify"
	paymentlinkrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/paymentlink"
	ratesrepo "github.com/InkaFilipinka/scooter-website-sub000/repository/rates"
	authsvc "github.com/InkaFilipinka/scooter-website-sub000/service/auth"
	bookingsvc "github.com/InkaFilipinka/scooter-website-sub000/service/booking"
	cryptosvc "github.com/InkaFilipinka/scooter-website-sub000/service/crypto"
	inventorysvc "github.com/InkaFilipinka/scooter-website-sub000/service/inventory"
	paymentsvc "github.com/InkaFilipinka/scooter-website-sub000/service/payment"
	paymentlinksvc "github.com/InkaFilipinka/scooter-website-sub000/service/paymentlink"
	"github.com/InkaFilipinka/scooter-website-sub000/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ir := inventoryrepo.New(db)
	br := bookingrepo.New(db)
	plr := paymentlinkrepo.New(db)
	cor := checkoutrepo.NewHTTP(cfg.CheckoutAPIKey, cfg.CheckoutWebhookSecret, cfg.CheckoutBaseURL)
	chr := chainrepo.NewHTTP(cfg.Chains)
	rr := ratesrepo.NewHTTP(cfg.RateAPIURL, cfg.RateFallback)
	nr := notifyrepo.New(db, cfg.NotifyURL)

	// services
	as := authsvc.New(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret)
	bs := bookingsvc.New(br, ir, log)
	is := inventorysvc.New(ir)
	pls := paymentlinksvc.New(plr)
	ps := paymentsvc.New(bs, cor, nr, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, log)
	cs := cryptosvc.New(bs, chr, rr, nr, cfg.Chains, cfg.CryptoFeePct, cfg.OperatorWallet, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	inventoryC := &inventoryctrl.Controller{Svc: is, V: v, Log: log}
	pricingC := &pricingctrl.Controller{V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, V: v, Log: log}
	cryptoC := &cryptoctrl.Controller{Svc: cs, V: v, Log: log}
	paymentlinkC := &paymentlinkctrl.Controller{Svc: pls, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Booking:     bookingC,
		Inventory:   inventoryC,
		Pricing:     pricingC,
		Payment:     paymentC,
		Crypto:      cryptoC,
		PaymentLink: paymentlinkC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
