package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/AxelPMont/reservas-canchas/internal/app"
	"github.com/AxelPMont/reservas-canchas/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := app.NewLogger("reservas-canchas")

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	appInstance := app.New(pool, cfg, logger)

	if cfg.AMQPURL != "" {
		pub, err := app.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "err", err)
			os.Exit(1)
		}
		defer pub.Close()
		appInstance.Pub = pub
		logger.Info("reservation events enabled", "exchange", cfg.AMQPExchange)
	}

	go appInstance.Hub.Run(ctx)
	go func() {
		if err := appInstance.ListenNotifications(ctx); err != nil && ctx.Err() == nil {
			logger.Error("reservation listener stopped", "err", err)
		}
	}()

	router := gin.Default()

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	api := router.Group("/api")
	api.POST("/auth/register", appInstance.RegisterHandler)
	api.POST("/auth/login", appInstance.LoginHandler)

	authed := api.Group("")
	authed.Use(appInstance.AuthMiddleware())
	{
		authed.GET("/auth/me", appInstance.MeHandler)
		authed.POST("/auth/logout", appInstance.LogoutHandler)

		authed.POST("/reservations", appInstance.CreateReservationHandler)
		authed.DELETE("/reservations/:id", appInstance.CancelReservationHandler)
		authed.GET("/reservations", appInstance.ListReservationsHandler)
		authed.GET("/reservations/mine", appInstance.ListMyReservationsHandler)
		authed.GET("/reservations/stream", appInstance.StreamReservationsHandler)
		authed.GET("/reservations/mine/stream", appInstance.StreamMyReservationsHandler)

		authed.GET("/slots", appInstance.GetSlotsHandler)
		authed.GET("/dates", appInstance.ListDatesHandler)

		authed.GET("/calendar/auth", appInstance.GoogleAuthHandler)
		authed.POST("/calendar/export", appInstance.ExportReservationsHandler)
	}

	server.Run(router, cfg.HTTPAddr)
}
