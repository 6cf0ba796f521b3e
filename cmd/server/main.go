package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil is fine: middlewares degrade to pass-through without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	eventRepo := repository.NewEventRepo(db)
	regRepo := repository.NewRegistrationRepo(db)
	ticketRepo := repository.NewTicketRepo(db, regRepo)

	var gateway payment.Gateway
	switch cfg.PaymentProvider {
	case "http":
		gateway = payment.NewHTTPGateway(cfg.PaymentURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	default:
		log.Printf("using sandbox payment gateway")
		gateway = payment.NewSandboxGateway()
	}

	tickets := service.NewTicketService(regRepo, ticketRepo)
	registrations := service.NewRegistrationService(eventRepo, regRepo, tickets, gateway, cfg.RegistrationHoldTTL)
	checkIns := service.NewCheckInService(ticketRepo)
	events := service.NewEventService(eventRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Expired pending holds are swept back into the seat pool.
	reaper := service.NewReaper(eventRepo, regRepo, cfg.ReaperInterval)
	go reaper.Run(ctx)

	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Handlers{
		Events:        handler.NewEventHandler(events, registrations),
		Registrations: handler.NewRegistrationHandler(registrations),
		Tickets:       handler.NewTicketHandler(tickets),
		CheckIns:      handler.NewCheckInHandler(checkIns),
		Health:        handler.Health(db),
	}, rdb)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
