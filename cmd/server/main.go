package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/config"
	"github.com/Skotchmaster/pizza_shop/internal/events"
	"github.com/Skotchmaster/pizza_shop/internal/httpserver"
	"github.com/Skotchmaster/pizza_shop/internal/jobs"
	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/mail"
	"github.com/Skotchmaster/pizza_shop/internal/menu"
	"github.com/Skotchmaster/pizza_shop/internal/payment"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
	"github.com/Skotchmaster/pizza_shop/internal/service"
	"github.com/Skotchmaster/pizza_shop/internal/store"
)

// producerOrNil keeps a nil producer a nil interface, so publishing stays
// disabled when no brokers are configured.
func producerOrNil(p *events.Producer) service.Publisher {
	if p == nil {
		return nil
	}
	return p
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	st, err := store.New(cfg.DataDir, repo.Collections()...)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	logger := logging.New(cfg.LogLevel, logging.Output(cfg.LogTarget, st, repo.LogsCollection))

	r := repo.New(st, logger)
	menuSource := menu.NewSource(st)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	}

	deps := &httpserver.Deps{
		Users:    service.NewUserService(r, producerOrNil(producer)),
		Auth:     service.NewAuthService(r, cfg.TokenTTL),
		Carts:    service.NewCartService(r, menuSource),
		Checkout: service.NewCheckoutService(r, menuSource, payment.NewClient(cfg.StripeAPIKey), producerOrNil(producer), cfg.TaxRate),
		Menu:     menuSource,
		Log:      logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	runner := &jobs.Runner{}
	runner.Add(&jobs.InvoiceMailer{
		Repo: r,
		Mail: mail.NewClient(cfg.MailgunAPIUser, cfg.MailgunAPIKey, cfg.MailDomain),
		From: cfg.MailFrom,
	}, cfg.InvoiceSenderInterval)
	runner.Add(&jobs.TokenSweeper{Repo: r}, cfg.TokensCleanupInterval)
	runner.Add(&jobs.LogArchiver{Store: st}, cfg.LogsArchiverInterval)
	go runner.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	httpserver.Register(e, deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_stopped", "error", err)
			stop()
		}
	}()
	logger.Info("server_started", "port", cfg.Port, "data_dir", cfg.DataDir)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
}
