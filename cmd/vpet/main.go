package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/virtualpet/storefront/api"
	"github.com/virtualpet/storefront/auth"
	"github.com/virtualpet/storefront/cart"
	"github.com/virtualpet/storefront/checkout"
	"github.com/virtualpet/storefront/internal/config"
	"github.com/virtualpet/storefront/orders"
	"github.com/virtualpet/storefront/products"
	"github.com/virtualpet/storefront/session"
	"github.com/virtualpet/storefront/shell"
	"github.com/virtualpet/storefront/storage/sqlitekv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running storefront: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	logger := newLogger(c.GetLogLevel())

	db, err := sqlitekv.Open(c.DatabasePath())
	if err != nil {
		return fmt.Errorf("sqlitekv.Open %w", err)
	}
	defer db.Close()

	sessionStore := session.NewStore(db.Durable(), db.Session(), logger)
	if err := sessionStore.Hydrate(); err != nil {
		logger.Warn().Err(err).Msg("restoring saved session")
	}

	client := api.NewClient(c.GetAPIBaseURL(), c.GetHTTPTimeout(), sessionStore, logger)
	cartStore := cart.NewStore()

	sh := shell.New(shell.Deps{
		Session: sessionStore,
		Cart:    cartStore,
		Auth:    auth.NewService(client, sessionStore, logger),
		Catalog: products.NewCatalog(client, logger),
		Orders:  orders.NewService(client, logger),
	}, os.Stdin, os.Stdout, logger)

	coordinator := checkout.NewCoordinator(cartStore, sessionStore, client, db.Session(), sh, logger)
	defer coordinator.Close()
	sh.SetCoordinator(coordinator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shell.Run %w", err)
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
