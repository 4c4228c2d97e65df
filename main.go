package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pizza-detective/internal/config"
	"github.com/robalobadob/pizza-detective/internal/game"
	"github.com/robalobadob/pizza-detective/internal/httpserver"
	"github.com/robalobadob/pizza-detective/internal/store"
	"github.com/robalobadob/pizza-detective/internal/toppings"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	cat, err := toppings.Load(cfg.ToppingsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.ToppingsFile).Msg("failed to load topping catalog")
	}
	// Fail fast on a K the catalog cannot satisfy instead of on the first /game/new.
	if _, err := game.New(cat, game.WithToppingsPerPizza(cfg.ToppingsPerPizza)); err != nil {
		log.Fatal().Err(err).Msg("invalid game settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go store.Janitor(ctx, mem, time.Minute, cfg.SessionTTL)

	srv := httpserver.New(mem, httpserver.Options{
		Catalog:               cat,
		ToppingsPerPizza:      cfg.ToppingsPerPizza,
		FreshGuessAfterSubmit: cfg.FreshGuessAfterSubmit,
		SessionSecret:         cfg.SessionSecret,
		DailySalt:             cfg.DailySalt,
		ClientOrigin:          cfg.ClientOrigin,
		Production:            cfg.Production,
	})
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Int("toppings", cat.Len()).Int("perPizza", cfg.ToppingsPerPizza).Msg("starting pizza-detective")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
