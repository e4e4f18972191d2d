package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/mindengage-quiz/internal/api/http"
	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/logger"
	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config depends on cfg, so fall back to a development logger
		log, _ := logger.New("development")
		log.Fatal("config load failed", "error", err)
	}

	mode := "development"
	if cfg.Production() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- history medium ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	kv, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal("kv open failed", "driver", cfg.KVDriver, "error", err)
	}
	defer kv.Close()

	hist := history.NewStore(kv, cfg.HistoryKey, log.With("component", "history"))
	st := hist.Load(ctx)

	// --- router ---
	sessions := api.NewSessions(nil)
	handler := api.NewRouter(api.RouterConfig{
		History:        hist,
		Sessions:       sessions,
		Log:            log.With("component", "http"),
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AdminUser:      cfg.AdminUser,
		AdminPassHash:  cfg.AdminPassHash,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			"addr", cfg.HTTPAddr,
			"env", cfg.AppEnv,
			"kv", cfg.KVDriver,
			"sources", len(st.Sources),
			"attempts", len(st.Attempts),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sessions.RunEviction(gctx, cfg.SessionIdleTTL, time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
