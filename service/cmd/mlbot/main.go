// Command mlbot serves a trained move-selection bot over WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/schnapsen-lab/mlbot/engine/agent"
	"github.com/schnapsen-lab/mlbot/service/internal/botserver"
	"github.com/schnapsen-lab/mlbot/service/internal/config"
	"github.com/schnapsen-lab/mlbot/service/internal/ledger"
	"github.com/schnapsen-lab/mlbot/service/internal/logging"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	bot, err := newBot(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("cannot build bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	book, err := ledger.Open(openCtx, ledger.Options{
		Backend:     cfg.Ledger,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
	})
	cancel()
	if err != nil {
		log.WithError(err).Fatal("cannot open ledger")
	}
	defer book.Close()

	srv, err := botserver.New(bot, botserver.Options{
		BotName:   cfg.BotName,
		JWTSecret: cfg.JWTSecret,
		Ledger:    book,
		Logger:    log,
	})
	if err != nil {
		log.WithError(err).Fatal("cannot build server")
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr,
		"model":   cfg.Model,
		"profile": bot.Profile().Name(),
		"scoring": cfg.Scoring,
		"ledger":  cfg.Ledger,
		"auth":    cfg.JWTSecret != "",
	}).Info("mlbot listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("mlbot stopped")
}

// newBot loads the configured model and wraps it in a Bot. Any mismatch
// between model, profile and scoring mode is reported here.
func newBot(cfg *config.Config, log logrus.FieldLogger) (*agent.Bot, error) {
	profile, err := agent.LookupProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}
	scoring, err := agent.ParseScoringMode(cfg.Scoring)
	if err != nil {
		return nil, err
	}
	oracle, err := agent.LoadOracle(cfg.ModelDir, cfg.Model, profile)
	if err != nil {
		return nil, err
	}
	return agent.NewBot(oracle, agent.Options{
		Profile:   profile,
		Scoring:   scoring,
		Randomize: cfg.Randomize,
		Logger:    log,
	})
}
