package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/client"
	"github.com/spec-kit/diet-tracker/internal/client/session"
	"github.com/spec-kit/diet-tracker/internal/config"
	"github.com/spec-kit/diet-tracker/internal/observability"
	"github.com/spec-kit/diet-tracker/internal/persistence"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := newTokenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.Error(err))
	}
	defer closeTokens()

	app := client.New(client.Options{
		BaseURL: cfg.APIURL,
		Tokens:  tokens,
		Logger:  logger,
	})
	app.OnNotice(func(n session.Notice) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", n.Heading, n.Message)
	})

	if err := run(ctx, app, os.Stdout, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newTokenStore(ctx context.Context, cfg *config.ClientConfig, logger *zap.Logger) (session.TokenStore, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return session.NewMemoryStore(), func() {}, nil
	case config.TokenStoreRedis:
		if cfg.Redis.Addr == "" {
			return nil, nil, errors.New("CLIENT_TOKEN_STORE=redis requires REDIS_ADDR")
		}
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		return session.NewRedisStore(rdb.Client, cfg.TokenKey), rdb.Close, nil
	default:
		return session.NewFileStore(cfg.HomeDir, cfg.TokenKey), func() {}, nil
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: dietctl <command> [flags]

commands:
  signup      register an account
  login       sign in and store the token
  logout      forget the stored token
  whoami      show the signed-in user
  foods       list entries (admins see everyone's)
  users       list users (admin)
  add         log a food entry
  edit        edit a food entry
  delete      delete food entries by id
  threshold   set a daily calorie threshold
  report      daily totals and threshold overruns`)
}
