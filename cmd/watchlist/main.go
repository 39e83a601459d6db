// watchlist runs the subscription/reconciliation core with a stdin
// command prompt standing in for the UI collaborator.
//
// Commands:
//
//	login <user> <pass>   store credentials and connect
//	logout                clear credentials and disconnect
//	add <symbol>          subscribe a symbol
//	remove <name>         unsubscribe by name and drop the row
//	removeid <id>         unsubscribe by transport id and drop the row
//	status                print connection status
//	quit                  exit, keeping stored credentials
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/config"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/credstore"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/display"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/feed"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/session"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/version"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/watchlist"
)

var errQuit = errors.New("quit")

func main() {
	configPath := flag.String("config", "configs/watchlist.local.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting watchlist",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect the credential store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		logger.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}
	pingCancel()

	creds := credstore.NewRedisStore(rdb, cfg.Redis.CredentialKey)

	// Core state
	registry := watchlist.NewRegistry()
	store := watchlist.NewStore(registry)

	ctrl := session.NewController(session.Config{
		Feed: feed.ClientConfig{
			URL:              cfg.Feed.URL,
			HandshakeTimeout: cfg.Feed.HandshakeTimeout,
			WriteTimeout:     cfg.Feed.WriteTimeout,
			PingInterval:     cfg.Feed.PingInterval,
			PingTimeout:      cfg.Feed.PingTimeout,
			BufferSize:       cfg.Feed.EventBufferSize,
		},
		DefaultSymbols: cfg.Feed.DefaultSymbols,
	}, creds, store, nil, logger)
	defer ctrl.Close()

	// Reconnect with credentials from a previous run, if any.
	if err := ctrl.Resume(ctx); err != nil {
		logger.Error("failed to resume session", "error", err)
		os.Exit(1)
	}

	table := display.NewTableWriter(store, os.Stdout, cfg.Display.RefreshInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return table.Run(gctx)
	})
	g.Go(func() error {
		return runPrompt(gctx, ctrl, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		logger.Error("shutdown with error", "error", err)
		os.Exit(1)
	}

	logger.Info("watchlist stopped")
}

// runPrompt reads user commands until quit, EOF, or cancellation.
func runPrompt(ctx context.Context, ctrl *session.Controller, logger *slog.Logger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := handleCommand(ctx, ctrl, line, logger); err != nil {
				return err
			}
		}
	}
}

// handleCommand executes one prompt line.
func handleCommand(ctx context.Context, ctrl *session.Controller, line string, logger *slog.Logger) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	verb := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch verb {
	case "login":
		if len(fields) != 3 {
			fmt.Println("usage: login <user> <pass>")
			return nil
		}
		if err := ctrl.Login(ctx, fields[1], fields[2]); err != nil {
			logger.Error("login failed", "error", err)
		}

	case "logout":
		if err := ctrl.Logout(ctx); err != nil {
			logger.Error("logout failed", "error", err)
		}

	case "add":
		if rest == "" {
			fmt.Println("usage: add <symbol>")
			return nil
		}
		if err := ctrl.AddSymbol(rest); err != nil {
			fmt.Printf("add %q: %v\n", rest, err)
		}

	case "remove":
		if rest == "" {
			fmt.Println("usage: remove <name>")
			return nil
		}
		ctrl.RemoveSymbol(rest, "")

	case "removeid":
		if rest == "" {
			fmt.Println("usage: removeid <id>")
			return nil
		}
		ctrl.RemoveSymbol("", rest)

	case "status":
		fmt.Println(ctrl.Status())

	case "quit", "exit":
		return errQuit

	default:
		fmt.Printf("unknown command %q\n", verb)
	}

	return nil
}
