// feedprobe dials the feed with explicit credentials and dumps
// classified frames to the console.
// Usage: go run ./cmd/feedprobe --user U --pass P [--url wss://...] [--verbose]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/config"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/feed"
)

func main() {
	url := flag.String("url", config.DefaultFeedURL, "feed websocket URL")
	user := flag.String("user", "", "feed user id")
	pass := flag.String("pass", "", "feed password")
	verbose := flag.Bool("verbose", false, "print raw frame JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if *user == "" || *pass == "" {
		logger.Error("user and pass are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := feed.DefaultClientConfig()
	cfg.URL = *url
	cfg.User = *user
	cfg.Pass = *pass

	client := feed.NewClient(cfg, logger)
	defer client.Close()

	if err := client.Connect(ctx); err != nil {
		logger.Error("dial failed", "error", err)
		os.Exit(1)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-client.Events():
			switch ev.Kind {
			case feed.EventOpen:
				logger.Info("connected")
			case feed.EventClose:
				logger.Info("closed", "error", ev.Err)
				return
			case feed.EventError:
				logger.Error("transport error", "error", ev.Err)
				return
			case feed.EventMessage:
				printFrame(ev.Data, *verbose)
			}
		}
	}
}

func printFrame(data []byte, verbose bool) {
	if verbose {
		fmt.Printf("raw: %s\n", data)
	}

	msg := feed.Parse(data)
	switch msg.Kind {
	case feed.KindHandshake:
		fmt.Printf("handshake: %q success=%v\n", msg.Handshake.Text, msg.Handshake.Success)
	case feed.KindSnapshot:
		for _, rec := range msg.Records {
			fmt.Printf("snapshot: %s id=%s ltp=%s vol=%s\n", rec.Name, rec.ID, rec.LTP, rec.Volume)
		}
	case feed.KindTrade:
		fmt.Printf("trade: id=%s ltp=%s time=%s\n", msg.Trade.ID, msg.Trade.LTP, msg.Trade.Time)
	default:
		fmt.Println("unrecognized frame")
	}
}
