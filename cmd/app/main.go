package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tickflow/internal/app"
	"tickflow/internal/infra"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// Optional positional symbol, e.g. "tickflow BTC/USDT".
	symbol := flag.Arg(0)
	if symbol != "" && !strings.Contains(symbol, "/") {
		fmt.Fprintf(os.Stderr, "invalid symbol %q: expected BASE/QUOTE, e.g. BTC/USDT\n", symbol)
		os.Exit(2)
	}

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, symbol); err != nil {
		slog.Error("Bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch bootstrap.Config.App.Mode {
	case infra.ModeLive:
		err = bootstrap.RunLiveFromExchange(ctx)
	default:
		err = bootstrap.RunDemoOffline(ctx)
	}
	if err != nil {
		slog.Error("Run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
