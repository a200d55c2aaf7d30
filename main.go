package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	Cd "github.com/maroda/circadia/display"
	Co "github.com/maroda/circadia/obvy"
	Cs "github.com/maroda/circadia/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := Cs.Load(ctx)
	if err != nil {
		slog.Error("Problem reading configuration", slog.Any("Error", err))
		os.Exit(1)
	}
	logger, closeLog := newLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	otelShutdown, err := Co.InitOTel(cfg.OTelMode)
	if err != nil {
		slog.Error("Problem starting OTel", slog.Any("Error", err))
		os.Exit(1)
	}
	defer otelShutdown()

	slog.Info("Circadia starting",
		slog.String("ui", cfg.UI),
		slog.String("port", cfg.Port),
		slog.String("estrus", cfg.EstrusSource),
		slog.String("nonEstrus", cfg.NonEstrusSource))

	if err := Cd.Start(ctx, cfg); err != nil {
		slog.Error("Problem running Circadia", slog.Any("Error", err))
		otelShutdown()
		closeLog()
		os.Exit(1)
	}
}

// newLogger writes to stderr, or to a file when the terminal owns the screen.
// The returned func closes that file.
func newLogger(cfg *Cs.Config) (*slog.Logger, func()) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	out := os.Stderr
	closeLog := func() {}
	if cfg.UI == "tui" {
		f, err := os.OpenFile("circadia.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
			closeLog = func() { _ = f.Close() }
		}
	}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(out, opts)), closeLog
	}
	return slog.New(slog.NewTextHandler(out, opts)), closeLog
}
