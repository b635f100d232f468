package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwillem/armpanel/pkg/mockctl"
)

type MockCommand struct {
	Listen  string `long:"listen" default:":3000" description:"Address to listen on"`
	DelayMs int    `long:"delay-ms" default:"100" description:"Simulated duration of each command"`
}

func (c *MockCommand) Execute(args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel, os.Stderr)

	ctl := mockctl.New(mockctl.Options{
		Initial:   cfg.InitialPositions,
		MoveDelay: time.Duration(c.DelayMs) * time.Millisecond,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ctl.ListenAndServe(ctx, c.Listen)
}
