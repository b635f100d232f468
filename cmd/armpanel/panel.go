package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwillem/armpanel/pkg/client"
	"github.com/gwillem/armpanel/pkg/panel"
)

type PanelCommand struct {
	SettleMs int `long:"settle-ms" description:"Override how long a finished pick stays highlighted"`
}

func (c *PanelCommand) Execute(args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if c.SettleMs > 0 {
		cfg.PickSettleMs = c.SettleMs
	}

	logFile := rotatingLog(cfg.LogFile)
	defer logFile.Close()
	logger := newLogger(cfg.LogLevel, logFile)

	logger.Info("starting panel", "base_url", cfg.BaseURL, "servos", cfg.ServoCount)

	m := panel.New(client.New(cfg.BaseURL, client.WithLogger(logger)), panel.Options{
		Initial:    cfg.InitialPositions,
		PickSettle: cfg.PickSettle(),
		Logger:     logger,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}

	logger.Info("panel closed")
	return nil
}
