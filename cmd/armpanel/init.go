package main

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/armpanel/pkg/robot"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

type InitCommand struct {
	Force bool `short:"f" long:"force" description:"Overwrite an existing configuration file"`
}

func (c *InitCommand) Execute(args []string) error {
	if robot.ConfigExists(opts.Config) && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", opts.Config)
	}

	fmt.Println(headerStyle.Render("armpanel init"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := robot.DefaultConfig()
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Robot controller address").
				Description("Base URL of the controller API").
				Value(&cfg.BaseURL).
				Validate(validateBaseURL),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		return nil
	}

	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println(successStyle.Render("Configuration saved to " + opts.Config))
	fmt.Println("Open the panel with: " + headerStyle.Render("armpanel panel"))
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("address must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("address has no host")
	}
	return nil
}
