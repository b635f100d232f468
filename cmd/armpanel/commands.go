package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/armpanel/pkg/robot"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func report(message string, err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		return err
	}
	fmt.Println(successStyle.Render(message))
	return nil
}

type ServoCommand struct {
	ID    int `long:"id" required:"true" description:"Servo index, starting at 0"`
	Angle int `long:"angle" required:"true" description:"Target angle in degrees (0-180)"`
}

func (c *ServoCommand) Execute(args []string) error {
	if c.Angle < robot.MinAngle || c.Angle > robot.MaxAngle {
		return fmt.Errorf("angle %d out of range [%d, %d]", c.Angle, robot.MinAngle, robot.MaxAngle)
	}

	cl, _, err := newCLIClient()
	if err != nil {
		return err
	}

	_, err = cl.SetServoPosition(context.Background(), c.ID, c.Angle)
	return report(fmt.Sprintf("Servo %d moved to position %d°", c.ID+1, c.Angle), err)
}

type PickCommand struct {
	Shape string `long:"shape" required:"true" choice:"circle" choice:"square" choice:"triangle" description:"Package shape"`
}

func (c *PickCommand) Execute(args []string) error {
	shape, err := robot.ParseShape(c.Shape)
	if err != nil {
		return err
	}

	cl, _, err := newCLIClient()
	if err != nil {
		return err
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("Picking %s package...", shape)))
	resp, err := cl.PickPackage(context.Background(), shape)
	if err != nil {
		return report("", err)
	}
	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Picked %s package", shape)
	}
	return report(msg, nil)
}

type ConveyorCommand struct {
	Run  bool `long:"run" description:"Start the conveyor belt"`
	Stop bool `long:"stop" description:"Stop the conveyor belt"`
}

func (c *ConveyorCommand) Execute(args []string) error {
	if c.Run == c.Stop {
		return errors.New("specify exactly one of --run or --stop")
	}

	cl, _, err := newCLIClient()
	if err != nil {
		return err
	}

	_, err = cl.SetConveyorState(context.Background(), c.Run)
	if c.Run {
		return report("Conveyor belt started.", err)
	}
	return report("Conveyor belt stopped.", err)
}

type ResetCommand struct {
	Yes bool `short:"y" long:"yes" description:"Skip the confirmation prompt"`
}

func (c *ResetCommand) Execute(args []string) error {
	cl, _, err := newCLIClient()
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed, err := confirmReset()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(dimStyle.Render("Reset cancelled."))
			return nil
		}
	}

	_, err = cl.SetInitialPosition(context.Background())
	return report("Robot returned to initial position", err)
}

func confirmReset() (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset to initial position?").
				Description("All servos will return to the factory pose.").
				Affirmative("Continue").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm reset: %w", err)
	}
	return confirmed, nil
}
