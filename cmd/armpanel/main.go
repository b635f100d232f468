package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config   string `short:"c" long:"config" default:"armpanel.json" description:"Configuration file"`
	BaseURL  string `long:"base-url" description:"Robot controller API address, e.g. http://192.168.43.94:3000/api"`
	LogFile  string `long:"log-file" description:"Log file for the panel (default from config)"`
	LogLevel string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`

	Init     InitCommand     `command:"init" description:"Write a configuration file"`
	Panel    PanelCommand    `command:"panel" alias:"ui" description:"Open the control panel"`
	Servo    ServoCommand    `command:"servo" description:"Move a single servo"`
	Pick     PickCommand     `command:"pick" description:"Pick a package"`
	Conveyor ConveyorCommand `command:"conveyor" description:"Start or stop the conveyor belt"`
	Reset    ResetCommand    `command:"reset" description:"Return the arm to its initial position"`
	Mock     MockCommand     `command:"mock" description:"Serve a mock robot controller"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "armpanel - control panel for the robot arm rig"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
