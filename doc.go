// Package armpanel provides a control panel for a simple robot arm rig.
//
// Sliders set servo angles, buttons pick packages of different shapes and a
// guarded action returns the arm to its initial position. Commands are sent
// to the rig's robot controller over HTTP.
//
// # Installation
//
//	go install github.com/gwillem/armpanel/cmd/armpanel@latest
//
// # Usage
//
// Write a configuration file pointing at the controller:
//
//	armpanel init
//
// Then open the panel:
//
//	armpanel panel
//
// Without a rig, serve the mock controller and point the panel at it:
//
//	armpanel mock --listen :3000
//	armpanel --base-url http://localhost:3000/api panel
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/armpanel: CLI with panel, one-shot command and mock subcommands
//   - pkg/robot: Servo vectors, package shapes and configuration
//   - pkg/client: HTTP command client for the robot controller
//   - pkg/panel: Control panel state machine and terminal view
//   - pkg/mockctl: In-memory robot controller for development and tests
package armpanel
