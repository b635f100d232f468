// Package robot provides the vocabulary shared by the arm panel: servo
// angle vectors, package shapes and the panel configuration.
package robot

import (
	"fmt"
	"slices"
)

// Angle bounds accepted by every servo, in degrees.
const (
	MinAngle = 0
	MaxAngle = 180
)

// DefaultServoCount is the number of servos on the rig.
const DefaultServoCount = 6

// Shape identifies a package shape the arm can pick.
type Shape string

// Package shapes known to the robot controller.
const (
	Circle   Shape = "circle"
	Square   Shape = "square"
	Triangle Shape = "triangle"
)

// AllShapes returns all shapes in button order.
func AllShapes() []Shape {
	return []Shape{
		Circle,
		Square,
		Triangle,
	}
}

// ParseShape converts a string to a Shape.
func ParseShape(s string) (Shape, error) {
	shape := Shape(s)
	if !slices.Contains(AllShapes(), shape) {
		return "", fmt.Errorf("unknown shape %q", s)
	}
	return shape, nil
}

// Label returns the capitalized button label for the shape.
func (s Shape) Label() string {
	switch s {
	case Circle:
		return "Circle"
	case Square:
		return "Square"
	case Triangle:
		return "Triangle"
	default:
		return string(s)
	}
}

// Positions holds one angle in degrees per servo, ordered by servo index.
type Positions []int

// InitialPositions returns the factory pose the controller restores on reset
// (base, shoulder, elbow, wrist pitch, wrist roll, gripper).
func InitialPositions() Positions {
	return Positions{90, 180, 180, 120, 0, 0}
}

// Clone returns an independent copy.
func (p Positions) Clone() Positions {
	return slices.Clone(p)
}

// Equal reports whether both vectors hold the same angles.
func (p Positions) Equal(other Positions) bool {
	return slices.Equal(p, other)
}

// Validate checks that every angle lies within [MinAngle, MaxAngle].
func (p Positions) Validate() error {
	for i, a := range p {
		if a < MinAngle || a > MaxAngle {
			return fmt.Errorf("servo %d: angle %d out of range [%d, %d]", i, a, MinAngle, MaxAngle)
		}
	}
	return nil
}
