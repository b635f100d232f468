package robot

// Limits bounds the angles a slider may send to a servo.
type Limits struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullRange returns the limits every servo accepts.
func FullRange() Limits {
	return Limits{Min: MinAngle, Max: MaxAngle}
}

// Clamp forces angle into [Min, Max].
func (l Limits) Clamp(angle int) int {
	if angle < l.Min {
		return l.Min
	}
	if angle > l.Max {
		return l.Max
	}
	return angle
}

// Fraction converts an angle to its position along the slider in [0, 1].
func (l Limits) Fraction(angle int) float64 {
	rangeSize := float64(l.Max - l.Min)
	if rangeSize == 0 {
		return 0
	}
	return float64(l.Clamp(angle)-l.Min) / rangeSize
}

// Step moves angle by delta degrees and clamps the result.
func (l Limits) Step(angle, delta int) int {
	return l.Clamp(angle + delta)
}
