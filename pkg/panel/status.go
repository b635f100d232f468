package panel

// Status texts with fixed meaning. Any other status is a progress message.
const (
	StatusIdle  = "Idle"
	StatusError = "Error"
)

// StatusClass selects how a status is styled.
type StatusClass int

const (
	ClassTransitional StatusClass = iota
	ClassNominal
	ClassError
)

func (c StatusClass) String() string {
	switch c {
	case ClassNominal:
		return "nominal"
	case ClassError:
		return "error"
	default:
		return "transitional"
	}
}

// Classify maps a status text to its display class: "Idle" is nominal,
// "Error" is an error and everything else is in progress.
func Classify(status string) StatusClass {
	switch status {
	case StatusIdle:
		return ClassNominal
	case StatusError:
		return ClassError
	default:
		return ClassTransitional
	}
}
