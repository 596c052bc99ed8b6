package keeper

// Mode is the selected nominal supply voltage.
type Mode int

const (
	Mode110 Mode = iota
	Mode220
	ModeOff
)

// Volts returns the nominal voltage for the mode. ModeOff reports 0.
func (m Mode) Volts() int {
	switch m {
	case Mode110:
		return 110
	case Mode220:
		return 220
	default:
		return 0
	}
}

// Next returns the mode selected by the next button press.
// The cycle is 110 V -> 220 V -> OFF -> 110 V.
func (m Mode) Next() Mode {
	switch m {
	case Mode110:
		return Mode220
	case Mode220:
		return ModeOff
	default:
		return Mode110
	}
}

func (m Mode) String() string {
	switch m {
	case Mode110:
		return "110V"
	case Mode220:
		return "220V"
	case ModeOff:
		return "OFF"
	default:
		return "unknown"
	}
}
