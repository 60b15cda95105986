package quantity

import (
	"fmt"
	"strings"
)

// Mode selects the formula ApplyBulk uses.
type Mode string

const (
	// ModeNone is the unset mode; the bulk quantity is used as is.
	ModeNone Mode = ""
	// ModeFixed assigns the bulk quantity to every item.
	ModeFixed Mode = "fixed"
	// ModeVolume adds the bulk quantity to each item's volume.
	ModeVolume Mode = "volume"
	// ModeHeadcount adds the bulk quantity to the headcount.
	ModeHeadcount Mode = "headcount"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeNone, ModeFixed, ModeVolume, ModeHeadcount}
}

// ParseMode maps a boundary string to a Mode. The empty string is ModeNone.
func ParseMode(raw string) (Mode, error) {
	mode := Mode(strings.TrimSpace(raw))
	if !mode.Valid() {
		return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
	return mode, nil
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeFixed, ModeVolume, ModeHeadcount:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	return string(m)
}
