package models

import (
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// Shift tags every sale with the working period it was made in.
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftNight   Shift = "night"
)

// ParseShift accepts only the known shifts; there is no default.
func ParseShift(s string) (Shift, error) {
	switch sh := Shift(s); sh {
	case ShiftMorning, ShiftNight:
		return sh, nil
	default:
		return "", fmt.Errorf("%w: unknown shift %q", common.ErrorInvalidInput, s)
	}
}
