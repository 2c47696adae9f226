package command

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/lixenwraith/liquid-glass/glass"
)

// Bounds is a closed numeric interval
type Bounds struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Contains reports whether v lies within [Min, Max]
func (b Bounds) Contains(v float32) bool {
	return v >= b.Min && v <= b.Max
}

// parseBool maps boolean-ish text; current is the value "toggle" flips
// Unrecognized text resolves to true and recognized is false
func parseBool(tok string, current bool) (value, recognized bool) {
	switch strings.ToLower(tok) {
	case "1", "yes", "on", "true", "enable", "enabled", "active":
		return true, true
	case "0", "no", "off", "false", "disable", "disabled", "inactive":
		return false, true
	case "toggle":
		return !current, true
	default:
		return true, false
	}
}

// parseSurface matches the label set exactly
func parseSurface(param, tok string) (glass.SurfaceType, error) {
	s, ok := glass.ParseSurface(tok)
	if !ok {
		return 0, &InvalidEnumError{Param: param, Token: tok, Valid: glass.SurfaceLabels()}
	}
	return s, nil
}

// parseFloat converts the whole token and range-checks it against b when non-nil
// Without bounds a token that overflows float32 is not a usable number
func parseFloat(param, tok string, b *Bounds) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && b != nil && !math.IsNaN(f) {
			return 0, &OutOfRangeError{Param: param, Token: tok, Min: float64(b.Min), Max: float64(b.Max)}
		}
		return 0, &MalformedNumberError{Param: param, Token: tok}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedNumberError{Param: param, Token: tok}
	}

	v := float32(f)
	if b != nil && !b.Contains(v) {
		return 0, &OutOfRangeError{Param: param, Token: tok, Min: float64(b.Min), Max: float64(b.Max)}
	}
	return v, nil
}
