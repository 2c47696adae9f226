package glass

import (
	"fmt"
	"strings"
)

// SurfaceType selects the lens profile used to bend the backdrop
type SurfaceType uint8

const (
	SurfaceConvexCircle SurfaceType = iota
	SurfaceConvexSquircle
	SurfaceConcave
	SurfaceLip
)

// surfaceLabels is indexed by SurfaceType; order is the order reported to operators
var surfaceLabels = [...]string{
	SurfaceConvexCircle:   "convex_circle",
	SurfaceConvexSquircle: "convex_squircle",
	SurfaceConcave:        "concave",
	SurfaceLip:            "lip",
}

// String returns the directive label of the surface
func (s SurfaceType) String() string {
	if int(s) < len(surfaceLabels) {
		return surfaceLabels[s]
	}
	return "unknown"
}

// MarshalText encodes the surface as its directive label
func (s SurfaceType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a directive label
func (s *SurfaceType) UnmarshalText(text []byte) error {
	v, ok := ParseSurface(string(text))
	if !ok {
		return fmt.Errorf("unknown surface %q, expected one of: %s", text, SurfaceLabelList())
	}
	*s = v
	return nil
}

// ParseSurface matches label exactly, case-sensitive
func ParseSurface(label string) (SurfaceType, bool) {
	for i, l := range surfaceLabels {
		if l == label {
			return SurfaceType(i), true
		}
	}
	return 0, false
}

// SurfaceLabels returns all valid labels in declaration order
func SurfaceLabels() []string {
	out := make([]string, len(surfaceLabels))
	copy(out, surfaceLabels[:])
	return out
}

// SurfaceLabelList returns the labels joined for error and help text
func SurfaceLabelList() string {
	return strings.Join(surfaceLabels[:], ", ")
}
