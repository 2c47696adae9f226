package glass

import "github.com/lixenwraith/liquid-glass/parameter"

// Params is one complete set of global effect parameters
// Values are immutable once published through Config
type Params struct {
	Enabled             bool        `json:"enabled" toml:"enabled"`
	Surface             SurfaceType `json:"surface" toml:"surface"`
	BezelWidth          float32     `json:"bezel_width" toml:"bezel_width"`
	Thickness           float32     `json:"thickness" toml:"thickness"`
	RefractionIndex     float32     `json:"refraction_index" toml:"refraction_index"`
	SpecularEnabled     bool        `json:"specular" toml:"specular"`
	SpecularOpacity     float32     `json:"specular_opacity" toml:"specular_opacity"`
	SpecularAngle       float32     `json:"specular_angle" toml:"specular_angle"`
	BrightnessBoost     float32     `json:"brightness_boost" toml:"brightness_boost"`
	SaturationBoost     float32     `json:"saturation_boost" toml:"saturation_boost"`
	NoiseIntensity      float32     `json:"noise_intensity" toml:"noise_intensity"`
	ChromaticAberration float32     `json:"chromatic_aberration" toml:"chromatic_aberration"`
}

// Defaults returns the startup parameter set
func Defaults() Params {
	surface, _ := ParseSurface(parameter.DefaultSurface)
	return Params{
		Enabled:             parameter.DefaultGlassEnabled,
		Surface:             surface,
		BezelWidth:          parameter.DefaultBezelWidth,
		Thickness:           parameter.DefaultThickness,
		RefractionIndex:     parameter.DefaultRefractionIndex,
		SpecularEnabled:     parameter.DefaultSpecularEnabled,
		SpecularOpacity:     parameter.DefaultSpecularOpacity,
		SpecularAngle:       parameter.DefaultSpecularAngle,
		BrightnessBoost:     parameter.DefaultBrightnessBoost,
		SaturationBoost:     parameter.DefaultSaturationBoost,
		NoiseIntensity:      parameter.DefaultNoiseIntensity,
		ChromaticAberration: parameter.DefaultChromaticAberration,
	}
}

// NodeID identifies a visual node in the scene tree, zero is never assigned
type NodeID uint64

// Override is the per-node enable state
// Zero value inherits the global Enabled flag
type Override struct {
	Set     bool `json:"set"`
	Enabled bool `json:"enabled"`
}

// Inherit is the override of a freshly created node
var Inherit = Override{}

// Force returns an override pinning the node to enabled
func Force(enabled bool) Override {
	return Override{Set: true, Enabled: enabled}
}

// Resolve returns the effective parameters for one node
// Only Enabled is overridable; all other fields always come from global
func Resolve(global Params, o Override) Params {
	if o.Set {
		global.Enabled = o.Enabled
	}
	return global
}
