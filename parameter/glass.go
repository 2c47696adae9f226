package parameter

// Liquid Glass Parameter Bounds
// All intervals are closed; a value equal to either bound is accepted
const (
	BezelWidthMin = 0.0
	BezelWidthMax = 500.0

	ThicknessMin = 0.0
	ThicknessMax = 20.0

	// RefractionIndexMin is vacuum; anything below would bend light outward
	RefractionIndexMin = 1.0
	RefractionIndexMax = 5.0

	SpecularOpacityMin = 0.0
	SpecularOpacityMax = 1.0

	BrightnessBoostMin = 0.0
	BrightnessBoostMax = 10.0

	SaturationBoostMin = 0.0
	SaturationBoostMax = 10.0

	NoiseIntensityMin = 0.0
	NoiseIntensityMax = 1.0

	ChromaticAberrationMin = 0.0
	ChromaticAberrationMax = 100.0
)

// Liquid Glass Defaults
// Applied once at process start, before any directive runs
const (
	DefaultGlassEnabled        = false
	DefaultSurface             = "convex_squircle"
	DefaultBezelWidth          = 20.0
	DefaultThickness           = 6.0
	DefaultRefractionIndex     = 1.5
	DefaultSpecularEnabled     = true
	DefaultSpecularOpacity     = 0.4
	DefaultSpecularAngle       = 45.0 // Degrees, light source direction
	DefaultBrightnessBoost     = 1.0
	DefaultSaturationBoost     = 1.0
	DefaultNoiseIntensity      = 0.02
	DefaultChromaticAberration = 0.0
)
