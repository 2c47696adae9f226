package command

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
)

// Directive names as typed by the operator
const (
	DirectiveToggle              = "liquid_glass"
	DirectiveSurface             = "liquid_glass_surface"
	DirectiveBezelWidth          = "liquid_glass_bezel_width"
	DirectiveThickness           = "liquid_glass_thickness"
	DirectiveRefractionIndex     = "liquid_glass_refraction_index"
	DirectiveSpecular            = "liquid_glass_specular"
	DirectiveSpecularOpacity     = "liquid_glass_specular_opacity"
	DirectiveSpecularAngle       = "liquid_glass_specular_angle"
	DirectiveBrightnessBoost     = "liquid_glass_brightness_boost"
	DirectiveSaturationBoost     = "liquid_glass_saturation_boost"
	DirectiveNoiseIntensity      = "liquid_glass_noise_intensity"
	DirectiveChromaticAberration = "liquid_glass_chromatic_aberration"
)

// commitFunc writes an already validated value; it cannot fail
type commitFunc func(p *glass.Params)

// Directive is one row of the validator table
type Directive struct {
	Name   string
	Param  string  // Human-readable parameter name used in errors
	Usage  string  // Argument hint for help output
	Bounds *Bounds // nil for non-numeric or unbounded parameters

	// Scoped directives honor a node target; all others always commit globally
	Scoped bool

	// AtLeast relaxes the exact single-token arity; extra tokens are ignored
	AtLeast bool

	// parse validates tok against the current params and returns the commit
	parse func(d *Directive, tok string, cur glass.Params) (commitFunc, error)
}

// checkArity validates the token count
func (d *Directive) checkArity(n int) error {
	if n == 1 || (d.AtLeast && n > 1) {
		return nil
	}
	return &ArityError{Directive: d.Name, Want: 1, AtLeast: d.AtLeast, Got: n}
}

func floatDirective(name, param string, bounds *Bounds, set func(p *glass.Params, v float32)) *Directive {
	usage := "<number>"
	if bounds != nil {
		usage = fmt.Sprintf("<%g-%g>", bounds.Min, bounds.Max)
	}
	return &Directive{
		Name:   name,
		Param:  param,
		Usage:  usage,
		Bounds: bounds,
		parse: func(d *Directive, tok string, _ glass.Params) (commitFunc, error) {
			v, err := parseFloat(d.Param, tok, d.Bounds)
			if err != nil {
				return nil, err
			}
			return func(p *glass.Params) { set(p, v) }, nil
		},
	}
}

func boolDirective(name, param string, get func(p glass.Params) bool, set func(p *glass.Params, v bool)) *Directive {
	return &Directive{
		Name:  name,
		Param: param,
		Usage: "<enable|disable|toggle>",
		parse: func(d *Directive, tok string, cur glass.Params) (commitFunc, error) {
			v, _ := parseBool(tok, get(cur))
			return func(p *glass.Params) { set(p, v) }, nil
		},
	}
}

var directives = buildTable()

func buildTable() map[string]*Directive {
	table := []*Directive{
		{
			Name:    DirectiveToggle,
			Param:   "liquid glass",
			Usage:   "<enable|disable|toggle>",
			Scoped:  true,
			AtLeast: true,
		},
		{
			Name:  DirectiveSurface,
			Param: "surface type",
			Usage: "<" + glass.SurfaceLabelList() + ">",
			parse: func(d *Directive, tok string, _ glass.Params) (commitFunc, error) {
				s, err := parseSurface(d.Param, tok)
				if err != nil {
					return nil, err
				}
				return func(p *glass.Params) { p.Surface = s }, nil
			},
		},
		floatDirective(DirectiveBezelWidth, "bezel width",
			&Bounds{parameter.BezelWidthMin, parameter.BezelWidthMax},
			func(p *glass.Params, v float32) { p.BezelWidth = v }),
		floatDirective(DirectiveThickness, "thickness",
			&Bounds{parameter.ThicknessMin, parameter.ThicknessMax},
			func(p *glass.Params, v float32) { p.Thickness = v }),
		floatDirective(DirectiveRefractionIndex, "refraction index",
			&Bounds{parameter.RefractionIndexMin, parameter.RefractionIndexMax},
			func(p *glass.Params, v float32) { p.RefractionIndex = v }),
		boolDirective(DirectiveSpecular, "specular",
			func(p glass.Params) bool { return p.SpecularEnabled },
			func(p *glass.Params, v bool) { p.SpecularEnabled = v }),
		floatDirective(DirectiveSpecularOpacity, "specular opacity",
			&Bounds{parameter.SpecularOpacityMin, parameter.SpecularOpacityMax},
			func(p *glass.Params, v float32) { p.SpecularOpacity = v }),
		floatDirective(DirectiveSpecularAngle, "specular angle", nil,
			func(p *glass.Params, v float32) { p.SpecularAngle = v }),
		floatDirective(DirectiveBrightnessBoost, "brightness boost",
			&Bounds{parameter.BrightnessBoostMin, parameter.BrightnessBoostMax},
			func(p *glass.Params, v float32) { p.BrightnessBoost = v }),
		floatDirective(DirectiveSaturationBoost, "saturation boost",
			&Bounds{parameter.SaturationBoostMin, parameter.SaturationBoostMax},
			func(p *glass.Params, v float32) { p.SaturationBoost = v }),
		floatDirective(DirectiveNoiseIntensity, "noise intensity",
			&Bounds{parameter.NoiseIntensityMin, parameter.NoiseIntensityMax},
			func(p *glass.Params, v float32) { p.NoiseIntensity = v }),
		floatDirective(DirectiveChromaticAberration, "chromatic aberration",
			&Bounds{parameter.ChromaticAberrationMin, parameter.ChromaticAberrationMax},
			func(p *glass.Params, v float32) { p.ChromaticAberration = v }),
	}

	m := make(map[string]*Directive, len(table))
	for _, d := range table {
		m[d.Name] = d
	}
	return m
}

// Lookup returns the directive registered under name
func Lookup(name string) (*Directive, bool) {
	d, ok := directives[name]
	return d, ok
}

// Directives returns every directive sorted by name
func Directives() []*Directive {
	out := make([]*Directive, 0, len(directives))
	for _, d := range directives {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
