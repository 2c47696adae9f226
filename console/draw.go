package console

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
	"github.com/lixenwraith/liquid-glass/status"
)

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleOn       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleOff      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleNormal   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleCommand  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// paramRow is one line of the parameter table
type paramRow struct {
	label string
	value string
	on    bool // Value is a boolean that is set
	flag  bool // Value is a boolean
}

func paramRows(p glass.Params) []paramRow {
	num := func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
	flag := func(label string, v bool) paramRow {
		s := "off"
		if v {
			s = "on"
		}
		return paramRow{label: label, value: s, on: v, flag: true}
	}
	return []paramRow{
		flag("enabled", p.Enabled),
		{label: "surface", value: p.Surface.String()},
		{label: "bezel width", value: num(p.BezelWidth)},
		{label: "thickness", value: num(p.Thickness)},
		{label: "refraction index", value: num(p.RefractionIndex)},
		flag("specular", p.SpecularEnabled),
		{label: "specular opacity", value: num(p.SpecularOpacity)},
		{label: "specular angle", value: num(p.SpecularAngle)},
		{label: "brightness boost", value: num(p.BrightnessBoost)},
		{label: "saturation boost", value: num(p.SaturationBoost)},
		{label: "noise intensity", value: num(p.NoiseIntensity)},
		{label: "chromatic aberration", value: num(p.ChromaticAberration)},
	}
}

func (c *Console) draw() {
	c.screen.Clear()
	if c.width <= 0 || c.height <= parameter.TopMargin+parameter.BottomMargin {
		c.screen.Show()
		return
	}
	if !c.eng.Tree().Exists(c.selected) {
		c.selected = 0
	}

	f := c.eng.Frame()
	global := c.eng.Config().Load()

	c.drawTitle(f.Number)
	c.drawParams(global)
	c.drawNodes(f)
	c.drawStatusBar()
	c.drawCommandLine()
	c.screen.Show()
}

func (c *Console) drawTitle(frame uint64) {
	c.fill(0, styleTitle)
	title := fmt.Sprintf(" liquid-glass   gen %d   frame %d   nodes %d ",
		c.eng.Config().Generation(), frame, c.eng.Tree().Len())
	c.text(0, 0, title, styleTitle)
}

func (c *Console) drawParams(p glass.Params) {
	y := parameter.TopMargin + 1
	c.text(1, y, "PARAMETER", styleHeader)
	c.text(1+parameter.ParamColumnWidth, y, "VALUE", styleHeader)
	for _, row := range paramRows(p) {
		y++
		if y >= c.height-parameter.BottomMargin {
			return
		}
		c.text(1, y, row.label, styleLabel)
		style := styleDefault
		if row.flag {
			style = styleOff
			if row.on {
				style = styleOn
			}
		}
		c.text(1+parameter.ParamColumnWidth, y, row.value, style)
	}
}

// drawNodes lists global then each node with its override and rendered state
func (c *Console) drawNodes(f *engine.Frame) {
	x := 1 + parameter.ParamColumnWidth + 16
	y := parameter.TopMargin + 1
	c.text(x, y, "SCOPE", styleHeader)

	y++
	line := "global"
	style := styleDefault
	if c.selected == 0 {
		style = styleSelected
	}
	c.text(x, y, line, style)

	for _, n := range c.eng.Tree().Nodes() {
		y++
		if y >= c.height-parameter.BottomMargin {
			return
		}
		eff, ok := f.Effective(n.ID)
		if !ok {
			eff = glass.Resolve(f.Global, n.Override)
		}
		override := "inherit"
		if n.Override.Set {
			override = onOff(n.Override.Enabled)
		}
		line = fmt.Sprintf("%3d %-14s %-7s %s", n.ID, truncate(n.Name, 14), override, onOff(eff.Enabled))

		style = styleOff
		if eff.Enabled {
			style = styleOn
		}
		if n.ID == c.selected {
			style = styleSelected
		}
		c.text(x, y, line, style)
	}
}

func (c *Console) drawStatusBar() {
	y := c.height - 2
	x := 0

	modeText, modeStyle := parameter.ModeTextNormal, styleNormal
	if c.mode == ModeCommand {
		modeText, modeStyle = parameter.ModeTextCommand, styleCommand
	}
	x = c.text(x, y, modeText, modeStyle) + 1

	if c.audible.Load() {
		x = c.text(x, y, parameter.AudioStr, styleOn)
	}

	scope := "global"
	if c.selected != 0 {
		scope = "node " + strconv.FormatUint(uint64(c.selected), 10)
	}
	reg := c.eng.Status()
	x = c.text(x, y, fmt.Sprintf("[%s] ok %d rejected %d frame %.2fms ", scope,
		reg.Ints.Get(status.DirectivesOK).Load(), reg.Ints.Get(status.DirectivesRejected).Load(),
		reg.Floats.Get(status.FrameMillis).Get()), styleLabel)

	if msg, isErr := c.status(); msg != "" {
		style := styleDefault
		if isErr {
			style = styleError
		}
		c.text(x+1, y, msg, style)
	}
}

func (c *Console) drawCommandLine() {
	if c.mode != ModeCommand {
		return
	}
	y := c.height - 1
	x := c.text(0, y, ":"+string(c.input), styleDefault)
	if x < c.width {
		c.screen.SetContent(x, y, parameter.StatusCursorChar, nil, styleDefault)
	}
}

// text draws s at (x, y), clipped to the screen, and returns the next column
func (c *Console) text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= c.width {
			break
		}
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (c *Console) fill(y int, style tcell.Style) {
	for x := 0; x < c.width; x++ {
		c.screen.SetContent(x, y, ' ', nil, style)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
