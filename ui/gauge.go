package ui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/vescpad"
	"github.com/calvinmclean/vescpad/padcontrol"
)

// Gauge shows the output of the gamepad pipeline as a labeled bar centered on zero
type Gauge struct {
	name *widget.Label
	bar  *widget.ProgressBar

	unit     string
	decimals int
	value    float64
}

var _ padcontrol.Display = &Gauge{}

func NewGauge() *Gauge {
	g := &Gauge{
		name:     widget.NewLabel("Undefined"),
		bar:      widget.NewProgressBar(),
		decimals: 2,
	}
	g.bar.Min = -1
	g.bar.Max = 1
	g.bar.TextFormatter = g.Text
	return g
}

// Text is the value as shown on the bar
func (g *Gauge) Text() string {
	return fmt.Sprintf("%.*f%s", g.decimals, g.value, g.unit)
}

func (g *Gauge) Content() fyne.CanvasObject {
	return container.NewBorder(nil, nil, g.name, nil, g.bar)
}

func (g *Gauge) SetRange(r float64) {
	r = math.Abs(r)
	if r == 0 {
		r = 1
	}
	g.bar.Min = -r
	g.bar.Max = r
}

func (g *Gauge) SetUnit(unit string) {
	g.unit = unit
}

func (g *Gauge) SetName(name string) {
	if g.name.Text != name {
		g.name.SetText(name)
	}
}

func (g *Gauge) SetDecimals(d int) {
	g.decimals = d
}

// SetVal is called last on every update and refreshes the bar
func (g *Gauge) SetVal(v float64) {
	g.value = v
	g.bar.SetValue(v)
}

// AxisBars shows the raw reading of every gamepad axis
type AxisBars struct {
	bars [vescpad.NumAxes]*widget.ProgressBar
}

var _ padcontrol.AxisBars = &AxisBars{}

func NewAxisBars() *AxisBars {
	ab := &AxisBars{}
	for i := range ab.bars {
		bar := widget.NewProgressBar()
		bar.Min = -padcontrol.AxisScale
		bar.Max = padcontrol.AxisScale
		bar.TextFormatter = func() string {
			return fmt.Sprintf("%.0f", bar.Value)
		}
		ab.bars[i] = bar
	}
	return ab
}

func (ab *AxisBars) SetAxis(axis vescpad.Axis, value float64) {
	if !axis.Valid() {
		return
	}
	ab.bars[axis].SetValue(value)
}

// Value returns the last value shown for an axis
func (ab *AxisBars) Value(axis vescpad.Axis) float64 {
	if !axis.Valid() {
		return 0
	}
	return ab.bars[axis].Value
}

func (ab *AxisBars) Content() fyne.CanvasObject {
	form := widget.NewForm()
	for _, axis := range vescpad.Axes {
		form.Append(axis.String(), ab.bars[axis])
	}
	return form
}
