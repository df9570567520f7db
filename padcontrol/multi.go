package padcontrol

import "github.com/calvinmclean/vescpad"

// MultiDisplay fans display updates out to several displays
type MultiDisplay []Display

var _ Display = MultiDisplay{}

func (m MultiDisplay) SetRange(v float64) {
	for _, d := range m {
		d.SetRange(v)
	}
}

func (m MultiDisplay) SetUnit(v string) {
	for _, d := range m {
		d.SetUnit(v)
	}
}

func (m MultiDisplay) SetName(v string) {
	for _, d := range m {
		d.SetName(v)
	}
}

func (m MultiDisplay) SetDecimals(v int) {
	for _, d := range m {
		d.SetDecimals(v)
	}
}

func (m MultiDisplay) SetVal(v float64) {
	for _, d := range m {
		d.SetVal(v)
	}
}

// MultiAxisBars fans axis updates out to several bar sets
type MultiAxisBars []AxisBars

var _ AxisBars = MultiAxisBars{}

func (m MultiAxisBars) SetAxis(axis vescpad.Axis, value float64) {
	for _, b := range m {
		b.SetAxis(axis, value)
	}
}
