package vescpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlModeString(t *testing.T) {
	tests := []struct {
		mode     ControlMode
		expected string
		valid    bool
	}{
		{ControlModeCurrent, "Current", true},
		{ControlModeCurrentNoReverse, "Current No Reverse", true},
		{ControlModeDuty, "Duty Cycle", true},
		{ControlModeSpeed, "Speed", true},
		{ControlModePosition, "Position", true},
		{ControlMode(5), "Undefined", false},
		{ControlMode(-1), "Undefined", false},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.String())
			assert.Equal(t, tt.valid, tt.mode.Valid())
		})
	}
}

func TestSelectorOrder(t *testing.T) {
	for i, cm := range ControlModes {
		assert.Equal(t, ControlMode(i), cm)
	}
	assert.Len(t, Axes, NumAxes)
	for i, a := range Axes {
		assert.Equal(t, Axis(i), a)
		assert.True(t, a.Valid())
	}
	assert.False(t, Axis(NumAxes).Valid())
}
