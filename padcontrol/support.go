//go:build !nogamepad

package padcontrol

// Supported is true when built with gamepad support
const Supported = true
