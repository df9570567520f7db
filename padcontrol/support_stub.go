//go:build nogamepad

package padcontrol

// Supported is false when built with the nogamepad tag. Tick, Scan and arming become no-ops and
// IsUsingGamepadControl always returns false
const Supported = false
