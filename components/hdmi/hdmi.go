// Package hdmi defines the types shared between display-mode collaborators and HDMI
// transmitter drivers: display timings, power and hot-plug state, and the Transmitter
// interface itself.
package hdmi

import (
	"context"
	"fmt"
)

// ModeFlag is a bit set of timing properties.
type ModeFlag uint32

// Mode flags.
const (
	FlagInterlace ModeFlag = 1 << iota
	FlagNHSync
	FlagNVSync
	FlagDoubleClock
)

// Mode is a display timing descriptor. Pixel counts are in pixels, line counts in lines and
// the clock in kHz.
type Mode struct {
	Name string

	Clock int

	HDisplay   int
	HSyncStart int
	HSyncEnd   int
	HTotal     int

	VDisplay   int
	VSyncStart int
	VSyncEnd   int
	VTotal     int

	Flags ModeFlag
}

// Interlaced reports whether the mode is interlaced.
func (m Mode) Interlaced() bool {
	return m.Flags&FlagInterlace != 0
}

// NHSync reports whether the horizontal sync is active low.
func (m Mode) NHSync() bool {
	return m.Flags&FlagNHSync != 0
}

// NVSync reports whether the vertical sync is active low.
func (m Mode) NVSync() bool {
	return m.Flags&FlagNVSync != 0
}

// VRefresh returns the vertical refresh rate in Hz, rounded to the closest integer. An
// interlaced mode reports its field rate.
func (m Mode) VRefresh() int {
	if m.HTotal <= 0 || m.VTotal <= 0 {
		return 0
	}
	num := m.Clock * 1000
	den := m.HTotal * m.VTotal
	if m.Interlaced() {
		num *= 2
	}
	return (num + den/2) / den
}

func (m Mode) String() string {
	if m.Name != "" {
		return m.Name
	}
	scan := ""
	if m.Interlaced() {
		scan = "i"
	}
	return fmt.Sprintf("%dx%d@%d%s", m.HDisplay, m.VDisplay, m.VRefresh(), scan)
}

// PowerState is the commanded output state of a transmitter.
type PowerState int

// Power states. A transmitter starts in PowerOff.
const (
	PowerOff PowerState = iota
	PowerOn
)

func (p PowerState) String() string {
	if p == PowerOn {
		return "on"
	}
	return "off"
}

// ConnectorStatus is the hot-plug state of the output connector.
type ConnectorStatus int

// Connector states.
const (
	Disconnected ConnectorStatus = iota
	Connected
)

func (s ConnectorStatus) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// MonitorKind is what the attached monitor's EDID says it accepts.
type MonitorKind int

// Monitor kinds. MonitorUnknown means the EDID could not be fetched.
const (
	MonitorUnknown MonitorKind = iota
	MonitorDVI
	MonitorHDMI
)

func (k MonitorKind) String() string {
	switch k {
	case MonitorDVI:
		return "dvi"
	case MonitorHDMI:
		return "hdmi"
	case MonitorUnknown:
	}
	return "unknown"
}

// A Transmitter drives an HDMI/DVI output.
type Transmitter interface {
	// SetPower enables or disables the audio and video ports. Requesting the current state
	// is a no-op.
	SetPower(ctx context.Context, state PowerState) error
	// Detect reports the hot-plug level of the connector.
	Detect(ctx context.Context) (ConnectorStatus, error)
	// ApplyMode programs the output timing and signalling for mode.
	ApplyMode(ctx context.Context, mode Mode) error
	// EDID returns the raw, structurally valid capability blocks of the attached monitor.
	EDID(ctx context.Context) ([]byte, error)
	// Modes returns the CEA modes the attached monitor advertises.
	Modes(ctx context.Context) ([]Mode, error)
	// Close releases the bus.
	Close() error
}
