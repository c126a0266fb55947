package tda998x

import (
	"context"

	"github.com/samber/lo"

	"github.com/saimusdev/bone-rt/components/hdmi"
	"github.com/saimusdev/bone-rt/components/hdmi/cea"
	"github.com/saimusdev/bone-rt/components/hdmi/edid"
)

// videoFormats maps CEA VICs to the transmitter's VIDFORMAT codes. VICs missing here have no
// format code and are sent as DVI.
var videoFormats = map[int]byte{
	1:  0,
	2:  1,
	3:  1,
	4:  2,
	5:  3,
	6:  4,
	7:  4,
	8:  5,
	9:  5,
	16: 6,
	17: 7,
	18: 7,
	19: 8,
	20: 9,
	21: 10,
	22: 10,
	23: 11,
	24: 11,
	32: 12,
	33: 13,
}

// VideoFormat returns the VIDFORMAT code for a CEA VIC.
func VideoFormat(vic int) (byte, bool) {
	code, ok := videoFormats[vic]
	return code, ok
}

// formatCode matches mode against the CEA table and returns its VIC and format code.
func formatCode(mode hdmi.Mode) (int, byte, bool) {
	vic := cea.Match(mode)
	code, ok := VideoFormat(vic)
	return vic, code, ok
}

// monitorKind fetches the EDID and reports whether the monitor takes HDMI. It is
// MonitorUnknown when the EDID can't be read.
func (t *TDA998x) monitorKind(ctx context.Context) hdmi.MonitorKind {
	data, err := t.readEDID(ctx)
	if err != nil {
		t.edidLogger.Warnw("failed to read EDID", "error", err)
		return hdmi.MonitorUnknown
	}
	if edid.IsHDMI(data) {
		return hdmi.MonitorHDMI
	}
	return hdmi.MonitorDVI
}

// Monitor reports whether the attached monitor takes HDMI.
func (t *TDA998x) Monitor(ctx context.Context) hdmi.MonitorKind {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.monitorKind(ctx)
}

// VideoMode is a CEA mode together with the VIC the monitor listed it under.
type VideoMode struct {
	VIC  int
	Mode hdmi.Mode
}

// VideoModes returns the CEA modes listed by the monitor's EDID with their VICs, in the order
// it lists them. Codes outside the table are dropped.
func (t *TDA998x) VideoModes(ctx context.Context) ([]VideoMode, error) {
	t.mu.Lock()
	data, err := t.readEDID(ctx)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(edid.VideoCodes(data), func(vic, _ int) (VideoMode, bool) {
		mode, ok := cea.Lookup(vic)
		return VideoMode{VIC: vic, Mode: mode}, ok
	}), nil
}

// Modes returns the modes of VideoModes.
func (t *TDA998x) Modes(ctx context.Context) ([]hdmi.Mode, error) {
	modes, err := t.VideoModes(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(modes, func(vm VideoMode, _ int) hdmi.Mode {
		return vm.Mode
	}), nil
}
