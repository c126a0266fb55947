package fake

import "github.com/saimusdev/bone-rt/components/hdmi/edid"

// MonitorEDID is the EDID of the simulated HDMI monitor: 720p60, 1080p60, 720p50, 480p and
// VGA, with basic audio.
func MonitorEDID() []byte {
	return edid.Builder{
		Name:       "BONE-RT",
		HDMI:       true,
		BasicAudio: true,
		VICs:       []int{4, 16, 19, 2, 1},
		Extensions: 1,
	}.Build()
}

// NewHDMIChip returns a TDA19988 with an HDMI monitor plugged in.
func NewHDMIChip() *Chip {
	return NewChip(TDA19988, MonitorEDID())
}
