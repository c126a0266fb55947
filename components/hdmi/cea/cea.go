// Package cea holds the CEA-861 video identification code (VIC) table for codes 1 through 34
// and matches display timings against it.
package cea

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/saimusdev/bone-rt/components/hdmi"
)

// PictureAspect is the picture aspect ratio a VIC is defined for.
type PictureAspect int

// Picture aspect ratios.
const (
	AspectNone PictureAspect = iota
	Aspect4x3
	Aspect16x9
)

// MaxVIC is the highest code in the table.
const MaxVIC = 34

type entry struct {
	vic    int
	aspect PictureAspect
	mode   hdmi.Mode
}

const (
	nn  = hdmi.FlagNHSync | hdmi.FlagNVSync
	nni = nn | hdmi.FlagInterlace
	dc  = hdmi.FlagDoubleClock
	pp  = hdmi.ModeFlag(0)
	ppi = hdmi.FlagInterlace
)

func mode(name string, clock, hd, hss, hse, ht, vd, vss, vse, vt int, flags hdmi.ModeFlag) hdmi.Mode {
	return hdmi.Mode{
		Name: name, Clock: clock,
		HDisplay: hd, HSyncStart: hss, HSyncEnd: hse, HTotal: ht,
		VDisplay: vd, VSyncStart: vss, VSyncEnd: vse, VTotal: vt,
		Flags: flags,
	}
}

var table = []entry{
	{1, Aspect4x3, mode("640x480", 25175, 640, 656, 752, 800, 480, 490, 492, 525, nn)},
	{2, Aspect4x3, mode("720x480", 27000, 720, 736, 798, 858, 480, 489, 495, 525, nn)},
	{3, Aspect16x9, mode("720x480", 27000, 720, 736, 798, 858, 480, 489, 495, 525, nn)},
	{4, Aspect16x9, mode("1280x720", 74250, 1280, 1390, 1430, 1650, 720, 725, 730, 750, pp)},
	{5, Aspect16x9, mode("1920x1080i", 74250, 1920, 2008, 2052, 2200, 1080, 1084, 1094, 1125, ppi)},
	{6, Aspect4x3, mode("720x480i", 13500, 720, 739, 801, 858, 480, 488, 494, 525, nni|dc)},
	{7, Aspect16x9, mode("720x480i", 13500, 720, 739, 801, 858, 480, 488, 494, 525, nni|dc)},
	{8, Aspect4x3, mode("720x240", 13500, 720, 739, 801, 858, 240, 244, 247, 262, nn|dc)},
	{9, Aspect16x9, mode("720x240", 13500, 720, 739, 801, 858, 240, 244, 247, 262, nn|dc)},
	{10, Aspect4x3, mode("2880x480i", 54000, 2880, 2956, 3204, 3432, 480, 488, 494, 525, nni)},
	{11, Aspect16x9, mode("2880x480i", 54000, 2880, 2956, 3204, 3432, 480, 488, 494, 525, nni)},
	{12, Aspect4x3, mode("2880x240", 54000, 2880, 2956, 3204, 3432, 240, 244, 247, 262, nn)},
	{13, Aspect16x9, mode("2880x240", 54000, 2880, 2956, 3204, 3432, 240, 244, 247, 262, nn)},
	{14, Aspect4x3, mode("1440x480", 54000, 1440, 1472, 1596, 1716, 480, 489, 495, 525, nn)},
	{15, Aspect16x9, mode("1440x480", 54000, 1440, 1472, 1596, 1716, 480, 489, 495, 525, nn)},
	{16, Aspect16x9, mode("1920x1080", 148500, 1920, 2008, 2052, 2200, 1080, 1084, 1089, 1125, pp)},
	{17, Aspect4x3, mode("720x576", 27000, 720, 732, 796, 864, 576, 581, 586, 625, nn)},
	{18, Aspect16x9, mode("720x576", 27000, 720, 732, 796, 864, 576, 581, 586, 625, nn)},
	{19, Aspect16x9, mode("1280x720", 74250, 1280, 1720, 1760, 1980, 720, 725, 730, 750, pp)},
	{20, Aspect16x9, mode("1920x1080i", 74250, 1920, 2448, 2492, 2640, 1080, 1084, 1094, 1125, ppi)},
	{21, Aspect4x3, mode("720x576i", 13500, 720, 732, 795, 864, 576, 580, 586, 625, nni|dc)},
	{22, Aspect16x9, mode("720x576i", 13500, 720, 732, 795, 864, 576, 580, 586, 625, nni|dc)},
	{23, Aspect4x3, mode("720x288", 13500, 720, 732, 795, 864, 288, 290, 293, 312, nn|dc)},
	{24, Aspect16x9, mode("720x288", 13500, 720, 732, 795, 864, 288, 290, 293, 312, nn|dc)},
	{25, Aspect4x3, mode("2880x576i", 54000, 2880, 2928, 3180, 3456, 576, 580, 586, 625, nni)},
	{26, Aspect16x9, mode("2880x576i", 54000, 2880, 2928, 3180, 3456, 576, 580, 586, 625, nni)},
	{27, Aspect4x3, mode("2880x288", 54000, 2880, 2928, 3180, 3456, 288, 290, 293, 312, nn)},
	{28, Aspect16x9, mode("2880x288", 54000, 2880, 2928, 3180, 3456, 288, 290, 293, 312, nn)},
	{29, Aspect4x3, mode("1440x576", 54000, 1440, 1464, 1592, 1728, 576, 581, 586, 625, nn)},
	{30, Aspect16x9, mode("1440x576", 54000, 1440, 1464, 1592, 1728, 576, 581, 586, 625, nn)},
	{31, Aspect16x9, mode("1920x1080", 148500, 1920, 2448, 2492, 2640, 1080, 1084, 1089, 1125, pp)},
	{32, Aspect16x9, mode("1920x1080", 74250, 1920, 2558, 2602, 2750, 1080, 1084, 1089, 1125, pp)},
	{33, Aspect16x9, mode("1920x1080", 74250, 1920, 2448, 2492, 2640, 1080, 1084, 1089, 1125, pp)},
	{34, Aspect16x9, mode("1920x1080", 74250, 1920, 2008, 2052, 2200, 1080, 1084, 1089, 1125, pp)},
}

// Lookup returns the timing of a VIC.
func Lookup(vic int) (hdmi.Mode, bool) {
	if vic < 1 || vic > MaxVIC {
		return hdmi.Mode{}, false
	}
	return table[vic-1].mode, true
}

// Aspect returns the picture aspect ratio of a VIC, or AspectNone for unknown codes.
func Aspect(vic int) PictureAspect {
	if vic < 1 || vic > MaxVIC {
		return AspectNone
	}
	return table[vic-1].aspect
}

// Match returns the first VIC whose timing equals m, or 0 if there is none. Geometry, scan
// type and sync polarities must be equal; the clock may also be the 1000/1001 variant of the
// table clock. 4:3 codes come before their 16:9 twins, so those are the ones returned.
func Match(m hdmi.Mode) int {
	found, ok := lo.Find(table, func(e entry) bool {
		return sameTiming(e.mode, m)
	})
	if !ok {
		return 0
	}
	return found.vic
}

const matchFlags = hdmi.FlagInterlace | hdmi.FlagNHSync | hdmi.FlagNVSync

func sameTiming(a, b hdmi.Mode) bool {
	return a.HDisplay == b.HDisplay && a.HSyncStart == b.HSyncStart &&
		a.HSyncEnd == b.HSyncEnd && a.HTotal == b.HTotal &&
		a.VDisplay == b.VDisplay && a.VSyncStart == b.VSyncStart &&
		a.VSyncEnd == b.VSyncEnd && a.VTotal == b.VTotal &&
		a.Flags&matchFlags == b.Flags&matchFlags &&
		clockMatches(a.Clock, b.Clock)
}

func clockMatches(table, clock int) bool {
	for _, c := range []int{table, table * 1000 / 1001, table * 1001 / 1000} {
		if d := clock - c; d >= -1 && d <= 1 {
			return true
		}
	}
	return false
}

var modeStringRegexp = regexp.MustCompile(`^(\d+)x(\d+)(?:@(\d+))?(i?)$`)

// ParseModeString resolves a mode string such as "1280x720@60" or "1920x1080@50i" to the
// first CEA mode with that size, refresh rate and scan type. The refresh rate is optional.
func ParseModeString(s string) (hdmi.Mode, int, error) {
	parts := modeStringRegexp.FindStringSubmatch(s)
	if parts == nil {
		return hdmi.Mode{}, 0, errors.Errorf("invalid mode string %q, expected WIDTHxHEIGHT[@REFRESH][i]", s)
	}
	width, _ := strconv.Atoi(parts[1])
	height, _ := strconv.Atoi(parts[2])
	refresh := -1
	if parts[3] != "" {
		refresh, _ = strconv.Atoi(parts[3])
	}
	interlaced := parts[4] == "i"

	found, ok := lo.Find(table, func(e entry) bool {
		return e.mode.HDisplay == width && e.mode.VDisplay == height &&
			e.mode.Interlaced() == interlaced &&
			(refresh < 0 || e.mode.VRefresh() == refresh)
	})
	if !ok {
		return hdmi.Mode{}, 0, errors.Errorf("no CEA mode matches %q", s)
	}
	return found.mode, found.vic, nil
}
