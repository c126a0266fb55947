package tda998x

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"go.viam.com/test"

	"github.com/saimusdev/bone-rt/components/hdmi"
	"github.com/saimusdev/bone-rt/components/hdmi/cea"
	"github.com/saimusdev/bone-rt/components/hdmi/edid"
	"github.com/saimusdev/bone-rt/components/hdmi/fake"
	"github.com/saimusdev/bone-rt/components/hdmi/infoframe"
	"github.com/saimusdev/bone-rt/logging"
	"github.com/saimusdev/bone-rt/testutils/inject"
)

func ceaMode(t *testing.T, vic int) hdmi.Mode {
	t.Helper()
	mode, ok := cea.Lookup(vic)
	test.That(t, ok, test.ShouldBeTrue)
	return mode
}

func TestPLLDivisor(t *testing.T) {
	test.That(t, pllDivisor(74250), test.ShouldEqual, byte(2))
	test.That(t, pllDivisor(148500), test.ShouldEqual, byte(1))
	test.That(t, pllDivisor(27000), test.ShouldEqual, byte(5))
	test.That(t, pllDivisor(25175), test.ShouldEqual, byte(5))
}

func TestVideoFormat(t *testing.T) {
	for _, vic := range []int{-1, 0, 10, 11, 12, 13, 14, 15, 25, 26, 27, 28, 29, 30, 31, 34, 35, 255} {
		_, ok := VideoFormat(vic)
		test.That(t, ok, test.ShouldBeFalse)
	}
	for vic, want := range map[int]byte{1: 0, 2: 1, 3: 1, 4: 2, 5: 3, 16: 6, 19: 8, 24: 11, 32: 12, 33: 13} {
		code, ok := VideoFormat(vic)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, code, test.ShouldEqual, want)
	}

	vic, code, ok := formatCode(ceaMode(t, 19))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, vic, test.ShouldEqual, 19)
	test.That(t, code, test.ShouldEqual, byte(8))

	_, _, ok = formatCode(hdmi.Mode{Clock: 40000, HDisplay: 800, HSyncStart: 840, HSyncEnd: 968, HTotal: 1056,
		VDisplay: 600, VSyncStart: 601, VSyncEnd: 605, VTotal: 628})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestTiming(t *testing.T) {
	tm := newTiming(ceaMode(t, 4))
	test.That(t, tm, test.ShouldResemble, timing{
		hsStart: 110, hsEnd: 150,
		lineStart: 1, lineEnd: 6,
		vwinStart: 25, vwinEnd: 745,
		deStart: 370, deEnd: 1650,
		refPix: 113, refLine: 2,
	})

	tm = newTiming(ceaMode(t, 5))
	test.That(t, tm.pixStart2, test.ShouldEqual, uint16(2200/2+88))
}

// applyWrites applies mode and returns the register writes it made.
func applyWrites(t *testing.T, tx *TDA998x, bus *inject.I2C, mode hdmi.Mode) []regWrite {
	t.Helper()
	bus.Reset()
	page := tx.regs.page
	test.That(t, tx.ApplyMode(context.Background(), mode), test.ShouldBeNil)
	return registerWrites(bus, page)
}

func TestApplyModeDVI(t *testing.T) {
	chip := fake.NewChip(fake.TDA19988, edid.Builder{Name: "dvi"}.Build())
	tx, bus, _ := newTestTransmitter(t, chip)

	got := applyWrites(t, tx, bus, ceaMode(t, 4))
	expected := []regWrite{
		w(0x11, 0x00, 0x01),
		w(0x00, 0xcb, 0x40),
		w(0x12, 0xb8, 0x00),
		w(0x11, 0x0d, 0x00),
		w(0x00, 0xe4, 0x00),
		w(0x00, 0x25, 0x00),
		w(0x00, 0x24, 0x00),
		w(0x02, 0x02, 0x00),
		w(0x02, 0x00, 0x00),
		w(0x02, 0x02, 0x00),
		w(0x02, 0x03, 0x00),
		w(0x00, 0xe5, 0x00),
		w(0x00, 0xf0, 0x00),
		w(0x02, 0x11, 0x09),
		w(0x02, 0x01, 0x02),
		w(0x00, 0xb3, 0x00, 0x00),
		w(0x00, 0xb7, 0x00, 0x00),
		w(0x00, 0x80, 0x04),
		w(0x02, 0x12, 0x09),
		w(0x00, 0xca, 0x00),
		w(0x00, 0x23, 0x00),
		w(0x00, 0x23, 0x20),
		w(0x00, 0xa0, 0x00),
		w(0x00, 0xa5, 0x04, 0xff),
		w(0x00, 0xa7, 0x02, 0xcf),
		w(0x00, 0xa9, 0x00, 0x01),
		w(0x00, 0xad, 0x00, 0x06),
		w(0x00, 0xab, 0x00, 0x6e),
		w(0x00, 0xaf, 0x00, 0x6e),
		w(0x00, 0xb9, 0x00, 0x6e),
		w(0x00, 0xbb, 0x00, 0x96),
		w(0x00, 0xbd, 0x00, 0x19),
		w(0x00, 0xbf, 0x02, 0xe9),
		w(0x00, 0xc5, 0x01, 0x72),
		w(0x00, 0xc7, 0x06, 0x72),
		w(0x00, 0xd6, 0x01),
		w(0x00, 0xa1, 0x00, 0x71),
		w(0x00, 0xa3, 0x00, 0x02),
		w(0x00, 0xcb, 0x7c),
		// EDID base block read
		w(0x00, 0x11, 0x02),
		w(0x09, 0xfb, 0xa0),
		w(0x09, 0xfc, 0x00),
		w(0x09, 0xfd, 0x60),
		w(0x09, 0xfe, 0x00),
		w(0x09, 0xfa, 0x01),
		w(0x09, 0xfa, 0x00),
		w(0x00, 0x11, 0x00),
		// sync once, last
		w(0x00, 0xca, 0x00),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mode set sequence mismatch (-want +got):\n%s", diff)
	}
	test.That(t, chip.Register(0x12, 0xb8)&tx33HDMI, test.ShouldEqual, byte(0))

	t.Run("negative syncs toggle", func(t *testing.T) {
		applyWrites(t, tx, bus, ceaMode(t, 1))
		test.That(t, chip.Register(0x00, 0x23), test.ShouldEqual, byte(vip3SyncHS|vip3VTgl|vip3HTgl))
		test.That(t, chip.Register(0x00, 0xcb)&tbg1VHTgl0, test.ShouldEqual, byte(tbg1VHTgl0))
		// NOSC is two bits wide, so div 5 truncates to 1.
		test.That(t, chip.Register(0x02, 0x01), test.ShouldEqual, byte(pllSerial2(5, 0)))
		test.That(t, chip.Register(0x02, 0x01), test.ShouldEqual, byte(0x01))
	})

	t.Run("interlaced second field", func(t *testing.T) {
		applyWrites(t, tx, bus, ceaMode(t, 5))
		test.That(t, chip.Register(0x00, 0xb3), test.ShouldEqual, byte(0x04))
		test.That(t, chip.Register(0x00, 0xb4), test.ShouldEqual, byte(0xa4))
		test.That(t, chip.Register(0x00, 0xb7), test.ShouldEqual, byte(0x04))
		test.That(t, chip.Register(0x00, 0xb8), test.ShouldEqual, byte(0xa4))
	})

	t.Run("unusable mode", func(t *testing.T) {
		bus.Reset()
		err := tx.ApplyMode(context.Background(), hdmi.Mode{HTotal: 100})
		test.That(t, err, test.ShouldNotBeNil)
		err = tx.ApplyMode(context.Background(), hdmi.Mode{Clock: 100})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, bus.Transactions(), test.ShouldBeEmpty)
	})
}

func TestApplyModeOlderRevision(t *testing.T) {
	chip := fake.NewChip(uint16(TDA19989N2), edid.Builder{}.Build())
	tx, bus, _ := newTestTransmitter(t, chip)
	got := applyWrites(t, tx, bus, ceaMode(t, 4))
	_, found := lo.Find(got, func(rw regWrite) bool { return rw.Reg == regEnableSpace })
	test.That(t, found, test.ShouldBeFalse)
}

func TestApplyModeHDMI(t *testing.T) {
	chip := fake.NewHDMIChip()
	tx, bus, sl := newTestTransmitter(t, chip)
	sl.slept = nil

	got := applyWrites(t, tx, bus, ceaMode(t, 4))

	test.That(t, chip.Register(0x00, 0xa0), test.ShouldEqual, byte(2))
	test.That(t, chip.Register(0x00, 0xcb), test.ShouldEqual, byte(0))
	test.That(t, chip.Register(0x12, 0xb8)&tx33HDMI, test.ShouldEqual, byte(tx33HDMI))
	test.That(t, chip.Register(0x11, 0x0f), test.ShouldEqual, byte(dipIFFlagsIF2|dipIFFlagsIF4))
	test.That(t, chip.Register(0x11, 0x00)&aipCntrl0RstFIFO, test.ShouldEqual, byte(0))
	test.That(t, chip.Register(0x11, 0x0b), test.ShouldEqual, byte(gcAVMuteClr))
	test.That(t, chip.Register(0x11, 0x09), test.ShouldEqual, byte(0x18))
	test.That(t, chip.Register(0x00, 0x26), test.ShouldEqual, byte(0x64))
	test.That(t, sl.slept, test.ShouldResemble, []time.Duration{infoframeDelay, infoframeDelay})

	avi := make([]byte, 20)
	n, err := (&infoframe.AVI{VideoCode: 4, ActiveAspect: infoframe.ActiveAspectPicture}).Pack(avi)
	test.That(t, err, test.ShouldBeNil)
	audio := make([]byte, 20)
	m, err := (&infoframe.Audio{
		Channels:        2,
		CodingType:      infoframe.AudioCodingPCM,
		SampleSize:      infoframe.AudioSampleSize24,
		SampleFrequency: infoframe.AudioSampleFrequency48000,
	}).Pack(audio)
	test.That(t, err, test.ShouldBeNil)

	frames := lo.Filter(got, func(rw regWrite, _ int) bool { return rw.Reg.Page() == 0x10 })
	test.That(t, frames, test.ShouldResemble, []regWrite{
		{regAVIIF, avi[:n]},
		{regAudioIF, audio[:m]},
	})

	// The infoframe enable flag is cleared before it is set again.
	flags := lo.Filter(got, func(rw regWrite, _ int) bool { return rw.Reg == regDIPIFFlags })
	test.That(t, flags, test.ShouldResemble, []regWrite{
		w(0x11, 0x0f, 0x00),
		w(0x11, 0x0f, dipIFFlagsIF2),
		w(0x11, 0x0f, dipIFFlagsIF2),
		w(0x11, 0x0f, dipIFFlagsIF2|dipIFFlagsIF4),
	})

	mutes := lo.Filter(got, func(rw regWrite, _ int) bool { return rw.Reg == regGCAVMute })
	test.That(t, mutes, test.ShouldResemble, []regWrite{w(0x11, 0x0b, gcAVMuteSet), w(0x11, 0x0b, gcAVMuteClr)})

	test.That(t, got[len(got)-1], test.ShouldResemble, w(0x00, 0xca, 0x00))
}

func TestApplyModeHDMIUnsupportedFormat(t *testing.T) {
	chip := fake.NewHDMIChip()
	bus := &inject.I2C{I2C: chip}
	logger, observed := logging.NewObservedTestLogger(t)
	tx, err := newTDA998x(context.Background(), bus, nil, newTestSleeper(), logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, tx.Close(), test.ShouldBeNil)
	}()

	svga := hdmi.Mode{
		Clock: 40000, HDisplay: 800, HSyncStart: 840, HSyncEnd: 968, HTotal: 1056,
		VDisplay: 600, VSyncStart: 601, VSyncEnd: 605, VTotal: 628,
	}
	got := applyWrites(t, tx, bus, svga)

	test.That(t, lo.ContainsBy(got, func(rw regWrite) bool { return rw.Reg.Page() == 0x10 }), test.ShouldBeFalse)
	vidformat := lo.Filter(got, func(rw regWrite, _ int) bool { return rw.Reg == regVidFormat })
	test.That(t, vidformat, test.ShouldResemble, []regWrite{w(0x00, 0xa0, 0x00)})
	test.That(t, chip.Register(0x12, 0xb8)&tx33HDMI, test.ShouldEqual, byte(0))
	test.That(t, got[len(got)-1], test.ShouldResemble, w(0x00, 0xca, 0x00))
	test.That(t, observed.FilterMessage("leaving output as DVI").Len(), test.ShouldEqual, 1)
}
