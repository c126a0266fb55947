package infoframe

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func sum(b []byte) byte {
	var s byte
	for _, v := range b {
		s += v
	}
	return s
}

func TestAVIPack(t *testing.T) {
	frame := AVI{
		VideoCode:     4,
		PictureAspect: PictureAspectNone,
		ActiveAspect:  ActiveAspectPicture,
	}
	buf := make([]byte, 20)
	n, err := frame.Pack(buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 17)
	test.That(t, buf[:3], test.ShouldResemble, []byte{0x82, 0x02, 0x0d})
	test.That(t, sum(buf[:n]), test.ShouldEqual, byte(0))
	// Active format present bit, active aspect 8, video code.
	test.That(t, buf[4], test.ShouldEqual, byte(0x10))
	test.That(t, buf[5], test.ShouldEqual, byte(0x08))
	test.That(t, buf[7], test.ShouldEqual, byte(4))
	test.That(t, buf[3], test.ShouldEqual, byte(0x100-0x82-0x02-0x0d-0x10-0x08-0x04))

	t.Run("bars and flags", func(t *testing.T) {
		frame := AVI{
			Colorspace: 2, ScanMode: 1, ITC: true, VideoCode: 0xff,
			TopBar: 0x1234, RightBar: 0xabcd, HorizontalBarValid: true, VerticalBarValid: true,
		}
		n, err := frame.Pack(buf)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, buf[4], test.ShouldEqual, byte(0x4d))
		test.That(t, buf[6], test.ShouldEqual, byte(0x80))
		test.That(t, buf[7], test.ShouldEqual, byte(0x7f))
		test.That(t, buf[9:11], test.ShouldResemble, []byte{0x34, 0x12})
		test.That(t, buf[15:17], test.ShouldResemble, []byte{0xcd, 0xab})
		test.That(t, sum(buf[:n]), test.ShouldEqual, byte(0))
	})

	t.Run("buffer too small", func(t *testing.T) {
		_, err := frame.Pack(make([]byte, 16))
		test.That(t, errors.Is(err, ErrBufferTooSmall), test.ShouldBeTrue)
	})
}

func TestAudioPack(t *testing.T) {
	frame := Audio{
		Channels:        2,
		CodingType:      AudioCodingPCM,
		SampleSize:      AudioSampleSize24,
		SampleFrequency: AudioSampleFrequency48000,
	}
	buf := make([]byte, 20)
	n, err := frame.Pack(buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 14)
	test.That(t, buf[:n], test.ShouldResemble, []byte{
		0x84, 0x01, 0x0a, 0x100 - 0x84 - 0x01 - 0x0a - 0x11 - 0x0f,
		0x11, 0x0f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})

	t.Run("single channel codes as stream header", func(t *testing.T) {
		frame := Audio{Channels: 1, CodingType: AudioCodingPCM, LevelShiftValue: 3, DownmixInhibit: true}
		n, err := frame.Pack(buf)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, buf[4], test.ShouldEqual, byte(0x10))
		test.That(t, buf[8], test.ShouldEqual, byte(0x98))
		test.That(t, sum(buf[:n]), test.ShouldEqual, byte(0))
	})

	t.Run("buffer too small", func(t *testing.T) {
		_, err := frame.Pack(make([]byte, 13))
		test.That(t, errors.Is(err, ErrBufferTooSmall), test.ShouldBeTrue)
	})
}
