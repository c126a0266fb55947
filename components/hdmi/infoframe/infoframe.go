// Package infoframe packs CEA-861 InfoFrames into the byte layout HDMI transmitters send:
// a three byte header (type, version, length), a checksum byte, then the payload.
package infoframe

import (
	"github.com/pkg/errors"
)

// Type is the InfoFrame type code.
type Type byte

// InfoFrame types.
const (
	TypeAVI   Type = 0x82
	TypeAudio Type = 0x84
)

// Header and payload sizes.
const (
	HeaderSize = 4

	AVIVersion = 2
	AVILength  = 13

	AudioVersion = 1
	AudioLength  = 10

	// MaxSize is the largest packed frame this package produces.
	MaxSize = HeaderSize + AVILength
)

// ErrBufferTooSmall is returned when the output buffer cannot hold the packed frame.
var ErrBufferTooSmall = errors.New("infoframe buffer too small")

// Picture aspect ratios (AVI data byte 2, M1:M0).
const (
	PictureAspectNone = 0
	PictureAspect4x3  = 1
	PictureAspect16x9 = 2
)

// ActiveAspectPicture means the active format is the same as the picture aspect.
const ActiveAspectPicture = 8

// AVI is an Auxiliary Video Information InfoFrame.
type AVI struct {
	Colorspace           byte
	ScanMode             byte
	Colorimetry          byte
	PictureAspect        byte
	ActiveAspect         byte
	ITC                  bool
	ExtendedColorimetry  byte
	QuantizationRange    byte
	NUPS                 byte
	VideoCode            byte
	YCCQuantizationRange byte
	ContentType          byte
	PixelRepeat          byte
	TopBar               uint16
	BottomBar            uint16
	LeftBar              uint16
	RightBar             uint16
	HorizontalBarValid   bool
	VerticalBarValid     bool
}

// Pack writes the frame into buf and returns the packed length.
func (f *AVI) Pack(buf []byte) (int, error) {
	length := HeaderSize + AVILength
	if len(buf) < length {
		return 0, errors.Wrapf(ErrBufferTooSmall, "AVI infoframe needs %d bytes, have %d", length, len(buf))
	}
	frame := buf[:length]
	for i := range frame {
		frame[i] = 0
	}
	frame[0], frame[1], frame[2] = byte(TypeAVI), AVIVersion, AVILength

	p := frame[HeaderSize:]
	p[0] = (f.Colorspace&0x3)<<5 | f.ScanMode&0x3
	// Data byte 1, bit 4 is set when an active format aspect ratio is provided.
	if f.ActiveAspect&0xf != 0 {
		p[0] |= 1 << 4
	}
	if f.HorizontalBarValid {
		p[0] |= 1 << 3
	}
	if f.VerticalBarValid {
		p[0] |= 1 << 2
	}
	p[1] = (f.Colorimetry&0x3)<<6 | (f.PictureAspect&0x3)<<4 | f.ActiveAspect&0xf
	p[2] = (f.ExtendedColorimetry&0x7)<<4 | (f.QuantizationRange&0x3)<<2 | f.NUPS&0x3
	if f.ITC {
		p[2] |= 1 << 7
	}
	p[3] = f.VideoCode & 0x7f
	p[4] = (f.YCCQuantizationRange&0x3)<<6 | (f.ContentType&0x3)<<4 | f.PixelRepeat&0xf
	putLE16(p[5:], f.TopBar)
	putLE16(p[7:], f.BottomBar)
	putLE16(p[9:], f.LeftBar)
	putLE16(p[11:], f.RightBar)

	setChecksum(frame)
	return length, nil
}

// Audio coding types, sample sizes and sample frequencies (audio data bytes 1 and 2).
const (
	AudioCodingStream = 0
	AudioCodingPCM    = 1

	AudioSampleSizeStream = 0
	AudioSampleSize16     = 1
	AudioSampleSize20     = 2
	AudioSampleSize24     = 3

	AudioSampleFrequencyStream = 0
	AudioSampleFrequency32000  = 1
	AudioSampleFrequency44100  = 2
	AudioSampleFrequency48000  = 3
)

// Audio is an Audio InfoFrame.
type Audio struct {
	Channels          int
	CodingType        byte
	SampleSize        byte
	SampleFrequency   byte
	CodingTypeExt     byte
	ChannelAllocation byte
	LevelShiftValue   byte
	DownmixInhibit    bool
}

// Pack writes the frame into buf and returns the packed length.
func (f *Audio) Pack(buf []byte) (int, error) {
	length := HeaderSize + AudioLength
	if len(buf) < length {
		return 0, errors.Wrapf(ErrBufferTooSmall, "audio infoframe needs %d bytes, have %d", length, len(buf))
	}
	frame := buf[:length]
	for i := range frame {
		frame[i] = 0
	}
	frame[0], frame[1], frame[2] = byte(TypeAudio), AudioVersion, AudioLength

	// The channel count is coded as count-1, with 0 meaning "refer to stream header".
	var channels byte
	if f.Channels >= 2 {
		channels = byte(f.Channels - 1)
	}

	p := frame[HeaderSize:]
	p[0] = (f.CodingType&0xf)<<4 | channels&0x7
	p[1] = (f.SampleFrequency&0x7)<<2 | f.SampleSize&0x3
	p[2] = f.CodingTypeExt & 0x1f
	p[3] = f.ChannelAllocation
	p[4] = (f.LevelShiftValue & 0xf) << 3
	if f.DownmixInhibit {
		p[4] |= 1 << 7
	}

	setChecksum(frame)
	return length, nil
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// setChecksum fills byte 3 so that the whole frame sums to zero.
func setChecksum(frame []byte) {
	frame[3] = 0
	var sum byte
	for _, b := range frame {
		sum += b
	}
	frame[3] = -sum
}
