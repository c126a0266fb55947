package edid

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestValidateBlock(t *testing.T) {
	data := Builder{Name: "bone", HDMI: true, VICs: []int{4, 16}, Extensions: 2}.Build()
	test.That(t, data, test.ShouldHaveLength, 3*BlockLength)
	for i := 0; i < 3; i++ {
		test.That(t, ValidateBlock(data[i*BlockLength:(i+1)*BlockLength], i), test.ShouldBeNil)
	}

	t.Run("short block", func(t *testing.T) {
		err := ValidateBlock(data[:10], 0)
		test.That(t, errors.Is(err, ErrInvalidBlock), test.ShouldBeTrue)
	})

	t.Run("base header repaired when mostly right", func(t *testing.T) {
		base := append([]byte(nil), data[:BlockLength]...)
		base[1], base[2] = 0x00, 0x00
		err := ValidateBlock(base, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, base[:8], test.ShouldResemble, header[:])

		base = append([]byte(nil), data[:BlockLength]...)
		base[1] = 0x00
		err = ValidateBlock(base, 0)
		// The header is repaired in place, which brings the checksum back.
		test.That(t, err, test.ShouldBeNil)
		test.That(t, base[1], test.ShouldEqual, byte(0xff))
	})

	t.Run("base header too broken", func(t *testing.T) {
		base := append([]byte(nil), data[:BlockLength]...)
		copy(base, []byte{1, 2, 3, 4, 5, 6, 7, 8})
		err := ValidateBlock(base, 0)
		test.That(t, errors.Is(err, ErrInvalidBlock), test.ShouldBeTrue)
	})

	t.Run("bad checksum", func(t *testing.T) {
		ext := append([]byte(nil), data[2*BlockLength:]...)
		ext[5]++
		err := ValidateBlock(ext, 2)
		test.That(t, errors.Is(err, ErrInvalidBlock), test.ShouldBeTrue)
	})

	t.Run("bad checksum tolerated on CEA extension", func(t *testing.T) {
		ext := append([]byte(nil), data[BlockLength:2*BlockLength]...)
		ext[ChecksumOffset]++
		test.That(t, ValidateBlock(ext, 1), test.ShouldBeNil)
	})

	t.Run("wrong version", func(t *testing.T) {
		base := append([]byte(nil), data[:BlockLength]...)
		base[0x12] = 2
		FixChecksum(base)
		err := ValidateBlock(base, 0)
		test.That(t, errors.Is(err, ErrInvalidBlock), test.ShouldBeTrue)
	})

	t.Run("all zero extension", func(t *testing.T) {
		err := ValidateBlock(make([]byte, BlockLength), 1)
		test.That(t, errors.Is(err, ErrInvalidBlock), test.ShouldBeTrue)
	})
}

func TestChecksum(t *testing.T) {
	block := make([]byte, BlockLength)
	block[0], block[10] = 0x02, 0x7f
	FixChecksum(block)
	test.That(t, Checksum(block), test.ShouldEqual, byte(0))
	test.That(t, block[ChecksumOffset], test.ShouldEqual, byte(0x7f))
}

func TestCEAContents(t *testing.T) {
	hdmiData := Builder{Name: "tv", HDMI: true, BasicAudio: true, VICs: []int{16, 4, 3}, Extensions: 1}.Build()
	test.That(t, Extensions(hdmiData), test.ShouldEqual, 1)
	test.That(t, IsHDMI(hdmiData), test.ShouldBeTrue)
	test.That(t, HasBasicAudio(hdmiData), test.ShouldBeTrue)
	test.That(t, VideoCodes(hdmiData), test.ShouldResemble, []int{16, 4, 3})

	dviExt := Builder{Name: "monitor", VICs: []int{4}, Extensions: 1}.Build()
	test.That(t, IsHDMI(dviExt), test.ShouldBeFalse)
	test.That(t, HasBasicAudio(dviExt), test.ShouldBeFalse)

	baseOnly := Builder{Name: "monitor"}.Build()
	test.That(t, baseOnly, test.ShouldHaveLength, BlockLength)
	test.That(t, IsHDMI(baseOnly), test.ShouldBeFalse)
	test.That(t, VideoCodes(baseOnly), test.ShouldBeNil)
	test.That(t, Extensions(baseOnly[:10]), test.ShouldEqual, 0)

	t.Run("vendor block with another OUI", func(t *testing.T) {
		data := Builder{HDMI: true, Extensions: 1}.Build()
		ext := data[BlockLength:]
		ext[5] = 0x04
		FixChecksum(ext)
		test.That(t, IsHDMI(data), test.ShouldBeFalse)
	})

	t.Run("old CEA revision has no data blocks", func(t *testing.T) {
		data := Builder{HDMI: true, Extensions: 1}.Build()
		data[BlockLength+1] = 1
		test.That(t, IsHDMI(data), test.ShouldBeFalse)
	})
}
