package tda998x

import (
	"testing"

	"go.viam.com/test"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{I2CBus: "2"}
	deps, err := cfg.Validate("path")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldBeEmpty)
	test.That(t, cfg.address(), test.ShouldEqual, byte(DefaultAddress))
	test.That(t, cfg.cecAddress(), test.ShouldEqual, byte(DefaultCECAddress))
	test.That(t, cfg.ddcClock(), test.ShouldEqual, byte(DefaultDDCClock))

	cfg = &Config{I2CBus: "2", Address: 0x71, CECAddress: 0x35, DDCClock: 20}
	_, err = cfg.Validate("path")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.address(), test.ShouldEqual, byte(0x71))
	test.That(t, cfg.cecAddress(), test.ShouldEqual, byte(0x35))
	test.That(t, cfg.ddcClock(), test.ShouldEqual, byte(20))

	for _, tc := range []struct {
		name string
		cfg  Config
		msg  string
	}{
		{"missing bus", Config{}, "i2c_bus"},
		{"address out of range", Config{I2CBus: "2", Address: 0x78}, "address"},
		{"cec address out of range", Config{I2CBus: "2", CECAddress: 0x03}, "cec_address"},
		{"same addresses", Config{I2CBus: "2", Address: 0x34, CECAddress: 0x34}, "must differ"},
		{"ddc clock", Config{I2CBus: "2", DDCClock: 300}, "ddc_clock"},
		{"bus speed", Config{I2CBus: "2", BusSpeedKHz: -1}, "bus_speed_khz"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Validate("path")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.msg)
		})
	}
}
