package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

const sampleConfig = `{
	"components": [
		{"name": "other", "model": "fake", "attributes": {}},
		{
			"name": "hdmi",
			"model": "tda998x",
			"attributes": {"i2c_bus": "${HDMI_BUS}", "address": "0x70", "ddc_clock": 39}
		}
	]
}`

type sampleAttrs struct {
	Bus     string `json:"i2c_bus"`
	Address int    `json:"address"`
	Clock   uint8  `json:"ddc_clock"`
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "config.json")
	test.That(t, os.WriteFile(fn, []byte(contents), 0o600), test.ShouldBeNil)
	return fn
}

func TestReadConfig(t *testing.T) {
	t.Setenv("HDMI_BUS", "2")
	cfg, err := ReadConfig(writeConfig(t, sampleConfig))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Components, test.ShouldHaveLength, 2)

	t.Run("find by model", func(t *testing.T) {
		comp, err := cfg.FindComponent("", "tda998x")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, comp.Name, test.ShouldEqual, "hdmi")
		test.That(t, comp.Attributes.String("i2c_bus"), test.ShouldEqual, "2")
		test.That(t, comp.Attributes.Int("address", 0), test.ShouldEqual, 0x70)
		test.That(t, comp.Attributes.Int("cec_address", 0x34), test.ShouldEqual, 0x34)
	})

	t.Run("find by name", func(t *testing.T) {
		comp, err := cfg.FindComponent("other", "tda998x")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, comp.Model, test.ShouldEqual, "fake")

		_, err = cfg.FindComponent("missing", "")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "missing")
	})

	t.Run("bad file", func(t *testing.T) {
		_, err := ReadConfig(writeConfig(t, "{"))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = ReadConfig(filepath.Join(t.TempDir(), "nope.json"))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestTransformAttributeMap(t *testing.T) {
	attrs := AttributeMap{"i2c_bus": "1", "address": "0x71", "ddc_clock": float64(40)}
	conv, err := TransformAttributeMap[*sampleAttrs](attrs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conv, test.ShouldResemble, &sampleAttrs{Bus: "1", Address: 0x71, Clock: 40})

	val, err := TransformAttributeMap[sampleAttrs](AttributeMap{"address": 112})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, val.Address, test.ShouldEqual, 112)

	_, err = TransformAttributeMap[*sampleAttrs](AttributeMap{"address": "seventy"})
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, func() { attrs.Bool("i2c_bus", false) }, test.ShouldPanic)
	test.That(t, attrs.Bool("missing", true), test.ShouldBeTrue)
	test.That(t, attrs.Has("address"), test.ShouldBeTrue)
}
