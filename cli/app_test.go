package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := NewApp(out, errOut).Run(append([]string{"hdmictl"}, args...))
	return out.String(), errOut.String(), err
}

func TestSimulatedCommands(t *testing.T) {
	t.Run("detect", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "detect")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "TDA19988")
		test.That(t, out, test.ShouldContainSubstring, "connected")
		test.That(t, out, test.ShouldContainSubstring, "monitor: hdmi")
	})

	t.Run("edid", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "edid")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "blocks: 2")
		test.That(t, out, test.ShouldContainSubstring, "hdmi: true, basic audio: true")
		test.That(t, out, test.ShouldContainSubstring, "video codes: 4 16 19 2 1")
		test.That(t, out, test.ShouldContainSubstring, "0f0")

		out, _, err = runApp(t, "--simulate", "edid", "--raw")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldHaveLength, 256)
	})

	t.Run("modes", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "modes")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "1280x720")
		test.That(t, out, test.ShouldContainSubstring, "1920x1080")
		test.That(t, out, test.ShouldContainSubstring, "640x480")
		test.That(t, out, test.ShouldContainSubstring, "720x480")
	})

	t.Run("power", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "power", "on")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "power on")

		_, _, err = runApp(t, "--simulate", "power", "standby")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "standby")
	})

	t.Run("modeset", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "modeset", "1280x720@60")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "applied 1280x720 (VIC 4)")

		_, _, err = runApp(t, "--simulate", "modeset", "1280x720@61")
		test.That(t, err, test.ShouldNotBeNil)

		_, _, err = runApp(t, "--simulate", "modeset")
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("regs", func(t *testing.T) {
		out, _, err := runApp(t, "--simulate", "regs", "--page", "0x02")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "page 02")

		_, _, err = runApp(t, "--simulate", "regs", "--page", "two")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestLogging(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "hdmictl.log")
	_, errOut, err := runApp(t, "--simulate", "--log-level", "info", "--log-file", fn, "detect")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "found transmitter")

	contents, err := os.ReadFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "hdmictl.tda998x")
	test.That(t, string(contents), test.ShouldContainSubstring, "found transmitter")

	_, _, err = runApp(t, "--simulate", "--log-level", "loud", "detect")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		fn := filepath.Join(dir, name)
		test.That(t, os.WriteFile(fn, []byte(contents), 0o600), test.ShouldBeNil)
		return fn
	}

	good := write("good.json", `{"components": [
		{"name": "hdmi0", "model": "tda998x", "attributes": {"i2c_bus": "2", "address": "0x70", "cec_address": 52}}
	]}`)
	out, _, err := runApp(t, "--simulate", "--config", good, "detect")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "connected")

	_, _, err = runApp(t, "--simulate", "--config", good, "--name", "hdmi1", "detect")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "hdmi1")

	bad := write("bad.json", `{"components": [
		{"name": "hdmi0", "model": "tda998x", "attributes": {"i2c_bus": "2", "address": 200}}
	]}`)
	_, _, err = runApp(t, "--simulate", "--config", bad, "detect")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "address")

	other := write("other.json", `{"components": [{"name": "hdmi0", "model": "sii902x", "attributes": {}}]}`)
	_, _, err = runApp(t, "--simulate", "--config", other, "--name", "hdmi0", "detect")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sii902x")

	_, _, err = runApp(t, "detect")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "i2c_bus")
}
