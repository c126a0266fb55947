package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/urfave/cli/v2"

	"github.com/saimusdev/bone-rt/components/hdmi"
	"github.com/saimusdev/bone-rt/components/hdmi/cea"
	"github.com/saimusdev/bone-rt/components/hdmi/edid"
	"github.com/saimusdev/bone-rt/components/hdmi/tda998x"
)

const hexRowLength = 16

// DetectAction prints the chip revision and the hot-plug state.
func DetectAction(c *cli.Context) error {
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		status, err := tx.Detect(ctx)
		if err != nil {
			return err
		}
		paint := color.New(color.FgRed).SprintFunc()
		if status == hdmi.Connected {
			paint = color.New(color.FgGreen).SprintFunc()
		}
		printf(c.App.Writer, "%s: %s", tx.Revision(), paint(status.String()))
		if status == hdmi.Connected {
			printf(c.App.Writer, "monitor: %s", tx.Monitor(ctx))
		}
		return nil
	})
}

// EDIDAction prints the monitor's EDID as a hex dump, or writes it raw with --raw.
func EDIDAction(c *cli.Context) error {
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		data, err := tx.EDID(ctx)
		if err != nil {
			return err
		}
		if c.Bool(edidFlagRaw) {
			_, err := c.App.Writer.Write(data)
			return err
		}

		printf(c.App.Writer, "blocks: %d", len(data)/edid.BlockLength)
		printf(c.App.Writer, "hdmi: %t, basic audio: %t", edid.IsHDMI(data), edid.HasBasicAudio(data))
		if vics := edid.VideoCodes(data); len(vics) > 0 {
			printf(c.App.Writer, "video codes: %s", strings.Join(lo.Map(vics, func(vic, _ int) string {
				return fmt.Sprint(vic)
			}), " "))
		}
		printf(c.App.Writer, "%s", hexTable(data))
		return nil
	})
}

// ModesAction lists the CEA modes the monitor supports.
func ModesAction(c *cli.Context) error {
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		modes, err := tx.VideoModes(ctx)
		if err != nil {
			return err
		}
		if len(modes) == 0 {
			printf(c.App.Writer, "no CEA modes advertised")
			return nil
		}

		t := table.NewWriter()
		t.AppendHeader(table.Row{"VIC", "Mode", "Clock (kHz)", "Refresh (Hz)", "Format"})
		for _, vm := range modes {
			// A mode set programs the format of the first VIC with the same timing.
			format := "dvi"
			if code, ok := tda998x.VideoFormat(cea.Match(vm.Mode)); ok {
				format = fmt.Sprintf("%d", code)
			}
			t.AppendRow(table.Row{vm.VIC, vm.Mode.String(), vm.Mode.Clock, vm.Mode.VRefresh(), format})
		}
		printf(c.App.Writer, "%s", t.Render())
		return nil
	})
}

// PowerAction turns the ports on or off.
func PowerAction(c *cli.Context) error {
	var state hdmi.PowerState
	switch arg := c.Args().First(); arg {
	case "on":
		state = hdmi.PowerOn
	case "off":
		state = hdmi.PowerOff
	default:
		return errors.Errorf("expected on or off, got %q", arg)
	}
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		if err := tx.SetPower(ctx, state); err != nil {
			return err
		}
		printf(c.App.Writer, "power %s", tx.Power())
		return nil
	})
}

// ModeSetAction programs the output for the mode named by the first argument.
func ModeSetAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one mode, e.g. 1280x720@60")
	}
	mode, vic, err := cea.ParseModeString(c.Args().First())
	if err != nil {
		return err
	}
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		if err := tx.ApplyMode(ctx, mode); err != nil {
			return err
		}
		if _, ok := tda998x.VideoFormat(vic); !ok {
			warningf(c.App.ErrWriter, "VIC %d has no HDMI format code, output is DVI", vic)
		}
		printf(c.App.Writer, "applied %s (VIC %d)", mode, vic)
		if diag := tx.Diagnostics(); diag.WriteErrors > 0 {
			warningf(c.App.ErrWriter, "%d register writes failed", diag.WriteErrors)
		}
		return nil
	})
}

// RegsAction dumps one register page.
func RegsAction(c *cli.Context) error {
	page, err := cast.ToUint8E(c.String(regsFlagPage))
	if err != nil {
		return errors.Wrapf(err, "bad page %q", c.String(regsFlagPage))
	}
	return withTransmitter(c, func(ctx context.Context, tx *tda998x.TDA998x) error {
		data, err := tx.DumpPage(ctx, page)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "page %02x", page)
		printf(c.App.Writer, "%s", hexTable(data))
		return nil
	})
}

// hexTable renders data as rows of 16 bytes prefixed with their offset.
func hexTable(data []byte) string {
	t := table.NewWriter()
	header := table.Row{""}
	for i := 0; i < hexRowLength; i++ {
		header = append(header, fmt.Sprintf("%x", i))
	}
	t.AppendHeader(header)
	for i, chunk := range lo.Chunk(data, hexRowLength) {
		row := table.Row{fmt.Sprintf("%03x", i*hexRowLength)}
		for _, b := range chunk {
			row = append(row, fmt.Sprintf("%02x", b))
		}
		t.AppendRow(row)
	}
	return t.Render()
}
