package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"periph.io/x/conn/v3/physic"

	"github.com/saimusdev/bone-rt/components/board/buses"
	"github.com/saimusdev/bone-rt/components/hdmi/fake"
	"github.com/saimusdev/bone-rt/components/hdmi/tda998x"
	"github.com/saimusdev/bone-rt/config"
	"github.com/saimusdev/bone-rt/logging"
)

// simulatedBus names the bus when --simulate is given without a config.
const simulatedBus = "simulated"

// transmitterClient owns an attached transmitter and the bus it was opened on.
type transmitterClient struct {
	tx      *tda998x.TDA998x
	bus     *buses.PeriphI2C
	logger  logging.Logger
	logFile *logging.FileAppender
}

func newLogger(c *cli.Context) (logging.Logger, *logging.FileAppender, error) {
	level := logging.DEBUG
	if !c.Bool(generalFlagDebug) {
		var err error
		level, err = logging.LevelFromString(c.String(generalFlagLogLevel))
		if err != nil {
			return nil, nil, err
		}
	}
	logger := logging.NewBlankLogger("hdmictl")
	logger.SetLevel(level)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))

	var logFile *logging.FileAppender
	if fn := c.String(generalFlagLogFile); fn != "" {
		logFile = logging.NewFileAppender(fn)
		logger.AddAppender(logFile)
	}
	return logger, logFile, nil
}

// transmitterConfig builds the driver config from the config file when one is given, otherwise
// from the --bus flag.
func transmitterConfig(c *cli.Context) (*tda998x.Config, error) {
	fn := c.String(generalFlagConfig)
	if fn == "" {
		conf := &tda998x.Config{I2CBus: c.String(generalFlagBus)}
		if conf.I2CBus == "" && c.Bool(generalFlagSimulate) {
			conf.I2CBus = simulatedBus
		}
		if _, err := conf.Validate(generalFlagBus); err != nil {
			return nil, err
		}
		return conf, nil
	}

	cfg, err := config.ReadConfig(fn)
	if err != nil {
		return nil, err
	}
	comp, err := cfg.FindComponent(c.String(generalFlagName), tda998x.ModelName)
	if err != nil {
		return nil, err
	}
	if comp.Model != tda998x.ModelName {
		return nil, errors.Errorf("component %q has model %q, expected %q", comp.Name, comp.Model, tda998x.ModelName)
	}
	conf, err := config.TransformAttributeMap[*tda998x.Config](comp.Attributes)
	if err != nil {
		return nil, errors.Wrapf(err, "bad attributes for component %q", comp.Name)
	}
	if _, err := conf.Validate(comp.Name); err != nil {
		return nil, err
	}
	return conf, nil
}

func newTransmitterClient(c *cli.Context) (client *transmitterClient, err error) {
	logger, logFile, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && logFile != nil {
			err = multierr.Combine(err, logFile.Close())
		}
	}()

	conf, err := transmitterConfig(c)
	if err != nil {
		return nil, err
	}

	client = &transmitterClient{logger: logger, logFile: logFile}
	var bus buses.I2C
	if c.Bool(generalFlagSimulate) {
		bus = fake.NewHDMIChip()
	} else {
		client.bus, err = buses.OpenPeriphI2C(conf.I2CBus, physic.Frequency(conf.BusSpeedKHz)*physic.KiloHertz)
		if err != nil {
			return nil, err
		}
		bus = client.bus
	}

	client.tx, err = tda998x.NewTDA998x(c.Context, bus, conf, logger.Sublogger(tda998x.ModelName))
	if err != nil {
		if client.bus != nil {
			err = multierr.Combine(err, client.bus.Close())
		}
		return nil, err
	}
	return client, nil
}

func (tc *transmitterClient) Close() error {
	err := tc.tx.Close()
	if tc.bus != nil {
		err = multierr.Combine(err, tc.bus.Close())
	}
	err = multierr.Combine(err, tc.logger.Sync())
	if tc.logFile != nil {
		err = multierr.Combine(err, tc.logFile.Close())
	}
	return err
}

// withTransmitter attaches to the transmitter, runs fn and releases the bus.
func withTransmitter(c *cli.Context, fn func(ctx context.Context, tx *tda998x.TDA998x) error) error {
	client, err := newTransmitterClient(c)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(client.Close)
	return fn(c.Context, client.tx)
}
