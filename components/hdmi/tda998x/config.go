package tda998x

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ModelName is the model components of this driver are configured with.
const ModelName = "tda998x"

// Default bus addresses and DDC clock setting.
const (
	DefaultAddress    = 0x70
	DefaultCECAddress = 0x34
	DefaultDDCClock   = 39
)

// Config describes how to reach a transmitter.
type Config struct {
	I2CBus      string `json:"i2c_bus"`
	Address     int    `json:"address,omitempty"`
	CECAddress  int    `json:"cec_address,omitempty"`
	DDCClock    int    `json:"ddc_clock,omitempty"`
	BusSpeedKHz int    `json:"bus_speed_khz,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.I2CBus == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
	}
	for field, addr := range map[string]int{"address": cfg.Address, "cec_address": cfg.CECAddress} {
		if addr != 0 && (addr < 0x08 || addr > 0x77) {
			return nil, utils.NewConfigValidationError(path, errors.Errorf("%s %#x is not a 7-bit I2C address", field, addr))
		}
	}
	if cfg.Address != 0 && cfg.Address == cfg.CECAddress {
		return nil, utils.NewConfigValidationError(path, errors.New("address and cec_address must differ"))
	}
	if cfg.DDCClock < 0 || cfg.DDCClock > 0xff {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("ddc_clock %d does not fit a register", cfg.DDCClock))
	}
	if cfg.BusSpeedKHz < 0 {
		return nil, utils.NewConfigValidationError(path, errors.New("bus_speed_khz cannot be negative"))
	}
	return nil, nil
}

func (cfg *Config) address() byte {
	if cfg.Address == 0 {
		return DefaultAddress
	}
	return byte(cfg.Address)
}

func (cfg *Config) cecAddress() byte {
	if cfg.CECAddress == 0 {
		return DefaultCECAddress
	}
	return byte(cfg.CECAddress)
}

func (cfg *Config) ddcClock() byte {
	if cfg.DDCClock == 0 {
		return DefaultDDCClock
	}
	return byte(cfg.DDCClock)
}
