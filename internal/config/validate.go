package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if strings.TrimSpace(c.Converter.Binary) == "" {
		return fmt.Errorf("converter.binary must be set (or set %s)", CkcmdEnv)
	}
	return nil
}

func (c *Config) validateConversion() error {
	if len(c.Conversion.DLCs) == 0 {
		return errors.New("conversion.dlcs must include at least one group")
	}
	for _, dlc := range c.Conversion.DLCs {
		if dlc < 0 || dlc > 9 {
			return fmt.Errorf("conversion.dlcs: %d out of range (0 is vanilla, 1-9 are dlc01-dlc09)", dlc)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
