package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeConverter(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DefaultDataDir, err = expandPath(strings.TrimSpace(c.Paths.DefaultDataDir)); err != nil {
		return fmt.Errorf("paths.default_data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB)); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeConverter() error {
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if value, ok := os.LookupEnv(CkcmdEnv); ok && strings.TrimSpace(value) != "" {
		c.Converter.Binary = strings.TrimSpace(value)
	}
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultCkcmdBinary
	}
	if strings.ContainsAny(c.Converter.Binary, `/\`) || strings.HasPrefix(c.Converter.Binary, "~") {
		expanded, err := expandPath(c.Converter.Binary)
		if err != nil {
			return fmt.Errorf("converter.binary: %w", err)
		}
		c.Converter.Binary = expanded
	}

	c.Converter.LogFile = strings.TrimSpace(c.Converter.LogFile)
	if c.Converter.LogFile == "" {
		c.Converter.LogFile = filepath.Join(os.TempDir(), defaultLogFileName)
	}
	var err error
	if c.Converter.LogFile, err = expandPath(c.Converter.LogFile); err != nil {
		return fmt.Errorf("converter.log_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeConversion() {
	if len(c.Conversion.DLCs) == 0 {
		c.Conversion.DLCs = defaultDLCs()
		return
	}
	seen := make(map[int]struct{}, len(c.Conversion.DLCs))
	dlcs := make([]int, 0, len(c.Conversion.DLCs))
	for _, dlc := range c.Conversion.DLCs {
		if _, exists := seen[dlc]; exists {
			continue
		}
		seen[dlc] = struct{}{}
		dlcs = append(dlcs, dlc)
	}
	c.Conversion.DLCs = dlcs
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
