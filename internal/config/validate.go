package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateOutput()
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return errors.New("catalog.path must be set")
	}
	if c.Catalog.DefaultExtension == "" {
		return errors.New("catalog.default_extension must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color must be one of auto, always, never, got %q", c.Output.Color)
	}
}
