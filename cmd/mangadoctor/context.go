package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/config"
	"mangadoctor/internal/logging"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	runID string
}

func newCommandContext(configFlag, dbFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
		jsonFlag:   jsonFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// catalogPath resolves the database location: the --db flag wins over
// the configured path.
func (c *commandContext) catalogPath() (string, error) {
	if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
		return config.ExpandPath(strings.TrimSpace(*c.dbFlag))
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Catalog.Path, nil
}

func (c *commandContext) defaultExtension() string {
	if cfg := c.configValue(); cfg != nil {
		return cfg.Catalog.DefaultExtension
	}
	return config.Default().Catalog.DefaultExtension
}

func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// Logger lazily builds the diagnostic logger, tagged with this run's id.
func (c *commandContext) Logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = slog.Default()
		}
		c.logger = logger.With(slog.String("run_id", c.runID))
	})
	return c.logger
}

// withStore opens the catalog, runs fn, and guarantees the handle is
// closed even when fn fails partway through a report.
func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	path, err := c.catalogPath()
	if err != nil {
		return err
	}
	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	c.Logger().Debug("catalog opened", slog.String("path", path))
	return fn(store)
}
