package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"skymaya/internal/config"
	"skymaya/internal/history"
	"skymaya/internal/logging"
	"skymaya/internal/workflow"
)

type commandContext struct {
	configFlag *string
	pathFlag   *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	mu      sync.Mutex
	history *history.Store
}

func newCommandContext(configFlag, pathFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		pathFlag:   pathFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// startPath returns the --path flag expanded, or "" to let the session
// fall back to its defaults.
func (c *commandContext) startPath() (string, error) {
	if c.pathFlag == nil || strings.TrimSpace(*c.pathFlag) == "" {
		return "", nil
	}
	return config.ExpandPath(strings.TrimSpace(*c.pathFlag))
}

func (c *commandContext) historyStore() (*history.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.history != nil {
		return c.history, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	c.history = store
	return store, nil
}

// newSession builds a workflow session wired to the configured logger and
// history store.
func (c *commandContext) newSession(opts ...workflow.SessionOption) (*workflow.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	start, err := c.startPath()
	if err != nil {
		return nil, err
	}
	store, err := c.historyStore()
	if err != nil {
		return nil, err
	}
	base := []workflow.SessionOption{workflow.WithHistory(store)}
	if start != "" {
		base = append(base, workflow.WithStartPath(start))
	}
	return workflow.NewSession(cfg, logger, append(base, opts...)...)
}

func (c *commandContext) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.history == nil {
		return nil
	}
	err := c.history.Close()
	c.history = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
