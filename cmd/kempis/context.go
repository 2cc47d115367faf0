package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/config"
	"github.com/David-Botos/kempis-corpus/pkg/logging"
)

type globalFlags struct {
	envFile   string
	inputDir  string
	output    string
	strict    bool
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig resolves configuration and the logger once per process
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.LoadConfig(strings.TrimSpace(c.flags.envFile))
		if err != nil {
			c.configErr = err
			return
		}

		c.applyFlags(cmd, cfg)
		if err := cfg.ResolvePaths(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}

		logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			c.configErr = err
			return
		}

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v := strings.TrimSpace(c.flags.inputDir); v != "" {
		cfg.InputDir = v
	}
	if v := strings.TrimSpace(c.flags.output); v != "" {
		cfg.OutputPath = v
	}
	if cmd != nil && cmd.Flags().Changed("strict") {
		cfg.StrictRows = c.flags.strict
	}
	if v := strings.TrimSpace(c.flags.logLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(c.flags.logFormat); v != "" {
		cfg.LogFormat = v
	}
}

func (c *commandContext) close() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
