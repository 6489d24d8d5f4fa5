package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediasweep/internal/config"
	"mediasweep/internal/inventory"
	"mediasweep/internal/logging"
	"mediasweep/internal/notifications"
	"mediasweep/internal/services"
)

type commandContext struct {
	configFlag *string
	noHistory  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	historyOnce sync.Once
	history     *inventory.Store
}

func newCommandContext(configFlag *string, noHistory *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		noHistory:  noHistory,
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
		if err := cfg.EnsureDirectories(); err != nil {
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

// baseLogger returns the process logger. A logger that cannot be built (for
// example an unwritable log file) degrades to console-only output.
func (c *commandContext) baseLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			fallback, fallbackErr := logging.New(logging.Options{Level: "info", Format: "console"})
			if fallbackErr != nil {
				fallback = logging.NewNop()
			}
			logging.WarnWithContext(fallback, "log file unavailable", "logger_init_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "logs go to the console only"),
			)
			logger = fallback
		}
		c.logger = logger
	})
	return c.logger
}

// historyStore opens the run history database once. Disabled history and
// open failures both yield nil; the latter is logged.
func (c *commandContext) historyStore() *inventory.Store {
	c.historyOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil || !cfg.Inventory.Enabled {
			return
		}
		if c.noHistory != nil && *c.noHistory {
			return
		}
		store, err := inventory.Open(cfg.HistoryPath())
		if err != nil {
			logging.WarnWithContext(c.baseLogger(), "history database unavailable", "history_open_failed",
				logging.String("database", cfg.HistoryPath()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run is not recorded"),
			)
			return
		}
		c.history = store
	})
	return c.history
}

// openHistoryForRead opens the history database regardless of --no-history.
func (c *commandContext) openHistoryForRead() (*inventory.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return inventory.Open(cfg.HistoryPath())
}

// beginRun starts history tracking for command and returns a context and
// logger carrying the run identifier.
func (c *commandContext) beginRun(cmd *cobra.Command, command, root, output string) (context.Context, *slog.Logger, *inventory.Tracker) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tracker := inventory.Track(ctx, c.historyStore(), c.baseLogger(), inventory.Run{
		Command: command,
		Root:    root,
		Output:  output,
	})
	ctx = services.WithCommand(ctx, command)
	ctx = services.WithRunID(ctx, tracker.RunID())
	return ctx, logging.WithContext(ctx, c.baseLogger()), tracker
}

func (c *commandContext) notifier() notifications.Service {
	return notifications.NewService(c.configValue())
}

// reportRun sends the run outcome to the configured notifier. Delivery
// failures are logged and never change the command result.
func (c *commandContext) reportRun(ctx context.Context, logger *slog.Logger, command, summary string, runErr error) {
	svc := c.notifier()
	if !notifications.Enabled(svc) {
		return
	}
	var err error
	if runErr != nil {
		err = svc.NotifyRunFailed(ctx, command, runErr)
	} else {
		err = svc.NotifyRunCompleted(ctx, command, summary)
	}
	if err != nil {
		logging.WarnWithContext(logger, "run notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no ntfy report for this run"),
		)
	}
}

func (c *commandContext) close() {
	if c.history != nil {
		_ = c.history.Close()
		c.history = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
