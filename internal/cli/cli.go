// Package cli holds the setup and output helpers shared by the cmd binaries.
package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/betbot/alpaca/pkg/config"
	"github.com/betbot/alpaca/pkg/logger"
	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/marketdata"
	"github.com/betbot/alpaca/pkg/sdk/trading"
)

// Env is a configured process: logger initialised, credentials resolved.
type Env struct {
	Config     *config.Config
	Dispatcher *sdkhttp.Client
}

// Setup loads dotEnvPath and configPath, validates the result and builds the
// dispatcher.
func Setup(configPath, dotEnvPath string) (*Env, error) {
	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := append(cfg.DispatcherOptions(), sdkhttp.WithLogger(logger.Component("http")))
	env := &Env{
		Config:     cfg,
		Dispatcher: sdkhttp.NewClient(opts...),
	}
	logger.WithFields(map[string]interface{}{
		"env":        cfg.Environment.String(),
		"rate_limit": cfg.RateLimitPerMinute,
		"burst":      cfg.RateLimitBurst,
		"log_file":   logger.GetCurrentLogFile(),
	}).Debug("client ready")
	return env, nil
}

func (e *Env) Trading() *trading.Client {
	return trading.NewClient(e.Dispatcher, e.Config.Environment, trading.WithLogger(logger.Component("trading")))
}

func (e *Env) MarketData() *marketdata.Client {
	return marketdata.NewClient(e.Dispatcher)
}

// Fatal prints err and exits non-zero.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("error:"), err.Error())
	os.Exit(1)
}
