// Package servecmder provides the serve command for running the relay gateway.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janadata/relay/pkg/config"
	"github.com/janadata/relay/pkg/credentials"
	"github.com/janadata/relay/pkg/logger"
	"github.com/janadata/relay/relay"
)

type serveCommander struct {
	listen         string
	timeoutSeconds int
	configPath     string
	debug          bool

	config *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the relay gateway.

The gateway serves the configured endpoints, forwards each inbound request
to its upstream API with the server-side credential attached, and relays
the upstream answer back to the caller.

Endpoints come from relay.toml (or --config). With no file present the
built-in endpoint set is served. Credentials are read from the environment
using each endpoint's credential_key.`

const serveShortDesc string = "Run the relay gateway"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.InitViper(cmder.configPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load(cmder.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Env vars override file values, flags override both.
			cfg.Server.Listen = v.GetString("server.listen")
			cfg.Server.TimeoutSeconds = v.GetInt("server.timeout_seconds")
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = cmder.listen
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Server.TimeoutSeconds = cmder.timeoutSeconds
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			cmder.config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.Server.Listen, "Address for the gateway to listen on")
	cmd.Flags().IntVarP(&cmder.timeoutSeconds, "timeout", "t", defaults.Server.TimeoutSeconds, "Upstream request timeout in seconds")
	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to relay.toml (default: ./relay.toml)")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	creds := credentials.NewEnv()
	for _, ep := range c.config.Endpoints {
		// Presence only, never the value.
		_, ok := creds.Lookup(ep.CredentialKey)
		c.logger.Info("endpoint configured",
			zap.String("endpoint", ep.Name),
			zap.String("path", ep.Path),
			zap.String("credential_key", ep.CredentialKey),
			zap.Bool("credential_present", ok),
		)
	}

	server, err := relay.New(relay.ConfigFrom(c.config), creds, c.logger)
	if err != nil {
		return fmt.Errorf("creating relay server: %w", err)
	}
	defer server.Close()

	c.logger.Info("starting relay gateway",
		zap.String("listen", c.config.Server.Listen),
		zap.Duration("upstream_timeout", time.Duration(c.config.Server.TimeoutSeconds)*time.Second),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("relay server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
