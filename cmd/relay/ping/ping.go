// Package pingcmder provides the ping command for keep-alive probes.
package pingcmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janadata/relay/pkg/logger"
	"github.com/janadata/relay/pkg/pinger"
)

type pingCommander struct {
	workers uint
	timeout time.Duration
	debug   bool

	logger *zap.Logger
}

const pingLongDesc string = `Probe a list of URLs.

Issues one GET per URL through a bounded worker pool and reports per-URL
status. Intended for cron-style keep-alive jobs against free-tier
deployments that sleep when idle.`

const pingShortDesc string = "Probe a list of URLs"

func NewPingCmd() *cobra.Command {
	cmder := &pingCommander{}

	cmd := &cobra.Command{
		Use:   "ping URL [URL...]",
		Short: pingShortDesc,
		Long:  pingLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd, args)
		},
	}

	cmd.Flags().UintVarP(&cmder.workers, "workers", "w", 3, "Number of concurrent probes")
	cmd.Flags().DurationVarP(&cmder.timeout, "timeout", "t", 30*time.Second, "Per-probe timeout")

	return cmd
}

func (c *pingCommander) run(cmd *cobra.Command, urls []string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	p := pinger.New(&pinger.Config{
		NumWorkers: c.workers,
		Timeout:    c.timeout,
		Logger:     c.logger,
	})

	results := p.Ping(cmd.Context(), urls)
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d, %s)\n", r.URL, r.Status, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "fail %s (%v)\n", r.URL, r.Err)
		}
	}

	succeeded := pinger.SuccessCount(results)
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d reachable\n", succeeded, len(results))

	if succeeded < len(results) {
		return fmt.Errorf("%d of %d probes failed", len(results)-succeeded, len(results))
	}
	return nil
}
