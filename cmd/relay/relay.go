// Package relaycmder
package relaycmder

import (
	pingcmder "github.com/janadata/relay/cmd/relay/ping"
	servecmder "github.com/janadata/relay/cmd/relay/serve"
	"github.com/spf13/cobra"
)

const relayLongDesc string = `Relay is a credential-injecting gateway for third-party APIs.

Run services using:
  relay serve    Run the relay gateway
  relay ping     Probe a list of URLs to keep deployments warm`

const relayShortDesc string = "Relay - API gateway with server-side credentials"

func NewRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: relayShortDesc,
		Long:  relayLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(pingcmder.NewPingCmd())

	return cmd
}
