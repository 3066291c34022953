package main

import (
	"os"

	"github.com/joho/godotenv"

	relaycmder "github.com/janadata/relay/cmd/relay"
)

func main() {
	// Optional local .env, real deployments set env vars directly.
	_ = godotenv.Load()

	cmd := relaycmder.NewRelayCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
