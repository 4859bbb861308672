package main

import (
	"os"

	"github.com/netguru/external-dns-webhook-sdk/cmd/webhook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
