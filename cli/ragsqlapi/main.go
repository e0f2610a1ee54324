package main

import (
	"os"

	servecmder "github.com/papercomputeco/ragsql/cmd/ragsql/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "ragsqlapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .ragsql/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
