package main

import (
	"os"

	ragsqlcmder "github.com/papercomputeco/ragsql/cmd/ragsql"
)

func main() {
	cmd := ragsqlcmder.NewRagsqlCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
