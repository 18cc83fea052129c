// Command samarth answers natural-language questions over Indian
// agricultural policy, crop and climate documents.
package main

import (
	"os"

	"github.com/samarth-labs/samarth-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
