// Command shapekit validates JSON/YAML documents against shape rules and
// generates CRUD scaffolding from entity schemas.
package main

import (
	"os"

	"github.com/reoring/shapekit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
