// filepath: cmd/trialdb/main.go
package main

import (
	"trialdb/internal/cli"
)

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
