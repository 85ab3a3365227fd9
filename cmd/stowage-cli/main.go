// Command stowage-cli is the operator-facing client for the cargo
// stowage engine: add, search, retrieve, waste, and logs.
package main

import "github.com/cargostow/stowage/internal/cli"

func main() {
	cli.Execute()
}
