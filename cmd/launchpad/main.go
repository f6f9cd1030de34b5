package main

import "solana-launchpad/internal/cli"

func main() {
	cli.Execute()
}
