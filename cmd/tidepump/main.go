package main

import "tidal-pump/internal/cli"

func main() {
	cli.Execute()
}
