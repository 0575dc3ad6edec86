package main

import "typewriter/internal/cli"

func main() {
	cli.Execute()
}
