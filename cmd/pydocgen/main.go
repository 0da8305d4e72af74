package main

import "pydocgen/internal/cli"

func main() {
	cli.Execute()
}
