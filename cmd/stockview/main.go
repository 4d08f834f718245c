package main

import "github.com/rustyeddy/stockview/internal/cli"

func main() {
	cli.Execute()
}
