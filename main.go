package main

import "currency-watch/internal/cli"

func main() {
	cli.Execute()
}
