package main

import "focustrack/internal/cli"

func main() {
	cli.Execute()
}
