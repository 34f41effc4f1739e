package main

import "github.com/pfrederiksen/wca-notifier/internal/cli"

func main() {
	cli.Execute()
}
