package main

import "github.com/forPelevin/asrprep/internal/cli"

func main() {
	cli.Main()
}
