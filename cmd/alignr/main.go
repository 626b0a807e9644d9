package main

import "github.com/Dicklesworthstone/alignr/internal/cli"

func main() {
	cli.Execute()
}
