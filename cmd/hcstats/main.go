package main

import "github.com/mcoot/hardercore-api/internal/cli"

func main() {
	cli.Execute()
}
