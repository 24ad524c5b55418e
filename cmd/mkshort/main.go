package main

import "github.com/ddrozdov/mkshort/internal/cli"

func main() {
	cli.Main()
}
