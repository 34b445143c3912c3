package main

import "github.com/jeremym/clipsample/internal/cli"

func main() {
	cli.Main()
}
