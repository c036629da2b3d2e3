package main

import (
	"os"

	"github.com/tmplkit/interpolate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
